package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/AZREAL6657/MobileFoodDeliveryApp/internal/kafka"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/ordering"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/payment"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/session"
)

// OrderStore persists confirmed orders and answers status lookups.
type OrderStore interface {
	SaveConfirmed(ctx context.Context, orderID string, profile ordering.UserProfile, totals ordering.Totals, lines []ordering.Line) error
	GetOrderStatus(ctx context.Context, orderID string) (ordering.Status, error)
}

// StatusCache fronts the store for status reads.
type StatusCache interface {
	SetStatus(ctx context.Context, orderID string, status ordering.Status) error
	GetStatus(ctx context.Context, orderID string) (ordering.Status, bool, error)
}

// Publisher is the async event sink for one topic.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type OrdersHandler struct {
	Sessions  *session.Store
	Store     OrderStore
	Cache     StatusCache
	Payments  *payment.Processor
	Confirmed Publisher
	Failed    Publisher
	Service   string
	Log       *zap.Logger
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/carts/{id}/checkout", h.checkout)
	r.Post("/carts/{id}/confirm", h.confirmOrder)
	r.Get("/orders/{id}", h.getOrder)
}

func (h *OrdersHandler) checkout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "cart not found")
		return
	}
	sess.Lock()
	defer sess.Unlock()

	writeJSON(w, http.StatusOK, sess.Placement.ProceedToCheckout())
}

type confirmOrderReq struct {
	PaymentMethod string `json:"payment_method"`
	CardNumber    string `json:"card_number"`
	ExpiryDate    string `json:"expiry_date"`
	CVV           string `json:"cvv"`
}

type confirmOrderResp struct {
	OrderID              string `json:"order_id"`
	EstimatedDeliveryMin int    `json:"estimated_delivery_min"`
	Message              string `json:"message"`
}

func (h *OrdersHandler) confirmOrder(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "cart not found")
		return
	}
	var req confirmOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sess.Lock()
	defer sess.Unlock()

	// Captured before ConfirmOrder clears the cart.
	summary := sess.Placement.ProceedToCheckout()

	payer := payment.Payer{
		Processor: h.Payments,
		Method:    req.PaymentMethod,
		Details: payment.CardDetails{
			CardNumber: req.CardNumber,
			ExpiryDate: req.ExpiryDate,
			CVV:        req.CVV,
		},
	}

	conf, err := sess.Placement.ConfirmOrder(ctx, payer)
	if err != nil {
		// A repeat confirm on a finalized placement is not a new failure;
		// emitting order.failed here would contradict the order's real outcome.
		if !errors.Is(err, ordering.ErrOrderClosed) {
			h.publishFailed(sess, err.Error(), r.Header.Get("X-Request-Id"))
		}
		writeError(w, confirmStatusCode(err), err.Error())
		return
	}

	profile := ordering.UserProfile{UserID: sess.UserID, DeliveryAddress: summary.DeliveryAddress}
	if err := h.Store.SaveConfirmed(ctx, conf.OrderID, profile, summary.Totals, summary.Items); err != nil {
		// The charge already went through; the order stands even if the row
		// has to be replayed from the event stream.
		h.Log.Error("persist confirmed order failed",
			zap.String("order_id", conf.OrderID), zap.Error(err))
	}
	if err := h.Cache.SetStatus(ctx, conf.OrderID, ordering.StatusConfirmed); err != nil {
		h.Log.Warn("status cache set failed", zap.String("order_id", conf.OrderID), zap.Error(err))
	}

	h.publishConfirmed(sess, conf, summary, r.Header.Get("X-Request-Id"))

	writeJSON(w, http.StatusCreated, confirmOrderResp{
		OrderID:              conf.OrderID,
		EstimatedDeliveryMin: int(conf.EstimatedDelivery.Minutes()),
		Message:              "Order confirmed",
	})
}

// confirmStatusCode maps the confirm failure taxonomy: closed order, order
// validation, then everything from the payment layer.
func confirmStatusCode(err error) int {
	var unavailable *ordering.UnavailableItemError
	switch {
	case errors.Is(err, ordering.ErrOrderClosed):
		return http.StatusConflict
	case errors.Is(err, ordering.ErrEmptyCart), errors.As(err, &unavailable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusPaymentRequired
	}
}

func (h *OrdersHandler) publishConfirmed(sess *session.Session, conf ordering.Confirmation, summary ordering.CheckoutSummary, traceID string) {
	ev := ordering.Envelope{
		EventID:       uuid.NewString(),
		EventType:     ordering.EventOrderConfirmed,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: conf.OrderID,
		Payload: kafkax.MustMarshal(ordering.OrderConfirmedPayload{
			OrderID:              conf.OrderID,
			UserID:               sess.UserID,
			DeliveryAddress:      summary.DeliveryAddress,
			Items:                summary.Items,
			TotalAmount:          summary.Totals.Total,
			EstimatedDeliveryMin: int(conf.EstimatedDelivery.Minutes()),
		}),
	}
	h.Confirmed.Publish(ordering.PartitionKey(conf.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(ordering.EventOrderConfirmed)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) publishFailed(sess *session.Session, reason, traceID string) {
	ev := ordering.Envelope{
		EventID:       uuid.NewString(),
		EventType:     ordering.EventOrderFailed,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: sess.ID,
		Payload: kafkax.MustMarshal(ordering.OrderFailedPayload{
			CartID: sess.ID,
			UserID: sess.UserID,
			Reason: reason,
		}),
	}
	h.Failed.Publish(ordering.PartitionKey(sess.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(ordering.EventOrderFailed)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if status, ok, err := h.Cache.GetStatus(ctx, orderID); err == nil && ok {
		writeJSON(w, http.StatusOK, map[string]any{"order_id": orderID, "status": status})
		return
	}

	status, err := h.Store.GetOrderStatus(ctx, orderID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err := h.Cache.SetStatus(ctx, orderID, status); err != nil {
		h.Log.Warn("status cache set failed", zap.String("order_id", orderID), zap.Error(err))
	}
	writeJSON(w, http.StatusOK, map[string]any{"order_id": orderID, "status": status})
}
