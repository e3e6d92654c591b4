package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/catalog"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/ordering"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/session"
)

// MenuSource supplies the menu snapshot a session validates against.
type MenuSource interface {
	Menu(ctx context.Context) (*ordering.StaticMenu, error)
	AvailableItems(ctx context.Context) ([]string, error)
}

// ProfileSource supplies the delivery destination for a user.
type ProfileSource interface {
	Profile(ctx context.Context, userID string) (ordering.UserProfile, error)
}

type CartHandler struct {
	Sessions *session.Store
	Menus    MenuSource
	Profiles ProfileSource
	Fee      decimal.Decimal
	Log      *zap.Logger
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Post("/carts", h.createCart)
	r.Get("/carts/{id}", h.viewCart)
	r.Post("/carts/{id}/items", h.addItem)
	r.Put("/carts/{id}/items/{name}", h.updateItem)
	r.Delete("/carts/{id}/items/{name}", h.removeItem)
	r.Get("/menu", h.listMenu)
}

type createCartReq struct {
	UserID string `json:"user_id"`
}

type cartView struct {
	CartID string          `json:"cart_id"`
	UserID string          `json:"user_id"`
	Status ordering.Status `json:"status"`
	Items  []ordering.Line `json:"items"`
	Totals ordering.Totals `json:"totals"`
}

func (h *CartHandler) createCart(w http.ResponseWriter, r *http.Request) {
	var req createCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "missing user_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	profile, err := h.Profiles.Profile(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, catalog.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	// One menu snapshot per session; the menu stays stable for the whole order.
	menu, err := h.Menus.Menu(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load menu")
		return
	}

	cart := ordering.NewCartWithFee(h.Fee)
	placement := ordering.NewOrderPlacement(cart, profile, menu)
	sess := h.Sessions.Create(req.UserID, cart, placement)

	h.Log.Info("cart opened", zap.String("cart_id", sess.ID), zap.String("user_id", req.UserID))
	writeJSON(w, http.StatusCreated, map[string]string{"cart_id": sess.ID})
}

func (h *CartHandler) viewCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "cart not found")
		return
	}
	sess.Lock()
	defer sess.Unlock()

	writeJSON(w, http.StatusOK, cartView{
		CartID: sess.ID,
		UserID: sess.UserID,
		Status: sess.Placement.Status(),
		Items:  sess.Cart.Lines(),
		Totals: sess.Cart.CalculateTotal(),
	})
}

type addItemReq struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "cart not found")
		return
	}
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "missing name")
		return
	}

	sess.Lock()
	defer sess.Unlock()

	res, err := sess.Cart.AddItem(req.Name, req.UnitPrice, req.Quantity)
	if err != nil {
		var ve *ordering.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Reason)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"result": res,
		"items":  sess.Cart.Lines(),
		"totals": sess.Cart.CalculateTotal(),
	})
}

type updateItemReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "cart not found")
		return
	}
	var req updateItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	sess.Lock()
	defer sess.Unlock()

	err := sess.Cart.UpdateQuantity(chi.URLParam(r, "name"), req.Quantity)
	switch {
	case errors.Is(err, ordering.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		var ve *ordering.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Reason)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":  sess.Cart.Lines(),
		"totals": sess.Cart.CalculateTotal(),
	})
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "cart not found")
		return
	}
	sess.Lock()
	defer sess.Unlock()

	sess.Cart.RemoveItem(chi.URLParam(r, "name"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) listMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Menus.AvailableItems(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
