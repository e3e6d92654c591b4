// Package notify consumes order lifecycle events and drives customer-facing
// notifications: courier dispatch for confirmed orders, a retry hint for
// failed ones. It also refreshes the order status cache so reads stay warm.
package notify

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/AZREAL6657/MobileFoodDeliveryApp/internal/kafka"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/ordering"
)

// Deduper remembers processed event ids.
type Deduper interface {
	Seen(ctx context.Context, service, eventID string) (bool, error)
}

// StatusSetter refreshes the order status cache.
type StatusSetter interface {
	SetStatus(ctx context.Context, orderID string, status ordering.Status) error
}

type Service struct {
	Dedup       Deduper
	Status      StatusSetter
	Log         *zap.Logger
	ServiceName string
}

// HandleOrderEvent is the consumer handler for both order topics.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env ordering.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	seen, err := s.Dedup.Seen(ctx, s.ServiceName, env.EventID)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	switch env.EventType {
	case ordering.EventOrderConfirmed:
		return s.handleConfirmed(ctx, env)
	case ordering.EventOrderFailed:
		return s.handleFailed(env)
	default:
		return nil // ignore
	}
}

func (s *Service) handleConfirmed(ctx context.Context, env ordering.Envelope) error {
	p, err := kafkax.UnwrapPayload[ordering.OrderConfirmedPayload](env.Payload)
	if err != nil {
		return err
	}
	if err := s.Status.SetStatus(ctx, p.OrderID, ordering.StatusConfirmed); err != nil {
		return err
	}
	s.Log.Info("courier dispatch requested",
		zap.String("order_id", p.OrderID),
		zap.String("user_id", p.UserID),
		zap.String("delivery_address", p.DeliveryAddress),
		zap.Int("estimated_delivery_min", p.EstimatedDeliveryMin),
		zap.String("total_amount", p.TotalAmount.String()),
	)
	return nil
}

func (s *Service) handleFailed(env ordering.Envelope) error {
	p, err := kafkax.UnwrapPayload[ordering.OrderFailedPayload](env.Payload)
	if err != nil {
		return err
	}
	s.Log.Info("order failure notice",
		zap.String("cart_id", p.CartID),
		zap.String("user_id", p.UserID),
		zap.String("reason", p.Reason),
	)
	return nil
}
