package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	GatewayStatusSuccess = "success"
	GatewayStatusFailure = "failure"
)

// ChargeResponse is the only contract callers have with a gateway: the
// status field, and a transaction id when one was issued.
type ChargeResponse struct {
	Status        string
	TransactionID string
	Message       string
}

// Gateway is the external payment capability. The core never calls it with a
// zero or negative amount.
type Gateway interface {
	Charge(ctx context.Context, method string, details CardDetails, amount decimal.Decimal) (ChargeResponse, error)
}

// declinedCard always fails in the simulation, for exercising the decline path.
const declinedCard = "1111222233334444"

// SimulatedGateway stands in for a real processor: one known card number is
// declined, everything else is approved. Production deployments swap in a
// real Gateway here.
type SimulatedGateway struct{}

func (SimulatedGateway) Charge(_ context.Context, method string, details CardDetails, _ decimal.Decimal) (ChargeResponse, error) {
	if method == MethodCreditCard && details.CardNumber == declinedCard {
		return ChargeResponse{Status: GatewayStatusFailure, Message: "Card declined"}, nil
	}
	return ChargeResponse{Status: GatewayStatusSuccess, TransactionID: uuid.NewString()}, nil
}
