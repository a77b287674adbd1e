package ports

import (
	"context"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
)

// PaymentError wraps a gateway capture/refund failure. The core surfaces it
// as-is and never retries the gateway on its own.
type PaymentError struct {
	Op      string // "capture" or "refund"
	OrderID kernel.UUID
	Cause   error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment %s failed for order %s: %v", e.Op, e.OrderID, e.Cause)
}

func (e *PaymentError) Unwrap() error {
	return e.Cause
}

// PaymentGateway is the external escrow collaborator. The state machine calls
// Capture only at the requirementsSubmitted -> started boundary and Refund
// only after a cancellation of a captured payment; settlement mechanics live
// entirely on the gateway's side.
type PaymentGateway interface {
	// Capture charges the buyer and places amount in escrow for the order.
	Capture(ctx context.Context, orderID kernel.UUID, amount float64) error

	// Refund returns the escrowed amount of a cancelled order to the buyer.
	Refund(ctx context.Context, orderID kernel.UUID) error
}
