package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// PaymentStatus tracks the escrow state of the order's payment.
//
// Allowed movements:
//
//	pending ──> paid ──> refunded
//
// paid -> pending is never permitted, and refunded may only be reached from a
// cancelled order. The actual capture and settlement happen in the external
// payment gateway; the domain only records the outcome.
type PaymentStatus int

const (
	// PaymentUnknown represents an invalid or undefined payment status.
	PaymentUnknown PaymentStatus = iota

	// PaymentPending indicates the payment has not been captured yet.
	PaymentPending

	// PaymentPaid indicates the gateway confirmed capture; funds are in escrow.
	PaymentPaid

	// PaymentRefunded indicates the gateway refunded a cancelled order.
	PaymentRefunded
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentUnknown:  "unknown",
		PaymentPending:  "pending",
		PaymentPaid:     "paid",
		PaymentRefunded: "refunded",
	}
}

// Validate checks if the PaymentStatus value is one of the declared states.
func (p PaymentStatus) Validate() error {
	if p == PaymentUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment status is invalid",
			fmt.Errorf("%d is not a valid payment status", p),
		)
	}
	if _, ok := getPaymentStatusStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment status is invalid",
			fmt.Errorf("%d is not a valid payment status", p),
		)
	}
	return nil
}

// String returns the wire representation of the payment status.
func (p PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[p]; ok {
		return str
	}
	return "unknown"
}
