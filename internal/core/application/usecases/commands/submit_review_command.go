package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrSubmitReviewCommandIsNotConstructed = errors.New(
	"SubmitReviewCommand must be created via NewSubmitReviewCommand constructor",
)

// SubmitReviewCommand is the buyer's one-time review of a finished order.
// Rating bounds are checked by the review aggregate when the command is
// handled.
type SubmitReviewCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	buyerID kernel.UUID
	rating  int
	text    string

	guard guard.ConstructorGuard
}

// NewSubmitReviewCommand creates a review submission for the given order.
func NewSubmitReviewCommand(
	orderID kernel.UUID,
	buyerID kernel.UUID,
	rating int,
	text string,
) (SubmitReviewCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		buyerID.Validate(),
	); err != nil {
		return SubmitReviewCommand{}, err
	}

	return SubmitReviewCommand{
		orderID: orderID,
		buyerID: buyerID,
		rating:  rating,
		text:    text,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitReviewCommand) Validate() error {
	return c.guard.Validate(ErrSubmitReviewCommandIsNotConstructed)
}

// OrderID returns the reviewed order's identifier.
func (c SubmitReviewCommand) OrderID() kernel.UUID {
	return c.orderID
}

// BuyerID returns the reviewing buyer's user ID.
func (c SubmitReviewCommand) BuyerID() kernel.UUID {
	return c.buyerID
}

// Rating returns the submitted star rating.
func (c SubmitReviewCommand) Rating() int {
	return c.rating
}

// Text returns the submitted review body. May be empty.
func (c SubmitReviewCommand) Text() string {
	return c.text
}
