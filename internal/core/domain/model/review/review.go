// Package review provides the Review aggregate: the buyer's one-time rating
// of a completed order. Exactly one review may ever exist per order; reviews
// are created once and never mutated.
package review

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Rating bounds for a review.
const (
	MinRating = 1
	MaxRating = 5
)

var (
	// ErrReviewIsNotConstructed is returned when a Review instance was not
	// created through the NewReview or RestoreReview factory methods.
	ErrReviewIsNotConstructed = errors.New("Review must be created via NewReview or RestoreReview")

	// ErrDuplicateReview is returned when a second review is submitted for an
	// order that already has one.
	ErrDuplicateReview = errors.New("a review already exists for this order")
)

// Review is the buyer's rating of a completed order.
//
// Invariants:
//   - rating is within [MinRating, MaxRating]
//   - the review references an order and both its participants
//   - once created, a review never changes
type Review struct {
	orderID   kernel.UUID
	buyerID   kernel.UUID
	sellerID  kernel.UUID
	rating    int
	text      string
	createdAt time.Time

	isConstructed bool
}

// NewReview creates the one-time review of an order. The review text may be
// empty; the rating must be within bounds. Whether the order is in a
// reviewable state and whether a review already exists is enforced by the
// review gate (the submit-review use case), not here.
func NewReview(orderID, buyerID, sellerID kernel.UUID, rating int, text string, now time.Time) (*Review, error) {
	r := &Review{
		isConstructed: true,
	}

	if err := errors.Join(
		r.setOrderID(orderID),
		r.setParticipants(buyerID, sellerID),
		r.setRating(rating),
	); err != nil {
		return nil, err
	}

	r.text = strings.TrimSpace(text)
	r.createdAt = now
	return r, nil
}

// RestoreReview reconstructs a review from persistence.
func RestoreReview(
	orderID, buyerID, sellerID kernel.UUID, rating int, text string, createdAt time.Time,
) (*Review, error) {
	return NewReview(orderID, buyerID, sellerID, rating, text, createdAt)
}

// Validate ensures the Review instance was properly constructed.
func (r *Review) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrReviewIsNotConstructed
	}
	return nil
}

// OrderID returns the reviewed order's ID.
func (r *Review) OrderID() kernel.UUID {
	return r.orderID
}

// BuyerID returns the reviewing buyer's user ID.
func (r *Review) BuyerID() kernel.UUID {
	return r.buyerID
}

// SellerID returns the reviewed seller's user ID.
func (r *Review) SellerID() kernel.UUID {
	return r.sellerID
}

// Rating returns the star rating in [MinRating, MaxRating].
func (r *Review) Rating() int {
	return r.rating
}

// Text returns the review body. May be empty.
func (r *Review) Text() string {
	return r.text
}

// CreatedAt returns when the review was submitted.
func (r *Review) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Review) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	r.orderID = orderID
	return nil
}

func (r *Review) setParticipants(buyerID, sellerID kernel.UUID) error {
	if err := errors.Join(buyerID.Validate(), sellerID.Validate()); err != nil {
		return err
	}
	r.buyerID = buyerID
	r.sellerID = sellerID
	return nil
}

func (r *Review) setRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return errs.NewValueIsOutOfRangeError("rating", rating, MinRating, MaxRating)
	}
	r.rating = rating
	return nil
}
