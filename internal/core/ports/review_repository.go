package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/review"
)

// ReviewRepository defines the persistence contract for review aggregates.
// The storage must hold at most one review per order.
type ReviewRepository interface {
	// Add persists a new review. Fails if a review already exists for the
	// same order.
	Add(ctx context.Context, aggregate *review.Review) error

	// GetByOrderID retrieves the review of an order.
	// Returns errs.ErrObjectNotFound when the order has no review.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*review.Review, error)

	// ExistsForOrder reports whether a review exists for the order.
	ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error)
}
