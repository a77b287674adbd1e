package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// The persisted record is the single source of truth for an order's state;
// any in-memory copy is advisory.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate using an
	// optimistic version check. If the stored version no longer matches the
	// version the aggregate was loaded with, Update fails with
	// errs.ErrVersionIsInvalid and nothing is written; the caller must
	// refetch and retry.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllLate retrieves active orders whose delivery deadline has passed
	// at the given instant. Completed and cancelled orders are excluded.
	// Used by the deadline sweep.
	GetAllLate(ctx context.Context, now time.Time) ([]*order.Order, error)
}
