package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetLateOrdersQueryIsNotConstructed = errors.New(
	"GetLateOrdersQuery must be created via NewGetLateOrdersQuery constructor",
)

// GetLateOrdersQuery retrieves active orders whose delivery deadline has
// passed at the given instant. Completed and cancelled orders are never
// late, and neither are orders whose deadline is not scheduled yet.
type GetLateOrdersQuery struct {
	asOf time.Time

	guard guard.ConstructorGuard
}

// NewGetLateOrdersQuery creates a query for orders late at asOf.
func NewGetLateOrdersQuery(asOf time.Time) (GetLateOrdersQuery, error) {
	if asOf.IsZero() {
		return GetLateOrdersQuery{}, errors.New("asOf must not be the zero time")
	}

	return GetLateOrdersQuery{asOf: asOf, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetLateOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetLateOrdersQueryIsNotConstructed)
}

// AsOf returns the instant lateness is evaluated against.
func (q GetLateOrdersQuery) AsOf() time.Time {
	return q.asOf
}

// GetLateOrdersQueryResponse is one overdue order in the sweep view.
type GetLateOrdersQueryResponse struct {
	ID           kernel.UUID
	BuyerID      kernel.UUID
	SellerID     kernel.UUID
	Status       string
	DeliveryDate time.Time
	DaysLate     int
}
