// Package queries contains read-only operations for the order workflow.
// Implements the query side of the CQRS architecture: handlers read the
// database directly and shape responses for the transport layer, bypassing
// the unit of work used by commands.
package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves the full view of one order: identity, status,
// price breakdown, payment state, deadline, revision counters, progress and
// the complete audit history.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order's identifier.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// PriceBreakdownResponse is the money split of an order.
type PriceBreakdownResponse struct {
	BaseAmount      float64
	PlatformFeeRate float64
	PlatformFee     float64
	VATRate         float64
	VATAmount       float64
	TotalAmount     float64
	SellerEarnings  float64
}

// OrderHistoryEntryResponse is one audit log entry of an order.
type OrderHistoryEntryResponse struct {
	Status        string
	ActorRole     string
	ActorID       string
	Timestamp     time.Time
	Requirements  string
	Description   string
	Reason        string
	ExtensionDays int
	Attachments   []string
}

// GetOrderQueryResponse is the full order view returned to the transport
// layer. Progress and IsLate are derived at read time from the persisted
// state.
type GetOrderQueryResponse struct {
	ID                   kernel.UUID
	BuyerID              kernel.UUID
	SellerID             kernel.UUID
	GigID                kernel.UUID
	Status               string
	PaymentStatus        string
	Price                PriceBreakdownResponse
	CreatedAt            time.Time
	DeliveryDays         int
	DeliveryDate         *time.Time
	DeliveryDateOriginal *time.Time
	ExtendedDays         int
	RevisionsAllowed     string
	RevisionsUsed        int
	Progress             int
	IsLate               bool
	AdminNote            string
	Version              int
	History              []OrderHistoryEntryResponse
}
