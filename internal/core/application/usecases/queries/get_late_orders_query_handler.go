package queries

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetLateOrdersQueryHandler retrieves overdue orders from the database.
// Backs the deadline sweep and the admin's late-orders view.
type GetLateOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetLateOrdersQueryHandler creates a handler for late-order queries.
func NewGetLateOrdersQueryHandler(db *gorm.DB) GetLateOrdersQueryHandler {
	return GetLateOrdersQueryHandler{db: db}
}

// Handle executes the query. Results are sorted most overdue first.
func (h GetLateOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetLateOrdersQuery,
) ([]GetLateOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	lateOrders := make([]GetLateOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			buyer_id,
			seller_id,
			status,
			delivery_date
		FROM orders
		WHERE delivery_date IS NOT NULL
		  AND delivery_date < ?
		  AND status NOT IN (?, ?)
		ORDER BY delivery_date
	`, query.AsOf(), int(order.StatusCompleted), int(order.StatusCancelled)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, buyerID, sellerID uuid.UUID
		var status int
		var deliveryDate time.Time

		if err = rows.Scan(&id, &buyerID, &sellerID, &status, &deliveryDate); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		buyer, idErr := kernel.UUIDFromBytes(buyerID[:])
		if idErr != nil {
			return nil, idErr
		}
		seller, idErr := kernel.UUIDFromBytes(sellerID[:])
		if idErr != nil {
			return nil, idErr
		}

		daysLate := int(query.AsOf().Sub(deliveryDate).Hours() / 24)

		lateOrders = append(lateOrders, GetLateOrdersQueryResponse{
			ID:           orderID,
			BuyerID:      buyer,
			SellerID:     seller,
			Status:       order.Status(status).String(),
			DeliveryDate: deliveryDate,
			DaysLate:     daysLate,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return lateOrders, nil
}
