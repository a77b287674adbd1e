// Package reviewrepo provides data transfer objects and mapping functions for
// review persistence. One review per order is enforced with a unique index on
// the order ID.
package reviewrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/review"

	"github.com/google/uuid"
)

// ReviewDTO represents the database structure for persisting reviews.
type ReviewDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	BuyerID   uuid.UUID `gorm:"type:uuid;index"`
	SellerID  uuid.UUID `gorm:"type:uuid;index"`
	Rating    int
	Text      string
	CreatedAt time.Time
}

// TableName specifies the database table name for review entities.
func (ReviewDTO) TableName() string {
	return "reviews"
}

// fromDomain converts a review domain aggregate to its database
// representation.
func fromDomain(aggregate *review.Review) ReviewDTO {
	return ReviewDTO{
		OrderID:   aggregate.OrderID().Bytes(),
		BuyerID:   aggregate.BuyerID().Bytes(),
		SellerID:  aggregate.SellerID().Bytes(),
		Rating:    aggregate.Rating(),
		Text:      aggregate.Text(),
		CreatedAt: aggregate.CreatedAt(),
	}
}

// toDomain converts a database DTO to a review domain aggregate.
func toDomain(dto ReviewDTO) (*review.Review, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}

	return review.RestoreReview(orderID, buyerID, sellerID, dto.Rating, dto.Text, dto.CreatedAt)
}
