package http

import (
	"time"

	"marketplace/internal/core/application/usecases/queries"

	"github.com/go-playground/validator/v10"
)

// Envelope is the uniform response wrapper: {status: "ok"|"error", ...}.
type Envelope struct {
	Status  string `json:"status"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(data any) Envelope {
	return Envelope{Status: "ok", Data: data}
}

// RequestValidator adapts go-playground/validator to echo's Validator
// interface.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates the validator used for request DTOs.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	BuyerID          string   `json:"buyerId" validate:"required,uuid"`
	SellerID         string   `json:"sellerId" validate:"required,uuid"`
	GigID            string   `json:"gigId" validate:"required,uuid"`
	BaseAmount       float64  `json:"baseAmount" validate:"required,gt=0"`
	PlatformFeeRate  *float64 `json:"platformFeeRate,omitempty" validate:"omitempty,gte=0,lt=1"`
	VATRate          *float64 `json:"vatRate,omitempty" validate:"omitempty,gte=0,lt=1"`
	DeliveryDays     int      `json:"deliveryDays" validate:"required,gt=0"`
	RevisionsAllowed *int     `json:"revisionsAllowed,omitempty" validate:"omitempty,gte=0"`
	PaidUpfront      bool     `json:"paidUpfront"`
}

// TransitionPayloadRequest carries the optional payload of a transition.
type TransitionPayloadRequest struct {
	Requirements string   `json:"requirements,omitempty"`
	Description  string   `json:"description,omitempty"`
	Reason       string   `json:"reason,omitempty"`
	Attachments  []string `json:"attachments,omitempty"`
}

// AdvanceStatusRequest is the body of POST /api/v1/orders/:id/advance-status,
// the generic transition used by the UI's "click to advance".
type AdvanceStatusRequest struct {
	Action string `json:"action" validate:"required"`
	TransitionPayloadRequest
}

// ExtendDeadlineRequest is the body of POST /api/v1/orders/:id/timeline/extend.
// AdditionalDays carries no validate tag: zero must reach the timeline's
// range guard instead of failing as a missing field.
type ExtendDeadlineRequest struct {
	AdditionalDays int    `json:"additionalDays"`
	Reason         string `json:"reason,omitempty"`
}

// SubmitReviewRequest is the body of POST /api/v1/orders/:id/reviews.
type SubmitReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text,omitempty"`
}

// PriceBreakdownResponse is the money split in the order view.
type PriceBreakdownResponse struct {
	BaseAmount      float64 `json:"baseAmount"`
	PlatformFeeRate float64 `json:"platformFeeRate"`
	PlatformFee     float64 `json:"platformFee"`
	VATRate         float64 `json:"vatRate"`
	VATAmount       float64 `json:"vatAmount"`
	TotalAmount     float64 `json:"totalAmount"`
	SellerEarnings  float64 `json:"sellerEarnings"`
}

// HistoryEntryResponse is one audit log entry in the order view.
type HistoryEntryResponse struct {
	Status        string    `json:"status"`
	ActorRole     string    `json:"actorRole"`
	ActorID       string    `json:"actorId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	Requirements  string    `json:"requirements,omitempty"`
	Description   string    `json:"description,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	ExtensionDays int       `json:"extensionDays,omitempty"`
	Attachments   []string  `json:"attachments,omitempty"`
}

// OrderResponse is the full order view returned by GET /api/v1/orders/:id.
type OrderResponse struct {
	ID                   string                 `json:"id"`
	BuyerID              string                 `json:"buyerId"`
	SellerID             string                 `json:"sellerId"`
	GigID                string                 `json:"gigId"`
	Status               string                 `json:"status"`
	PaymentStatus        string                 `json:"paymentStatus"`
	Price                PriceBreakdownResponse `json:"price"`
	CreatedAt            time.Time              `json:"createdAt"`
	DeliveryDays         int                    `json:"deliveryDays"`
	DeliveryDate         *time.Time             `json:"deliveryDate,omitempty"`
	DeliveryDateOriginal *time.Time             `json:"deliveryDateOriginal,omitempty"`
	ExtendedDays         int                    `json:"extendedDays"`
	RevisionsAllowed     string                 `json:"revisionsAllowed"`
	RevisionsUsed        int                    `json:"revisionsUsed"`
	Progress             int                    `json:"progress"`
	IsLate               bool                   `json:"isLate"`
	AdminNote            string                 `json:"adminNote,omitempty"`
	Version              int                    `json:"version"`
	History              []HistoryEntryResponse `json:"history"`
}

// LateOrderResponse is one overdue order in GET /api/v1/orders/late.
type LateOrderResponse struct {
	ID           string    `json:"id"`
	BuyerID      string    `json:"buyerId"`
	SellerID     string    `json:"sellerId"`
	Status       string    `json:"status"`
	DeliveryDate time.Time `json:"deliveryDate"`
	DaysLate     int       `json:"daysLate"`
}

func toOrderResponse(view queries.GetOrderQueryResponse) OrderResponse {
	resp := OrderResponse{
		ID:            view.ID.String(),
		BuyerID:       view.BuyerID.String(),
		SellerID:      view.SellerID.String(),
		GigID:         view.GigID.String(),
		Status:        view.Status,
		PaymentStatus: view.PaymentStatus,
		Price: PriceBreakdownResponse{
			BaseAmount:      view.Price.BaseAmount,
			PlatformFeeRate: view.Price.PlatformFeeRate,
			PlatformFee:     view.Price.PlatformFee,
			VATRate:         view.Price.VATRate,
			VATAmount:       view.Price.VATAmount,
			TotalAmount:     view.Price.TotalAmount,
			SellerEarnings:  view.Price.SellerEarnings,
		},
		CreatedAt:            view.CreatedAt,
		DeliveryDays:         view.DeliveryDays,
		DeliveryDate:         view.DeliveryDate,
		DeliveryDateOriginal: view.DeliveryDateOriginal,
		ExtendedDays:         view.ExtendedDays,
		RevisionsAllowed:     view.RevisionsAllowed,
		RevisionsUsed:        view.RevisionsUsed,
		Progress:             view.Progress,
		IsLate:               view.IsLate,
		AdminNote:            view.AdminNote,
		Version:              view.Version,
	}

	resp.History = make([]HistoryEntryResponse, 0, len(view.History))
	for _, entry := range view.History {
		resp.History = append(resp.History, HistoryEntryResponse{
			Status:        entry.Status,
			ActorRole:     entry.ActorRole,
			ActorID:       entry.ActorID,
			Timestamp:     entry.Timestamp,
			Requirements:  entry.Requirements,
			Description:   entry.Description,
			Reason:        entry.Reason,
			ExtensionDays: entry.ExtensionDays,
			Attachments:   entry.Attachments,
		})
	}

	return resp
}
