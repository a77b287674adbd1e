package queries

import (
	"context"
	"encoding/json"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// orderRow mirrors one row of the orders table on the read side.
type orderRow struct {
	ID                   uuid.UUID
	BuyerID              uuid.UUID
	SellerID             uuid.UUID
	GigID                uuid.UUID
	Status               int
	PriceBaseAmount      float64
	PricePlatformFeeRate float64
	PricePlatformFee     float64
	PriceVatRate         float64
	PriceVatAmount       float64
	PriceTotalAmount     float64
	PriceSellerEarnings  float64
	PaymentStatus        int
	CreatedAt            time.Time
	DeliveryDays         int
	DeliveryDate         *time.Time
	DeliveryDateOriginal *time.Time
	ExtendedDays         int
	RevisionsLimit       int
	RevisionsUnlimited   bool
	RevisionsUsed        int
	History              []byte
	ProgressOverride     *int
	AdminNote            string
	Version              int
}

// historyRecord is the JSON shape of one entry in the orders.history column.
// The write side persists the same shape.
type historyRecord struct {
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

// GetOrderQueryHandler reads one order and shapes the full view. The
// aggregate is restored from the row so that derived fields (progress,
// lateness) are computed by the same domain rules the write side uses.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order reads.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns errs.ObjectNotFoundError when no order
// with the requested ID exists.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var row orderRow
	result := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			buyer_id,
			seller_id,
			gig_id,
			status,
			price_base_amount,
			price_platform_fee_rate,
			price_platform_fee,
			price_vat_rate,
			price_vat_amount,
			price_total_amount,
			price_seller_earnings,
			payment_status,
			created_at,
			delivery_days,
			delivery_date,
			delivery_date_original,
			extended_days,
			revisions_limit,
			revisions_unlimited,
			revisions_used,
			history,
			progress_override,
			admin_note,
			version
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Scan(&row)
	if result.Error != nil {
		return GetOrderQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderId", query.OrderID().String())
	}

	o, err := restoreOrder(row)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return buildOrderResponse(o, time.Now().UTC()), nil
}

// restoreOrder rebuilds the domain aggregate from a read-side row.
func restoreOrder(row orderRow) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(row.BuyerID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(row.SellerID[:])
	if err != nil {
		return nil, err
	}
	gigID, err := kernel.UUIDFromBytes(row.GigID[:])
	if err != nil {
		return nil, err
	}

	price, err := order.RestorePriceBreakdown(
		row.PriceBaseAmount,
		row.PricePlatformFeeRate,
		row.PricePlatformFee,
		row.PriceVatRate,
		row.PriceVatAmount,
		row.PriceTotalAmount,
		row.PriceSellerEarnings,
	)
	if err != nil {
		return nil, err
	}

	var timeline *order.Timeline
	if row.DeliveryDate != nil && row.DeliveryDateOriginal != nil {
		restored, tErr := order.RestoreTimeline(*row.DeliveryDate, *row.DeliveryDateOriginal, row.ExtendedDays)
		if tErr != nil {
			return nil, tErr
		}
		timeline = &restored
	}

	allowance := order.NewUnlimitedRevisionAllowance()
	if !row.RevisionsUnlimited {
		allowance, err = order.NewRevisionAllowance(row.RevisionsLimit)
		if err != nil {
			return nil, err
		}
	}

	history, err := restoreHistory(row.History)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id, buyerID, sellerID, gigID,
		order.Status(row.Status),
		price,
		order.PaymentStatus(row.PaymentStatus),
		row.CreatedAt,
		row.DeliveryDays,
		timeline,
		allowance,
		row.RevisionsUsed,
		history,
		row.ProgressOverride,
		row.AdminNote,
		row.Version,
	)
}

func restoreHistory(raw []byte) ([]order.HistoryEntry, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var records []historyRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}

	entries := make([]order.HistoryEntry, 0, len(records))
	for _, rec := range records {
		status, err := order.StatusFromString(rec.Status)
		if err != nil {
			return nil, err
		}
		role, err := order.RoleFromString(rec.ActorRole)
		if err != nil {
			return nil, err
		}

		var actorID kernel.UUID
		if rec.ActorID != "" {
			actorID, err = kernel.UUIDFromString(rec.ActorID)
			if err != nil {
				return nil, err
			}
		}
		actor, err := order.RestoreActor(role, actorID)
		if err != nil {
			return nil, err
		}

		entries = append(entries, order.NewHistoryEntry(status, actor, rec.Timestamp, order.Payload{
			Requirements:  rec.Requirements,
			Description:   rec.Description,
			Reason:        rec.Reason,
			ExtensionDays: rec.ExtensionDays,
			Attachments:   rec.Attachments,
		}))
	}
	return entries, nil
}

// buildOrderResponse maps the aggregate to the transport view.
func buildOrderResponse(o *order.Order, now time.Time) GetOrderQueryResponse {
	price := o.Price()
	resp := GetOrderQueryResponse{
		ID:            o.ID(),
		BuyerID:       o.BuyerID(),
		SellerID:      o.SellerID(),
		GigID:         o.GigID(),
		Status:        o.Status().String(),
		PaymentStatus: o.PaymentStatus().String(),
		Price: PriceBreakdownResponse{
			BaseAmount:      price.BaseAmount(),
			PlatformFeeRate: price.PlatformFeeRate(),
			PlatformFee:     price.PlatformFee(),
			VATRate:         price.VATRate(),
			VATAmount:       price.VATAmount(),
			TotalAmount:     price.TotalAmount(),
			SellerEarnings:  price.SellerEarnings(),
		},
		CreatedAt:        o.CreatedAt(),
		DeliveryDays:     o.DeliveryDays(),
		RevisionsAllowed: o.RevisionsAllowed().String(),
		RevisionsUsed:    o.RevisionsUsed(),
		Progress:         o.Progress(),
		IsLate:           o.IsLate(now),
		AdminNote:        o.AdminNote(),
		Version:          o.Version(),
	}

	if timeline := o.Timeline(); timeline != nil {
		deliveryDate := timeline.DeliveryDate()
		original := timeline.DeliveryDateOriginal()
		resp.DeliveryDate = &deliveryDate
		resp.DeliveryDateOriginal = &original
		resp.ExtendedDays = timeline.ExtendedDays()
	}

	history := o.History()
	resp.History = make([]OrderHistoryEntryResponse, 0, len(history))
	for _, entry := range history {
		payload := entry.Payload()
		actorID := ""
		if entry.Actor().Role() != order.RoleSystem {
			actorID = entry.Actor().ID().String()
		}
		resp.History = append(resp.History, OrderHistoryEntryResponse{
			Status:        entry.Status().String(),
			ActorRole:     entry.Actor().Role().String(),
			ActorID:       actorID,
			Timestamp:     entry.Timestamp(),
			Requirements:  payload.Requirements,
			Description:   payload.Description,
			Reason:        payload.Reason,
			ExtensionDays: payload.ExtensionDays,
			Attachments:   payload.Attachments,
		})
	}

	return resp
}
