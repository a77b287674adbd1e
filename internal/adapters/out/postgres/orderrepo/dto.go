// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It converts between the order domain aggregate and its
// relational representation, including the JSON-encoded audit history and the
// version column used for optimistic concurrency.
package orderrepo

import (
	"encoding/json"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The price breakdown is embedded with a price_ prefix, the audit history is
// stored as a jsonb column, and the version column guards concurrent updates.
type OrderDTO struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	BuyerID              uuid.UUID `gorm:"type:uuid;index"`
	SellerID             uuid.UUID `gorm:"type:uuid;index"`
	GigID                uuid.UUID `gorm:"type:uuid"`
	Status               int       `gorm:"index"`
	Price                PriceDTO  `gorm:"embedded;embeddedPrefix:price_"`
	PaymentStatus        int
	CreatedAt            time.Time
	DeliveryDays         int
	DeliveryDate         *time.Time `gorm:"index"`
	DeliveryDateOriginal *time.Time
	ExtendedDays         int
	RevisionsLimit       int
	RevisionsUnlimited   bool
	RevisionsUsed        int
	History              []byte `gorm:"type:jsonb"`
	ProgressOverride     *int
	AdminNote            string
	Version              int
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// PriceDTO represents the embedded money split within the order table.
type PriceDTO struct {
	BaseAmount      float64
	PlatformFeeRate float64
	PlatformFee     float64
	VATRate         float64 `gorm:"column:vat_rate"`
	VATAmount       float64 `gorm:"column:vat_amount"`
	TotalAmount     float64
	SellerEarnings  float64
}

// historyEntryDTO is the JSON shape of one entry in the history column.
// The read-side query handlers decode the same shape.
type historyEntryDTO struct {
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

// fromDomain converts an order domain aggregate to its database
// representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	history, err := historyToJSON(aggregate.History())
	if err != nil {
		return OrderDTO{}, err
	}

	price := aggregate.Price()
	dto := OrderDTO{
		ID:       aggregate.ID().Bytes(),
		BuyerID:  aggregate.BuyerID().Bytes(),
		SellerID: aggregate.SellerID().Bytes(),
		GigID:    aggregate.GigID().Bytes(),
		Status:   int(aggregate.Status()),
		Price: PriceDTO{
			BaseAmount:      price.BaseAmount(),
			PlatformFeeRate: price.PlatformFeeRate(),
			PlatformFee:     price.PlatformFee(),
			VATRate:         price.VATRate(),
			VATAmount:       price.VATAmount(),
			TotalAmount:     price.TotalAmount(),
			SellerEarnings:  price.SellerEarnings(),
		},
		PaymentStatus:      int(aggregate.PaymentStatus()),
		CreatedAt:          aggregate.CreatedAt(),
		DeliveryDays:       aggregate.DeliveryDays(),
		RevisionsLimit:     aggregate.RevisionsAllowed().Limit(),
		RevisionsUnlimited: aggregate.RevisionsAllowed().Unlimited(),
		RevisionsUsed:      aggregate.RevisionsUsed(),
		History:            history,
		ProgressOverride:   aggregate.ProgressOverride(),
		AdminNote:          aggregate.AdminNote(),
		Version:            aggregate.Version(),
	}

	if timeline := aggregate.Timeline(); timeline != nil {
		deliveryDate := timeline.DeliveryDate()
		original := timeline.DeliveryDateOriginal()
		dto.DeliveryDate = &deliveryDate
		dto.DeliveryDateOriginal = &original
		dto.ExtendedDays = timeline.ExtendedDays()
	}

	return dto, nil
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
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
	gigID, err := kernel.UUIDFromBytes(dto.GigID[:])
	if err != nil {
		return nil, err
	}

	price, err := order.RestorePriceBreakdown(
		dto.Price.BaseAmount,
		dto.Price.PlatformFeeRate,
		dto.Price.PlatformFee,
		dto.Price.VATRate,
		dto.Price.VATAmount,
		dto.Price.TotalAmount,
		dto.Price.SellerEarnings,
	)
	if err != nil {
		return nil, err
	}

	var timeline *order.Timeline
	if dto.DeliveryDate != nil && dto.DeliveryDateOriginal != nil {
		restored, tErr := order.RestoreTimeline(*dto.DeliveryDate, *dto.DeliveryDateOriginal, dto.ExtendedDays)
		if tErr != nil {
			return nil, tErr
		}
		timeline = &restored
	}

	allowance := order.NewUnlimitedRevisionAllowance()
	if !dto.RevisionsUnlimited {
		allowance, err = order.NewRevisionAllowance(dto.RevisionsLimit)
		if err != nil {
			return nil, err
		}
	}

	history, err := historyFromJSON(dto.History)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id, buyerID, sellerID, gigID,
		order.Status(dto.Status),
		price,
		order.PaymentStatus(dto.PaymentStatus),
		dto.CreatedAt,
		dto.DeliveryDays,
		timeline,
		allowance,
		dto.RevisionsUsed,
		history,
		dto.ProgressOverride,
		dto.AdminNote,
		dto.Version,
	)
}

func historyToJSON(entries []order.HistoryEntry) ([]byte, error) {
	records := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		payload := entry.Payload()
		actorID := ""
		if entry.Actor().Role() != order.RoleSystem {
			actorID = entry.Actor().ID().String()
		}
		records = append(records, historyEntryDTO{
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
	return json.Marshal(records)
}

func historyFromJSON(raw []byte) ([]order.HistoryEntry, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var records []historyEntryDTO
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
