package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrBaseAmountIsInvalid   = errors.New("base amount must be greater than 0")
	ErrDeliveryDaysIsInvalid = errors.New("delivery days must be greater than 0")
)

// CreateOrderCommand represents a purchase: it registers a new order between
// a buyer and a seller for a gig, with the price breakdown computed at
// creation time. The order starts in status created, with payment pending or
// already captured depending on the checkout policy.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(
//	    kernel.NewUUID(), buyerID, sellerID, gigID,
//	    100.0, 7, allowance, false,
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	buyerID          kernel.UUID
	sellerID         kernel.UUID
	gigID            kernel.UUID
	baseAmount       float64
	platformFeeRate  float64
	vatRate          float64
	deliveryDays     int
	revisionsAllowed order.RevisionAllowance
	paidUpfront      bool

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates an order-registration command using the
// default platform-fee and VAT rates.
func NewCreateOrderCommand(
	orderID, buyerID, sellerID, gigID kernel.UUID,
	baseAmount float64,
	deliveryDays int,
	revisionsAllowed order.RevisionAllowance,
	paidUpfront bool,
) (CreateOrderCommand, error) {
	return NewCreateOrderCommandWithRates(
		orderID, buyerID, sellerID, gigID,
		baseAmount, order.DefaultPlatformFeeRate, order.DefaultVATRate,
		deliveryDays, revisionsAllowed, paidUpfront,
	)
}

// NewCreateOrderCommandWithRates creates an order-registration command with
// explicit rates, for callers whose checkout resolved a jurisdiction VAT rate
// or a negotiated platform fee. Rates set here are never overridden later.
func NewCreateOrderCommandWithRates(
	orderID, buyerID, sellerID, gigID kernel.UUID,
	baseAmount, platformFeeRate, vatRate float64,
	deliveryDays int,
	revisionsAllowed order.RevisionAllowance,
	paidUpfront bool,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		platformFeeRate: platformFeeRate,
		vatRate:         vatRate,
		paidUpfront:     paidUpfront,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setIDs(orderID, buyerID, sellerID, gigID),
		cmd.setBaseAmount(baseAmount),
		cmd.setDeliveryDays(deliveryDays),
		cmd.setRevisionsAllowed(revisionsAllowed),
		validateRate("platform fee rate", platformFeeRate),
		validateRate("vat rate", vatRate),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through a constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier assigned to the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// BuyerID returns the purchasing party's user ID.
func (c CreateOrderCommand) BuyerID() kernel.UUID {
	return c.buyerID
}

// SellerID returns the delivering party's user ID.
func (c CreateOrderCommand) SellerID() kernel.UUID {
	return c.sellerID
}

// GigID returns the purchased gig listing's ID.
func (c CreateOrderCommand) GigID() kernel.UUID {
	return c.gigID
}

// BaseAmount returns the gig price before fees and tax.
func (c CreateOrderCommand) BaseAmount() float64 {
	return c.baseAmount
}

// PlatformFeeRate returns the fee rate applied to the base amount.
func (c CreateOrderCommand) PlatformFeeRate() float64 {
	return c.platformFeeRate
}

// VATRate returns the buyer-jurisdiction tax rate.
func (c CreateOrderCommand) VATRate() float64 {
	return c.vatRate
}

// DeliveryDays returns the gig package's promised delivery window.
func (c CreateOrderCommand) DeliveryDays() int {
	return c.deliveryDays
}

// RevisionsAllowed returns the gig package's revision allowance.
func (c CreateOrderCommand) RevisionsAllowed() order.RevisionAllowance {
	return c.revisionsAllowed
}

// PaidUpfront reports whether checkout already captured the payment.
func (c CreateOrderCommand) PaidUpfront() bool {
	return c.paidUpfront
}

func (c *CreateOrderCommand) setIDs(orderID, buyerID, sellerID, gigID kernel.UUID) error {
	if err := errors.Join(
		orderID.Validate(), buyerID.Validate(), sellerID.Validate(), gigID.Validate(),
	); err != nil {
		return err
	}
	c.orderID = orderID
	c.buyerID = buyerID
	c.sellerID = sellerID
	c.gigID = gigID
	return nil
}

func (c *CreateOrderCommand) setBaseAmount(baseAmount float64) error {
	if baseAmount <= 0 {
		return ErrBaseAmountIsInvalid
	}
	c.baseAmount = baseAmount
	return nil
}

func (c *CreateOrderCommand) setDeliveryDays(deliveryDays int) error {
	if deliveryDays <= 0 {
		return ErrDeliveryDaysIsInvalid
	}
	c.deliveryDays = deliveryDays
	return nil
}

func (c *CreateOrderCommand) setRevisionsAllowed(revisionsAllowed order.RevisionAllowance) error {
	if err := revisionsAllowed.Validate(); err != nil {
		return err
	}
	c.revisionsAllowed = revisionsAllowed
	return nil
}

func validateRate(name string, rate float64) error {
	if rate < 0 || rate >= 1 {
		return errs.NewValueIsOutOfRangeError(name, rate, 0, 1)
	}
	return nil
}
