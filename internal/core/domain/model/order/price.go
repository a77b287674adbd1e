package order

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Default rates applied when the checkout caller does not specify them.
// Once a breakdown is computed its rates are never silently overridden.
const (
	DefaultPlatformFeeRate = 0.05
	DefaultVATRate         = 0.0
)

// ErrPriceBreakdownIsNotConstructed is returned when a PriceBreakdown was not
// created through one of its constructor functions.
var ErrPriceBreakdownIsNotConstructed = errors.New(
	"PriceBreakdown must be created via NewPriceBreakdown or RestorePriceBreakdown",
)

// PriceBreakdown is the immutable fee/VAT/earnings split of an order amount.
//
// Invariants, holding at cent precision for every breakdown:
//   - totalAmount == baseAmount + platformFee + vatAmount
//   - sellerEarnings == baseAmount - platformFee (VAT never flows to the seller)
//
// All derived amounts are rounded to 2 decimal places using round-half-up
// before the sums are taken, so the invariants hold exactly.
type PriceBreakdown struct {
	baseAmount      float64
	platformFeeRate float64
	platformFee     float64
	vatRate         float64
	vatAmount       float64
	totalAmount     float64
	sellerEarnings  float64

	isConstructed bool
}

// NewPriceBreakdown computes the breakdown of baseAmount under the given
// platform-fee and VAT rates. baseAmount must be positive and both rates must
// be in [0, 1). Use NewDefaultPriceBreakdown when the caller does not specify
// rates.
func NewPriceBreakdown(baseAmount, platformFeeRate, vatRate float64) (PriceBreakdown, error) {
	if baseAmount <= 0 {
		return PriceBreakdown{}, errs.NewValueIsInvalidErrorWithCause(
			"base amount is invalid",
			fmt.Errorf("%v is not greater than 0", baseAmount),
		)
	}
	if platformFeeRate < 0 || platformFeeRate >= 1 {
		return PriceBreakdown{}, errs.NewValueIsOutOfRangeError("platform fee rate", platformFeeRate, 0, 1)
	}
	if vatRate < 0 || vatRate >= 1 {
		return PriceBreakdown{}, errs.NewValueIsOutOfRangeError("vat rate", vatRate, 0, 1)
	}

	base := kernel.RoundMoney(baseAmount)
	fee := kernel.RoundMoney(base * platformFeeRate)
	vat := kernel.RoundMoney(base * vatRate)

	return PriceBreakdown{
		baseAmount:      base,
		platformFeeRate: platformFeeRate,
		platformFee:     fee,
		vatRate:         vatRate,
		vatAmount:       vat,
		totalAmount:     kernel.RoundMoney(base + fee + vat),
		sellerEarnings:  kernel.RoundMoney(base - fee),
		isConstructed:   true,
	}, nil
}

// NewDefaultPriceBreakdown computes the breakdown of baseAmount using
// DefaultPlatformFeeRate and DefaultVATRate.
func NewDefaultPriceBreakdown(baseAmount float64) (PriceBreakdown, error) {
	return NewPriceBreakdown(baseAmount, DefaultPlatformFeeRate, DefaultVATRate)
}

// RestorePriceBreakdown reconstructs a breakdown from persistence.
// The stored amounts must still satisfy the breakdown invariants; a record
// violating them is corrupt and is rejected.
func RestorePriceBreakdown(
	baseAmount, platformFeeRate, platformFee, vatRate, vatAmount, totalAmount, sellerEarnings float64,
) (PriceBreakdown, error) {
	b := PriceBreakdown{
		baseAmount:      baseAmount,
		platformFeeRate: platformFeeRate,
		platformFee:     platformFee,
		vatRate:         vatRate,
		vatAmount:       vatAmount,
		totalAmount:     totalAmount,
		sellerEarnings:  sellerEarnings,
		isConstructed:   true,
	}
	if err := b.Validate(); err != nil {
		return PriceBreakdown{}, err
	}
	return b, nil
}

// Validate checks constructor usage and the breakdown invariants.
func (b PriceBreakdown) Validate() error {
	if !b.isConstructed {
		return ErrPriceBreakdownIsNotConstructed
	}
	if kernel.RoundMoney(b.baseAmount+b.platformFee+b.vatAmount) != b.totalAmount {
		return errs.NewValueIsInvalidErrorWithCause(
			"price breakdown is invalid",
			fmt.Errorf("total %v != base %v + fee %v + vat %v", b.totalAmount, b.baseAmount, b.platformFee, b.vatAmount),
		)
	}
	if kernel.RoundMoney(b.baseAmount-b.platformFee) != b.sellerEarnings {
		return errs.NewValueIsInvalidErrorWithCause(
			"price breakdown is invalid",
			fmt.Errorf("seller earnings %v != base %v - fee %v", b.sellerEarnings, b.baseAmount, b.platformFee),
		)
	}
	return nil
}

// BaseAmount returns the gig price before fees and tax.
func (b PriceBreakdown) BaseAmount() float64 {
	return b.baseAmount
}

// PlatformFeeRate returns the fee rate applied to the base amount.
func (b PriceBreakdown) PlatformFeeRate() float64 {
	return b.platformFeeRate
}

// PlatformFee returns the amount retained by the platform.
func (b PriceBreakdown) PlatformFee() float64 {
	return b.platformFee
}

// VATRate returns the buyer-jurisdiction tax rate.
func (b PriceBreakdown) VATRate() float64 {
	return b.vatRate
}

// VATAmount returns the tax amount added to the total.
func (b PriceBreakdown) VATAmount() float64 {
	return b.vatAmount
}

// TotalAmount returns what the buyer pays: base + fee + VAT.
func (b PriceBreakdown) TotalAmount() float64 {
	return b.totalAmount
}

// SellerEarnings returns what the seller receives: base - fee.
func (b PriceBreakdown) SellerEarnings() float64 {
	return b.sellerEarnings
}
