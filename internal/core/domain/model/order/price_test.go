package order_test

import (
	"testing"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPriceBreakdown(t *testing.T) {
	t.Run("should compute fee, total and earnings at default rates", func(t *testing.T) {
		b, err := order.NewDefaultPriceBreakdown(100)

		require.NoError(t, err)
		assert.InDelta(t, 100.0, b.BaseAmount(), 0.001)
		assert.InDelta(t, 0.05, b.PlatformFeeRate(), 0.001)
		assert.InDelta(t, 5.0, b.PlatformFee(), 0.001)
		assert.InDelta(t, 0.0, b.VATAmount(), 0.001)
		assert.InDelta(t, 105.0, b.TotalAmount(), 0.001)
		assert.InDelta(t, 95.0, b.SellerEarnings(), 0.001)
	})

	t.Run("should include VAT in the total but never in the earnings", func(t *testing.T) {
		b, err := order.NewPriceBreakdown(200, 0.05, 0.19)

		require.NoError(t, err)
		assert.InDelta(t, 10.0, b.PlatformFee(), 0.001)
		assert.InDelta(t, 38.0, b.VATAmount(), 0.001)
		assert.InDelta(t, 248.0, b.TotalAmount(), 0.001)
		assert.InDelta(t, 190.0, b.SellerEarnings(), 0.001)
	})

	t.Run("should round derived amounts half-up to cents", func(t *testing.T) {
		// 33.33 * 0.05 = 1.6665, which rounds up to 1.67.
		b, err := order.NewPriceBreakdown(33.33, 0.05, 0)

		require.NoError(t, err)
		assert.InDelta(t, 1.67, b.PlatformFee(), 0.001)
		assert.InDelta(t, 35.0, b.TotalAmount(), 0.001)
		assert.InDelta(t, 31.66, b.SellerEarnings(), 0.001)
	})

	t.Run("should hold the sum invariants after rounding", func(t *testing.T) {
		amounts := []float64{0.01, 9.99, 33.33, 49.995, 123.456, 10000}
		for _, amount := range amounts {
			b, err := order.NewPriceBreakdown(amount, 0.05, 0.07)
			require.NoError(t, err)

			assert.InDelta(t, b.BaseAmount()+b.PlatformFee()+b.VATAmount(), b.TotalAmount(), 0.001)
			assert.InDelta(t, b.BaseAmount()-b.PlatformFee(), b.SellerEarnings(), 0.001)
			require.NoError(t, b.Validate())
		}
	})

	t.Run("should reject non-positive base amount", func(t *testing.T) {
		for _, amount := range []float64{0, -1, -99.99} {
			_, err := order.NewDefaultPriceBreakdown(amount)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		}
	})

	t.Run("should reject rates outside [0, 1)", func(t *testing.T) {
		_, err := order.NewPriceBreakdown(100, -0.01, 0)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = order.NewPriceBreakdown(100, 1, 0)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = order.NewPriceBreakdown(100, 0.05, -0.01)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = order.NewPriceBreakdown(100, 0.05, 1.5)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestRestorePriceBreakdown(t *testing.T) {
	t.Run("should restore a consistent breakdown", func(t *testing.T) {
		b, err := order.RestorePriceBreakdown(100, 0.05, 5, 0, 0, 105, 95)

		require.NoError(t, err)
		require.NoError(t, b.Validate())
		assert.InDelta(t, 105.0, b.TotalAmount(), 0.001)
	})

	t.Run("should reject a stored total that breaks the sum invariant", func(t *testing.T) {
		_, err := order.RestorePriceBreakdown(100, 0.05, 5, 0, 0, 110, 95)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject stored earnings that break the earnings invariant", func(t *testing.T) {
		_, err := order.RestorePriceBreakdown(100, 0.05, 5, 0, 0, 105, 100)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestPriceBreakdownValidate(t *testing.T) {
	t.Run("should reject zero value breakdown", func(t *testing.T) {
		var b order.PriceBreakdown
		assert.ErrorIs(t, b.Validate(), order.ErrPriceBreakdownIsNotConstructed)
	})
}
