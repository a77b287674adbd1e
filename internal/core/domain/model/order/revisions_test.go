package order_test

import (
	"testing"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRevisionAllowance(t *testing.T) {
	t.Run("should create a finite allowance", func(t *testing.T) {
		allowance, err := order.NewRevisionAllowance(2)

		require.NoError(t, err)
		require.NoError(t, allowance.Validate())
		assert.False(t, allowance.Unlimited())
		assert.Equal(t, 2, allowance.Limit())
		assert.Equal(t, "2", allowance.String())
	})

	t.Run("should allow a zero allowance", func(t *testing.T) {
		allowance, err := order.NewRevisionAllowance(0)

		require.NoError(t, err)
		assert.Error(t, allowance.CheckAvailable(0))
	})

	t.Run("should reject a negative limit", func(t *testing.T) {
		_, err := order.NewRevisionAllowance(-1)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestUnlimitedRevisionAllowance(t *testing.T) {
	allowance := order.NewUnlimitedRevisionAllowance()

	require.NoError(t, allowance.Validate())
	assert.True(t, allowance.Unlimited())
	assert.Equal(t, "unlimited", allowance.String())
	assert.NoError(t, allowance.CheckAvailable(0))
	assert.NoError(t, allowance.CheckAvailable(1000))
}

func TestRevisionAllowanceCheckAvailable(t *testing.T) {
	allowance, err := order.NewRevisionAllowance(2)
	require.NoError(t, err)

	assert.NoError(t, allowance.CheckAvailable(0))
	assert.NoError(t, allowance.CheckAvailable(1))

	err = allowance.CheckAvailable(2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 2 revisions already used")
}

func TestRevisionAllowanceValidate(t *testing.T) {
	var allowance order.RevisionAllowance
	assert.ErrorIs(t, allowance.Validate(), errs.ErrValueIsRequired)
}
