package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransitionOrderCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()
	actor, err := order.NewActor(kernel.NewUUID(), order.RoleSeller)
	require.NoError(t, err)
	payload := order.Payload{Description: "final files attached"}

	cmd, err := commands.NewTransitionOrderCommand(orderID, actor, order.ActionDeliver, payload)
	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, actor, cmd.Actor())
	assert.Equal(t, order.ActionDeliver, cmd.Action())
	assert.Equal(t, payload, cmd.Payload())
}

func TestNewTransitionOrderCommand_InvalidOrderID(t *testing.T) {
	actor, err := order.NewActor(kernel.NewUUID(), order.RoleBuyer)
	require.NoError(t, err)

	_, err = commands.NewTransitionOrderCommand(kernel.UUID{}, actor, order.ActionAccept, order.Payload{})
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewTransitionOrderCommand_InvalidActor(t *testing.T) {
	_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), order.Actor{}, order.ActionAccept, order.Payload{})
	require.Error(t, err)
}

func TestNewTransitionOrderCommand_UnknownAction(t *testing.T) {
	actor, err := order.NewActor(kernel.NewUUID(), order.RoleBuyer)
	require.NoError(t, err)

	_, err = commands.NewTransitionOrderCommand(kernel.NewUUID(), actor, order.ActionUnknown, order.Payload{})
	require.Error(t, err)
}

func TestTransitionOrderCommand_NotConstructed(t *testing.T) {
	var cmd commands.TransitionOrderCommand
	err := cmd.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrTransitionOrderCommandIsNotConstructed)
}
