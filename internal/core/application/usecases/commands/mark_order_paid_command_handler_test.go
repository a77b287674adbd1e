package commands_test

import (
	"log/slog"
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewMarkOrderPaidCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewMarkOrderPaidCommand(kernel.UUID{})
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestMarkOrderPaidCommandHandler_Handle_MarksPaid(t *testing.T) {
	ctx := t.Context()
	p := newTestParties(t)
	o := newPendingTestOrder(t, p)

	cmd, err := commands.NewMarkOrderPaidCommand(o.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once(),
		repo.On("Update", mock.Anything, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)

	h := commands.NewMarkOrderPaidCommandHandler(factory, publisher, slog.Default())
	require.NoError(t, h.Handle(ctx, cmd))
	assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
	assert.Equal(t, order.StatusCreated, o.Status())
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestMarkOrderPaidCommandHandler_Handle_AutoStartsWhenRequirementsIn(t *testing.T) {
	ctx := t.Context()
	p := newTestParties(t)
	o := newPendingTestOrder(t, p)
	advanceTo(t, o, p, order.StatusRequirementsSubmitted)

	cmd, err := commands.NewMarkOrderPaidCommand(o.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once(),
		repo.On("Update", mock.Anything, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", ctx, mock.MatchedBy(func(e ports.Event) bool {
		return e.Name == ports.EventOrderTransitioned &&
			e.Payload["from"] == "requirementsSubmitted" &&
			e.Payload["to"] == "started" &&
			e.Payload["actorRole"] == "system"
	})).Return(nil).Once()

	h := commands.NewMarkOrderPaidCommandHandler(factory, publisher, slog.Default())
	require.NoError(t, h.Handle(ctx, cmd))
	assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
	assert.Equal(t, order.StatusStarted, o.Status())
	publisher.AssertExpectations(t)
}

func TestMarkOrderPaidCommandHandler_Handle_RepeatedConfirmationIsIdempotent(t *testing.T) {
	ctx := t.Context()
	p := newTestParties(t)
	o := newTestOrder(t, p) // already paid

	cmd, err := commands.NewMarkOrderPaidCommand(o.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once(),
		repo.On("Update", mock.Anything, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewMarkOrderPaidCommandHandler(factory, new(MockEventPublisher), slog.Default())
	require.NoError(t, h.Handle(ctx, cmd))
	assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
}

func TestMarkOrderPaidCommandHandler_Handle_RefundedOrderRejected(t *testing.T) {
	ctx := t.Context()
	p := newTestParties(t)
	o := newTestOrder(t, p)
	now := o.CreatedAt()
	require.NoError(t, o.Apply(p.buyer, order.ActionCancel, order.Payload{}, now))
	require.NoError(t, o.MarkRefunded())

	cmd, err := commands.NewMarkOrderPaidCommand(o.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewMarkOrderPaidCommandHandler(factory, new(MockEventPublisher), slog.Default())
	err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrPaymentAlreadyRefunded)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
