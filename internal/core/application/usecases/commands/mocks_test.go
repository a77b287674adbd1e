package commands_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/review"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllLate(ctx context.Context, now time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockReviewRepository struct{ mock.Mock }

func (m *MockReviewRepository) Add(ctx context.Context, r *review.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*review.Review, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewRepository) ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) ReviewRepository() ports.ReviewRepository {
	args := m.Called()
	return args.Get(0).(ports.ReviewRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Capture(ctx context.Context, orderID kernel.UUID, amount float64) error {
	args := m.Called(ctx, orderID, amount)
	return args.Error(0)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, event ports.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// testParties is the fixed buyer/seller pair used by the fixtures below.
type testParties struct {
	buyerID  kernel.UUID
	sellerID kernel.UUID
	buyer    order.Actor
	seller   order.Actor
}

func newTestParties(t *testing.T) testParties {
	t.Helper()

	buyerID := kernel.NewUUID()
	sellerID := kernel.NewUUID()

	buyer, err := order.NewActor(buyerID, order.RoleBuyer)
	require.NoError(t, err)
	seller, err := order.NewActor(sellerID, order.RoleSeller)
	require.NoError(t, err)

	return testParties{buyerID: buyerID, sellerID: sellerID, buyer: buyer, seller: seller}
}

// newTestOrder creates a fresh paid order in the created status.
func newTestOrder(t *testing.T, p testParties) *order.Order {
	t.Helper()

	price, err := order.NewDefaultPriceBreakdown(100)
	require.NoError(t, err)
	allowance, err := order.NewRevisionAllowance(2)
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(), p.buyerID, p.sellerID, kernel.NewUUID(),
		price, order.PaymentPaid, 7, allowance,
		time.Now().UTC(),
	)
	require.NoError(t, err)

	return o
}

// newPendingTestOrder creates a fresh order whose payment is still pending.
func newPendingTestOrder(t *testing.T, p testParties) *order.Order {
	t.Helper()

	price, err := order.NewDefaultPriceBreakdown(100)
	require.NoError(t, err)
	allowance, err := order.NewRevisionAllowance(2)
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(), p.buyerID, p.sellerID, kernel.NewUUID(),
		price, order.PaymentPending, 7, allowance,
		time.Now().UTC(),
	)
	require.NoError(t, err)

	return o
}

// advanceTo drives a test order through the lifecycle up to the target
// status using the real transition table.
func advanceTo(t *testing.T, o *order.Order, p testParties, target order.Status) {
	t.Helper()

	now := time.Now().UTC()
	steps := []struct {
		status  order.Status
		actor   order.Actor
		action  order.Action
		payload order.Payload
	}{
		{order.StatusAccepted, p.seller, order.ActionAccept, order.Payload{}},
		{order.StatusRequirementsSubmitted, p.buyer, order.ActionSubmitRequirements, order.Payload{Requirements: "logo brief"}},
		{order.StatusStarted, p.seller, order.ActionStart, order.Payload{}},
		{order.StatusDelivered, p.seller, order.ActionDeliver, order.Payload{Description: "first draft"}},
		{order.StatusCompleted, p.buyer, order.ActionAcceptDelivery, order.Payload{}},
		{order.StatusWaitingReview, order.NewSystemActor(), order.ActionAwaitReview, order.Payload{}},
	}

	for _, step := range steps {
		if o.Status() == target {
			return
		}
		require.NoError(t, o.Apply(step.actor, step.action, step.payload, now))
	}
	require.Equal(t, target, o.Status())
}
