package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for
// OrderRepository using PostgreSQL containers.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker

	buyer  order.Actor
	seller order.Actor
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))

	suite.buyer, err = order.NewActor(kernel.NewUUID(), order.RoleBuyer)
	suite.Require().NoError(err)
	suite.seller, err = order.NewActor(kernel.NewUUID(), order.RoleSeller)
	suite.Require().NoError(err)
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	price, err := order.NewDefaultPriceBreakdown(100)
	suite.Require().NoError(err)
	allowance, err := order.NewRevisionAllowance(2)
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(), suite.buyer.ID(), suite.seller.ID(), kernel.NewUUID(),
		price, order.PaymentPaid, 7, allowance,
		time.Now().UTC().Truncate(time.Microsecond),
	)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), restored.ID())
	suite.Equal(order.StatusCreated, restored.Status())
	suite.Equal(order.PaymentPaid, restored.PaymentStatus())
	suite.InDelta(105.0, restored.Price().TotalAmount(), 0.001)
	suite.Equal(1, restored.Version())
	suite.Len(restored.History(), 1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_UnknownOrder_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsTransitionAndBumpsVersion() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	now := time.Now().UTC().Truncate(time.Microsecond)
	suite.Require().NoError(testOrder.Apply(suite.seller, order.ActionAccept, order.Payload{}, now))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusAccepted, restored.Status())
	suite.Equal(2, restored.Version())
	suite.Require().NotNil(restored.Timeline())
	suite.Len(restored.History(), 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_ReturnsConflict() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	// Two copies of the same order loaded at the same version.
	first, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	now := time.Now().UTC()
	suite.Require().NoError(first.Apply(suite.seller, order.ActionAccept, order.Payload{}, now))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.Apply(suite.buyer, order.ActionCancel, order.Payload{}, now))
	err = suite.repository.Update(ctx, second)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestRoundTrip_PreservesHistoryAndTimeline() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	now := time.Now().UTC().Truncate(time.Microsecond)
	suite.Require().NoError(testOrder.Apply(suite.seller, order.ActionAccept, order.Payload{}, now))
	suite.Require().NoError(testOrder.Apply(suite.buyer, order.ActionSubmitRequirements, order.Payload{
		Requirements: "logo in three color variants",
		Attachments:  []string{"brief.pdf"},
	}, now))
	suite.Require().NoError(testOrder.ExtendDeadline(suite.buyer, 5, "waiting on brand assets", now))
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Equal(order.StatusRequirementsSubmitted, restored.Status())
	suite.Require().NotNil(restored.Timeline())
	suite.Equal(5, restored.Timeline().ExtendedDays())
	suite.Equal(
		testOrder.Timeline().DeliveryDate().UTC(),
		restored.Timeline().DeliveryDate().UTC(),
	)

	history := restored.History()
	suite.Require().Len(history, 4)
	suite.Equal("logo in three color variants", history[2].Payload().Requirements)
	suite.Equal([]string{"brief.pdf"}, history[2].Payload().Attachments)
	suite.Equal("waiting on brand assets", history[3].Payload().Reason)
	suite.Equal(5, history[3].Payload().ExtensionDays)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllLate_ReturnsOnlyOverdueActiveOrders() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	past := time.Now().UTC().Add(-10 * 24 * time.Hour)

	lateOrder := suite.createTestOrder()
	suite.Require().NoError(lateOrder.Apply(suite.seller, order.ActionAccept, order.Payload{}, past))
	suite.Require().NoError(suite.repository.Add(ctx, lateOrder))

	onTimeOrder := suite.createTestOrder()
	suite.Require().NoError(onTimeOrder.Apply(suite.seller, order.ActionAccept, order.Payload{}, time.Now().UTC()))
	suite.Require().NoError(suite.repository.Add(ctx, onTimeOrder))

	unscheduledOrder := suite.createTestOrder()
	suite.Require().NoError(suite.repository.Add(ctx, unscheduledOrder))

	cancelledOrder := suite.createTestOrder()
	suite.Require().NoError(cancelledOrder.Apply(suite.seller, order.ActionAccept, order.Payload{}, past))
	suite.Require().NoError(cancelledOrder.Apply(suite.buyer, order.ActionCancel, order.Payload{}, time.Now().UTC()))
	suite.Require().NoError(suite.repository.Add(ctx, cancelledOrder))

	late, err := suite.repository.GetAllLate(ctx, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().Len(late, 1)
	suite.Equal(lateOrder.ID(), late[0].ID())
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
