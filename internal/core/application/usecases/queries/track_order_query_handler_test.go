package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/adapters/out/postgres/orderrepo"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/application/usecases/queries"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OrderQueriesHandlerTestSuite exercises the order read models against a
// real PostgreSQL database: tracking a single order and scanning for
// orders awaiting dispatch.
type OrderQueriesHandlerTestSuite struct {
	suite.Suite
	container    *postgres.PostgresContainer
	db           *gorm.DB
	trackHandler queries.TrackOrderQueryHandler
	getHandler   queries.GetOrderQueryHandler
	readyHandler queries.GetReadyOrderIDsQueryHandler
	orderRepo    *orderrepo.GormOrderRepository
}

func (suite *OrderQueriesHandlerTestSuite) SetupSuite() {
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

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{})
	suite.Require().NoError(err)

	suite.trackHandler = queries.NewTrackOrderQueryHandler(db)
	suite.getHandler = queries.NewGetOrderQueryHandler(db)
	suite.readyHandler = queries.NewGetReadyOrderIDsQueryHandler(db)
	suite.orderRepo = orderrepo.NewGormOrderRepository(db, &mockAggregateTracker{})
}

func (suite *OrderQueriesHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *OrderQueriesHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items").Error
	suite.Require().NoError(err)
}

func (suite *OrderQueriesHandlerTestSuite) newOrder(method order.PaymentMethod, createdAt time.Time) *order.Order {
	pickup, err := kernel.NewLocation(10.7769, 106.7009)
	suite.Require().NoError(err)
	delivery, err := kernel.NewLocation(10.7850, 106.6958)
	suite.Require().NoError(err)
	item, err := order.NewItem(kernel.NewUUID(), "Com Tam", 55000, 1)
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		pickup, delivery, []order.Item{item}, method, createdAt,
	)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderQueriesHandlerTestSuite) TestTrackOrder_PendingOrder() {
	ctx := context.Background()
	createdAt := time.Now().UTC().Truncate(time.Second)
	testOrder := suite.newOrder(order.CashOnDelivery, createdAt)
	suite.Require().NoError(suite.orderRepo.Add(ctx, testOrder))

	query, err := queries.NewTrackOrderQuery(testOrder.ID())
	suite.Require().NoError(err)

	trail, err := suite.trackHandler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.True(testOrder.ID().IsEqual(trail.ID))
	suite.Equal("pending", trail.Status)
	suite.Equal("cash_on_delivery", trail.PaymentMethod)
	suite.Equal("pending", trail.PaymentStatus)
	suite.Equal(int64(55000), trail.TotalAmount)
	suite.Nil(trail.DroneID)
	suite.Require().NotNil(trail.PendingAt)
	suite.True(createdAt.Equal(trail.PendingAt.UTC()))
	suite.Nil(trail.ConfirmedAt)
	suite.Nil(trail.DeliveredAt)
}

func (suite *OrderQueriesHandlerTestSuite) TestTrackOrder_AssignedOrderCarriesDroneAndTrail() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	testOrder := suite.newOrder(order.CashOnDelivery, now.Add(-30*time.Minute))

	suite.Require().NoError(testOrder.TransitionTo(order.Confirmed, now.Add(-25*time.Minute)))
	suite.Require().NoError(testOrder.TransitionTo(order.Preparing, now.Add(-20*time.Minute)))
	suite.Require().NoError(testOrder.TransitionTo(order.Ready, now.Add(-10*time.Minute)))
	droneID := kernel.NewUUID()
	suite.Require().NoError(testOrder.AssignDrone(droneID, now))
	suite.Require().NoError(suite.orderRepo.Add(ctx, testOrder))

	query, err := queries.NewTrackOrderQuery(testOrder.ID())
	suite.Require().NoError(err)

	trail, err := suite.trackHandler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal("assigned", trail.Status)
	suite.Require().NotNil(trail.DroneID)
	suite.True(droneID.IsEqual(*trail.DroneID))
	suite.Require().NotNil(trail.ReadyAt)
	suite.Require().NotNil(trail.AssignedAt)
	suite.True(trail.ReadyAt.Before(*trail.AssignedAt))
}

func (suite *OrderQueriesHandlerTestSuite) TestTrackOrder_NotFound() {
	query, err := queries.NewTrackOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.trackHandler.Handle(context.Background(), query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderQueriesHandlerTestSuite) TestGetOrder_FullReadModel() {
	ctx := context.Background()
	createdAt := time.Now().UTC().Truncate(time.Second)

	pickup, err := kernel.NewLocation(10.7769, 106.7009)
	suite.Require().NoError(err)
	delivery, err := kernel.NewLocation(10.7850, 106.6958)
	suite.Require().NoError(err)
	comTam, err := order.NewItem(kernel.NewUUID(), "Com Tam", 55000, 1)
	suite.Require().NoError(err)
	traDa, err := order.NewItem(kernel.NewUUID(), "Tra Da", 5000, 2)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		pickup, delivery, []order.Item{comTam, traDa}, order.Gateway, createdAt,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orderRepo.Add(ctx, testOrder))

	query, err := queries.NewGetOrderQuery(testOrder.ID())
	suite.Require().NoError(err)

	result, err := suite.getHandler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.True(testOrder.ID().IsEqual(result.ID))
	suite.True(testOrder.CustomerID().IsEqual(result.CustomerID))
	suite.True(testOrder.RestaurantID().IsEqual(result.RestaurantID))
	suite.InDelta(10.7769, result.PickupLocation.Lat(), 1e-9)
	suite.InDelta(106.6958, result.DeliveryLocation.Lng(), 1e-9)
	suite.Equal("pending", result.Status)
	suite.Equal("gateway", result.PaymentMethod)
	suite.Equal("pending", result.PaymentStatus)
	suite.Nil(result.PaymentTransactionRef)
	suite.Nil(result.PaidAt)
	suite.Equal(int64(65000), result.TotalAmount)

	suite.Require().Len(result.Items, 2)
	suite.Equal("Com Tam", result.Items[0].Name)
	suite.Equal(int64(55000), result.Items[0].UnitPrice)
	suite.Equal(1, result.Items[0].Quantity)
	suite.Equal("Tra Da", result.Items[1].Name)
	suite.Equal(2, result.Items[1].Quantity)
}

func (suite *OrderQueriesHandlerTestSuite) TestGetOrder_NotFound() {
	query, err := queries.NewGetOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.getHandler.Handle(context.Background(), query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderQueriesHandlerTestSuite) TestReadyOrderIDs_EmptyDatabase() {
	result, err := suite.readyHandler.Handle(context.Background(), queries.NewGetReadyOrderIDsQuery())

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *OrderQueriesHandlerTestSuite) TestReadyOrderIDs_OldestReadyFirst() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	walkToReady := func(o *order.Order, readyAt time.Time) {
		suite.Require().NoError(o.TransitionTo(order.Confirmed, readyAt.Add(-10*time.Minute)))
		suite.Require().NoError(o.TransitionTo(order.Preparing, readyAt.Add(-5*time.Minute)))
		suite.Require().NoError(o.TransitionTo(order.Ready, readyAt))
	}

	older := suite.newOrder(order.CashOnDelivery, now.Add(-time.Hour))
	walkToReady(older, now.Add(-40*time.Minute))
	suite.Require().NoError(suite.orderRepo.Add(ctx, older))

	newer := suite.newOrder(order.CashOnDelivery, now.Add(-time.Hour))
	walkToReady(newer, now.Add(-15*time.Minute))
	suite.Require().NoError(suite.orderRepo.Add(ctx, newer))

	pending := suite.newOrder(order.CashOnDelivery, now)
	suite.Require().NoError(suite.orderRepo.Add(ctx, pending))

	result, err := suite.readyHandler.Handle(ctx, queries.NewGetReadyOrderIDsQuery())
	suite.Require().NoError(err)

	suite.Require().Len(result, 2)
	suite.True(older.ID().IsEqual(result[0].ID))
	suite.True(newer.ID().IsEqual(result[1].ID))
}

// mockAggregateTracker implements the repositories' tracker for test purposes.
type mockAggregateTracker struct{}

func (m *mockAggregateTracker) TrackAggregate(_ kernel.UUID, _ any) {
}

func TestOrderQueriesHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(OrderQueriesHandlerTestSuite))
}
