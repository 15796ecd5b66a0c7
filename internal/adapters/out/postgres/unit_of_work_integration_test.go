package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "github.com/ductoanoxo/FOODFAST-sub001/internal/adapters/out/postgres"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/adapters/out/postgres/dronerepo"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/adapters/out/postgres/orderrepo"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/drone"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/ports"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work implementation with a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes the PostgreSQL container and database connection
// and runs the schema migrations.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}, &dronerepo.DroneDTO{})
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items, drones").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up the PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.OrderRepository(), "First instance should provide order repository")
	suite.NotNil(uow1.DroneRepository(), "First instance should provide drone repository")
	suite.NotNil(uow2.OrderRepository(), "Second instance should provide order repository")
	suite.NotNil(uow2.DroneRepository(), "Second instance should provide drone repository")
}

// TestUnitOfWork_TransactionLifecycle verifies begin, commit and rollback.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

// TestUnitOfWork_TransactionErrors verifies error handling for invalid transaction operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_AssignmentWorkflow walks an order from pending to assigned
// across both repositories within one transaction and verifies the result
// persists after commit.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_AssignmentWorkflow() {
	ctx := context.Background()

	testOrder := createPersistedOrder()
	testDrone := createPersistedDrone()

	setupUow := suite.factory.Create()
	suite.Require().NoError(setupUow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(setupUow.DroneRepository().Add(ctx, testDrone))

	// Walk the order to ready first
	now := time.Now().UTC()
	suite.Require().NoError(testOrder.TransitionTo(order.Confirmed, now))
	suite.Require().NoError(testOrder.TransitionTo(order.Preparing, now))
	suite.Require().NoError(testOrder.TransitionTo(order.Ready, now))
	suite.Require().NoError(setupUow.OrderRepository().Update(ctx, testOrder))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	claimed, err := uow.DroneRepository().Get(ctx, testDrone.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(claimed.Claim(testOrder.ID()))
	suite.Require().NoError(uow.DroneRepository().Update(ctx, claimed))

	suite.Require().NoError(testOrder.AssignDrone(testDrone.ID(), now))
	err = uow.OrderRepository().UpdateStatusGuarded(ctx, testOrder, order.Ready)
	suite.Require().NoError(err)

	suite.Require().NoError(uow.Commit(ctx))

	verifyUow := suite.factory.Create()

	persistedOrder, err := verifyUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Assigned, persistedOrder.Status())
	suite.Require().NotNil(persistedOrder.Drone())
	suite.True(testDrone.ID().IsEqual(*persistedOrder.Drone()))

	persistedDrone, err := verifyUow.DroneRepository().Get(ctx, testDrone.ID())
	suite.Require().NoError(err)
	suite.Equal(drone.Assigned, persistedDrone.Status())
	suite.Require().NotNil(persistedDrone.Order())
	suite.True(testOrder.ID().IsEqual(*persistedDrone.Order()))
}

// TestUnitOfWork_TransactionRollback verifies rollback discards all changes
// made within the transaction across both repositories.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createPersistedOrder()
	testDrone := createPersistedDrone()

	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.DroneRepository().Add(ctx, testDrone))

	// Visible inside the transaction
	_, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	_, err = uow.DroneRepository().Get(ctx, testDrone.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(uow.Rollback(ctx))

	newUow := suite.factory.Create()

	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound, "Order should not exist after rollback")

	_, err = newUow.DroneRepository().Get(ctx, testDrone.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound, "Drone should not exist after rollback")
}

// TestUnitOfWork_GuardedUpdateConflict verifies the conditional status update
// admits exactly one of two writers racing from the same starting status.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_GuardedUpdateConflict() {
	ctx := context.Background()

	testOrder := createPersistedOrder()
	setupUow := suite.factory.Create()
	suite.Require().NoError(setupUow.OrderRepository().Add(ctx, testOrder))

	now := time.Now().UTC()

	// Both writers load the pending order before either one writes
	firstCopy, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	secondCopy, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	// First writer confirms the order
	suite.Require().NoError(firstCopy.TransitionTo(order.Confirmed, now))
	err = suite.factory.Create().OrderRepository().UpdateStatusGuarded(ctx, firstCopy, order.Pending)
	suite.Require().NoError(err)

	// Second writer still holds the pending snapshot and cancels
	suite.Require().NoError(secondCopy.TransitionTo(order.Cancelled, now))
	err = suite.factory.Create().OrderRepository().UpdateStatusGuarded(ctx, secondCopy, order.Pending)
	suite.Require().ErrorIs(err, errs.ErrConflict, "Stale writer should lose the conditional update")

	persisted, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, persisted.Status())
}

// TestUnitOfWork_WithoutTransaction verifies repositories auto-commit
// when no transaction has been begun.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createPersistedOrder()

	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	retrieved, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(testOrder.ID().IsEqual(retrieved.ID()))

	newUow := suite.factory.Create()
	retrieved, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(testOrder.ID().IsEqual(retrieved.ID()))
}

// createPersistedOrder creates a valid pending order for testing purposes.
func createPersistedOrder() *order.Order {
	pickup, _ := kernel.NewLocation(10.7769, 106.7009)
	delivery, _ := kernel.NewLocation(10.7850, 106.6958)
	item, _ := order.NewItem(kernel.NewUUID(), "Pho Bo", 45000, 1)
	testOrder, _ := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		pickup, delivery, []order.Item{item},
		order.CashOnDelivery, time.Now().UTC(),
	)
	return testOrder
}

// createPersistedDrone creates a valid available drone for testing purposes.
func createPersistedDrone() *drone.Drone {
	location, _ := kernel.NewLocation(10.7800, 106.7000)
	testDrone, _ := drone.NewDrone(kernel.NewUUID(), "DRN-"+kernel.NewUUID().String()[:8], location, 12)
	return testDrone
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
