package dronerepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/adapters/out/postgres/dronerepo"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/drone"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"

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

// DroneRepositoryIntegrationTestSuite provides integration tests for
// DroneRepository using PostgreSQL containers, in particular the conditional
// claim and release updates that carry the dispatch exclusivity guarantee.
type DroneRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *dronerepo.GormDroneRepository
	tracker    *MockAggregateTracker
}

func (suite *DroneRepositoryIntegrationTestSuite) SetupSuite() {
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

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&dronerepo.DroneDTO{}))
}

func (suite *DroneRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE drones").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = dronerepo.NewGormDroneRepository(suite.db, suite.tracker)
}

func (suite *DroneRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DroneRepositoryIntegrationTestSuite) newDrone(serial string) *drone.Drone {
	location, err := kernel.NewLocation(10.7769, 106.7009)
	suite.Require().NoError(err)
	d, err := drone.NewDrone(kernel.NewUUID(), serial, location, 15)
	suite.Require().NoError(err)
	return d
}

func (suite *DroneRepositoryIntegrationTestSuite) TestAddAndGet() {
	ctx := context.Background()
	testDrone := suite.newDrone("DRN-1001")

	suite.Require().NoError(suite.repository.Add(ctx, testDrone))

	retrieved, err := suite.repository.Get(ctx, testDrone.ID())
	suite.Require().NoError(err)
	suite.True(testDrone.ID().IsEqual(retrieved.ID()))
	suite.Equal("DRN-1001", retrieved.Serial())
	suite.Equal(drone.Available, retrieved.Status())
	suite.Equal(drone.BatteryMax, retrieved.BatteryLevel())
	suite.InDelta(15.0, retrieved.MaxRangeKm(), 0.001)
	suite.Nil(retrieved.Order())
}

func (suite *DroneRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DroneRepositoryIntegrationTestSuite) TestUpdate_Telemetry() {
	ctx := context.Background()
	testDrone := suite.newDrone("DRN-1002")
	suite.Require().NoError(suite.repository.Add(ctx, testDrone))

	newLocation, err := kernel.NewLocation(10.8000, 106.6500)
	suite.Require().NoError(err)
	suite.Require().NoError(testDrone.UpdateTelemetry(newLocation, 63))

	suite.Require().NoError(suite.repository.Update(ctx, testDrone))

	retrieved, err := suite.repository.Get(ctx, testDrone.ID())
	suite.Require().NoError(err)
	suite.Equal(63, retrieved.BatteryLevel())
	suite.InDelta(10.8000, retrieved.Location().Lat(), 0.0001)
	suite.InDelta(106.6500, retrieved.Location().Lng(), 0.0001)
}

func (suite *DroneRepositoryIntegrationTestSuite) TestClaim_Succeeds() {
	ctx := context.Background()
	testDrone := suite.newDrone("DRN-1003")
	suite.Require().NoError(suite.repository.Add(ctx, testDrone))

	orderID := kernel.NewUUID()
	suite.Require().NoError(suite.repository.Claim(ctx, testDrone.ID(), orderID))

	retrieved, err := suite.repository.Get(ctx, testDrone.ID())
	suite.Require().NoError(err)
	suite.Equal(drone.Assigned, retrieved.Status())
	suite.Require().NotNil(retrieved.Order())
	suite.True(orderID.IsEqual(*retrieved.Order()))
}

func (suite *DroneRepositoryIntegrationTestSuite) TestClaim_SecondClaimConflicts() {
	ctx := context.Background()
	testDrone := suite.newDrone("DRN-1004")
	suite.Require().NoError(suite.repository.Add(ctx, testDrone))

	firstOrder := kernel.NewUUID()
	secondOrder := kernel.NewUUID()

	suite.Require().NoError(suite.repository.Claim(ctx, testDrone.ID(), firstOrder))

	err := suite.repository.Claim(ctx, testDrone.ID(), secondOrder)
	suite.Require().ErrorIs(err, errs.ErrConflict)

	// The first pairing survives
	retrieved, err := suite.repository.Get(ctx, testDrone.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(retrieved.Order())
	suite.True(firstOrder.IsEqual(*retrieved.Order()))
}

func (suite *DroneRepositoryIntegrationTestSuite) TestRelease_ReturnsDroneToPool() {
	ctx := context.Background()
	testDrone := suite.newDrone("DRN-1005")
	suite.Require().NoError(suite.repository.Add(ctx, testDrone))

	orderID := kernel.NewUUID()
	suite.Require().NoError(suite.repository.Claim(ctx, testDrone.ID(), orderID))
	suite.Require().NoError(suite.repository.Release(ctx, testDrone.ID(), orderID))

	retrieved, err := suite.repository.Get(ctx, testDrone.ID())
	suite.Require().NoError(err)
	suite.Equal(drone.Available, retrieved.Status())
	suite.Nil(retrieved.Order())
}

func (suite *DroneRepositoryIntegrationTestSuite) TestRelease_StaleReleaseConflicts() {
	ctx := context.Background()
	testDrone := suite.newDrone("DRN-1006")
	suite.Require().NoError(suite.repository.Add(ctx, testDrone))

	currentOrder := kernel.NewUUID()
	staleOrder := kernel.NewUUID()

	suite.Require().NoError(suite.repository.Claim(ctx, testDrone.ID(), currentOrder))

	// A release carrying a different order must not clobber the pairing
	err := suite.repository.Release(ctx, testDrone.ID(), staleOrder)
	suite.Require().ErrorIs(err, errs.ErrConflict)

	retrieved, err := suite.repository.Get(ctx, testDrone.ID())
	suite.Require().NoError(err)
	suite.Equal(drone.Assigned, retrieved.Status())
	suite.Require().NotNil(retrieved.Order())
	suite.True(currentOrder.IsEqual(*retrieved.Order()))
}

func (suite *DroneRepositoryIntegrationTestSuite) TestGetAllAvailable() {
	ctx := context.Background()

	first := suite.newDrone("DRN-1007")
	second := suite.newDrone("DRN-1008")
	third := suite.newDrone("DRN-1009")

	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().NoError(suite.repository.Add(ctx, second))
	suite.Require().NoError(suite.repository.Add(ctx, third))

	suite.Require().NoError(suite.repository.Claim(ctx, second.ID(), kernel.NewUUID()))

	available, err := suite.repository.GetAllAvailable(ctx)
	suite.Require().NoError(err)
	suite.Len(available, 2)
	for _, d := range available {
		suite.Equal(drone.Available, d.Status())
		suite.False(second.ID().IsEqual(d.ID()))
	}
}

func TestDroneRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DroneRepositoryIntegrationTestSuite))
}
