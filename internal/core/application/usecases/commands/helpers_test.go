package commands_test

import (
	"testing"
	"time"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/drone"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func timeNow() time.Time {
	return time.Now()
}

func testLocation(t *testing.T, lat, lng float64) kernel.Location {
	t.Helper()
	location, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	return location
}

func testItems(t *testing.T) []order.Item {
	t.Helper()
	burger, err := order.NewItem(kernel.NewUUID(), "Burger", 30000, 1)
	require.NoError(t, err)
	fries, err := order.NewItem(kernel.NewUUID(), "Fries", 10000, 2)
	require.NoError(t, err)
	return []order.Item{burger, fries} // total 50000
}

func newTestOrder(t *testing.T, method order.PaymentMethod) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		testLocation(t, 10.776, 106.700), testLocation(t, 10.800, 106.650),
		testItems(t), method, time.Now(),
	)
	require.NoError(t, err)
	return o
}

func newReadyOrder(t *testing.T, method order.PaymentMethod) *order.Order {
	t.Helper()
	o := newTestOrder(t, method)
	require.NoError(t, o.TransitionTo(order.Confirmed, time.Now()))
	require.NoError(t, o.TransitionTo(order.Preparing, time.Now()))
	require.NoError(t, o.TransitionTo(order.Ready, time.Now()))
	return o
}

func newTestDrone(t *testing.T, battery int, maxRangeKm float64) *drone.Drone {
	t.Helper()
	d, err := drone.RestoreDrone(
		kernel.NewUUID(), "DRN-"+kernel.NewUUID().String()[:8],
		drone.Available, battery, testLocation(t, 10.77, 106.69), maxRangeKm, nil,
	)
	require.NoError(t, err)
	return d
}
