package order_test

import (
	"testing"
	"time"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLocation(t *testing.T, lat, lng float64) kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	return loc
}

func testItems(t *testing.T) []order.Item {
	t.Helper()
	burger, err := order.NewItem(kernel.NewUUID(), "Burger", 30000, 1)
	require.NoError(t, err)
	fries, err := order.NewItem(kernel.NewUUID(), "Fries", 10000, 2)
	require.NoError(t, err)
	return []order.Item{burger, fries}
}

func newTestOrder(t *testing.T, method order.PaymentMethod) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		testLocation(t, 10.776, 106.700),
		testLocation(t, 10.800, 106.650),
		testItems(t),
		method,
		time.Now(),
	)
	require.NoError(t, err)
	return o
}

// advanceTo walks the order through the forward path up to target.
func advanceTo(t *testing.T, o *order.Order, target order.Status) {
	t.Helper()
	path := []order.Status{order.Confirmed, order.Preparing, order.Ready}
	for _, s := range path {
		if o.Status() == target {
			return
		}
		require.NoError(t, o.TransitionTo(s, time.Now()))
	}
	if target == order.Ready {
		return
	}
	require.NoError(t, o.AssignDrone(kernel.NewUUID(), time.Now()))
	if target == order.Assigned {
		return
	}
	require.NoError(t, o.TransitionTo(order.Delivering, time.Now()))
	if target == order.Delivering {
		return
	}
	require.NoError(t, o.TransitionTo(order.Delivered, time.Now()))
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order with derived total", func(t *testing.T) {
		o := newTestOrder(t, order.CashOnDelivery)

		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, order.PaymentPending, o.PaymentStatus())
		assert.Equal(t, int64(50000), o.TotalAmount())
		assert.Nil(t, o.Drone())
		assert.Nil(t, o.PaymentTransactionRef())

		_, ok := o.StatusTime(order.Pending)
		assert.True(t, ok)
	})

	t.Run("requires at least one item", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			testLocation(t, 10, 106), testLocation(t, 10.1, 106.1),
			nil, order.CashOnDelivery, time.Now(),
		)
		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrItemsAreRequired)
	})

	t.Run("requires a valid payment method", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			testLocation(t, 10, 106), testLocation(t, 10.1, 106.1),
			testItems(t), order.PaymentMethodUnknown, time.Now(),
		)
		require.Error(t, err)
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("nil order is invalid", func(t *testing.T) {
		var o *order.Order
		require.Error(t, o.Validate())
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		o := &order.Order{}
		err := o.Validate()
		require.Error(t, err)
		assert.Equal(t, order.ErrOrderIsNotConstructed, err)
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("records a timestamp per entered status", func(t *testing.T) {
		o := newTestOrder(t, order.CashOnDelivery)
		at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

		require.NoError(t, o.TransitionTo(order.Confirmed, at))

		assert.Equal(t, order.Confirmed, o.Status())
		got, ok := o.StatusTime(order.Confirmed)
		require.True(t, ok)
		assert.Equal(t, at, got)
	})

	t.Run("rejects edges not in the table", func(t *testing.T) {
		o := newTestOrder(t, order.CashOnDelivery)

		err := o.TransitionTo(order.Delivering, time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("rejects entering assigned directly", func(t *testing.T) {
		o := newTestOrder(t, order.CashOnDelivery)
		advanceTo(t, o, order.Ready)

		err := o.TransitionTo(order.Assigned, time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("delivered clears the drone pairing", func(t *testing.T) {
		o := newTestOrder(t, order.CashOnDelivery)
		advanceTo(t, o, order.Delivering)
		require.NotNil(t, o.Drone())

		require.NoError(t, o.TransitionTo(order.Delivered, time.Now()))

		assert.Nil(t, o.Drone())
	})

	t.Run("cancel works until ready and never after", func(t *testing.T) {
		for _, from := range []order.Status{order.Pending, order.Confirmed, order.Preparing, order.Ready} {
			o := newTestOrder(t, order.CashOnDelivery)
			advanceTo(t, o, from)
			require.NoError(t, o.TransitionTo(order.Cancelled, time.Now()), "cancel from %s", from)
			assert.Equal(t, order.Cancelled, o.Status())
		}

		o := newTestOrder(t, order.CashOnDelivery)
		advanceTo(t, o, order.Delivering)
		require.Error(t, o.TransitionTo(order.Cancelled, time.Now()))
	})
}

func TestOrder_AssignDrone(t *testing.T) {
	t.Run("pairs the drone on ready orders", func(t *testing.T) {
		o := newTestOrder(t, order.CashOnDelivery)
		advanceTo(t, o, order.Ready)
		droneID := kernel.NewUUID()

		require.NoError(t, o.AssignDrone(droneID, time.Now()))

		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.Drone())
		assert.True(t, o.Drone().IsEqual(droneID))
	})

	t.Run("rejects assignment before ready", func(t *testing.T) {
		o := newTestOrder(t, order.CashOnDelivery)

		err := o.AssignDrone(kernel.NewUUID(), time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Nil(t, o.Drone())
	})

	t.Run("rejects invalid drone id", func(t *testing.T) {
		o := newTestOrder(t, order.CashOnDelivery)
		advanceTo(t, o, order.Ready)

		err := o.AssignDrone(kernel.UUID{}, time.Now())

		require.Error(t, err)
		assert.Equal(t, order.Ready, o.Status())
	})
}

func TestOrder_ReplaceDrone(t *testing.T) {
	t.Run("swaps while assigned", func(t *testing.T) {
		o := newTestOrder(t, order.CashOnDelivery)
		advanceTo(t, o, order.Assigned)
		newDrone := kernel.NewUUID()

		require.NoError(t, o.ReplaceDrone(newDrone))

		assert.True(t, o.Drone().IsEqual(newDrone))
		assert.Equal(t, order.Assigned, o.Status())
	})

	t.Run("rejected outside assigned", func(t *testing.T) {
		o := newTestOrder(t, order.CashOnDelivery)
		advanceTo(t, o, order.Ready)

		err := o.ReplaceDrone(kernel.NewUUID())

		require.Error(t, err)
	})
}

func TestOrder_PaymentLifecycle(t *testing.T) {
	t.Run("gateway order settles after attached transaction", func(t *testing.T) {
		o := newTestOrder(t, order.Gateway)
		paidAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

		require.NoError(t, o.AttachPaymentTransaction("TXN-1"))
		require.NoError(t, o.MarkPaid(paidAt))

		assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
		require.NotNil(t, o.PaidAt())
		assert.Equal(t, paidAt, *o.PaidAt())
	})

	t.Run("settling twice is rejected", func(t *testing.T) {
		o := newTestOrder(t, order.Gateway)
		require.NoError(t, o.AttachPaymentTransaction("TXN-1"))
		require.NoError(t, o.MarkPaid(time.Now()))

		err := o.MarkPaid(time.Now())

		require.Error(t, err)
		assert.Equal(t, order.ErrPaymentAlreadySettled, err)
	})

	t.Run("settling without an attempt is rejected", func(t *testing.T) {
		o := newTestOrder(t, order.Gateway)

		err := o.MarkPaid(time.Now())

		require.Error(t, err)
		assert.Equal(t, order.ErrPaymentTransactionMissing, err)
	})

	t.Run("cash orders reject gateway operations", func(t *testing.T) {
		o := newTestOrder(t, order.CashOnDelivery)

		require.Error(t, o.AttachPaymentTransaction("TXN-1"))
		require.Error(t, o.MarkPaid(time.Now()))
		require.Error(t, o.MarkPaymentFailed())
	})

	t.Run("failed attempt keeps fulfillment status", func(t *testing.T) {
		o := newTestOrder(t, order.Gateway)
		require.NoError(t, o.AttachPaymentTransaction("TXN-1"))
		advanceTo(t, o, order.Preparing)

		require.NoError(t, o.MarkPaymentFailed())

		assert.Equal(t, order.PaymentFailed, o.PaymentStatus())
		assert.Equal(t, order.Preparing, o.Status())
	})

	t.Run("new attempt may replace a failed transaction ref", func(t *testing.T) {
		o := newTestOrder(t, order.Gateway)
		require.NoError(t, o.AttachPaymentTransaction("TXN-1"))
		require.NoError(t, o.MarkPaymentFailed())

		require.NoError(t, o.AttachPaymentTransaction("TXN-2"))

		assert.Equal(t, "TXN-2", *o.PaymentTransactionRef())
	})
}

func TestOrder_RequiresPaymentBeforeDispatch(t *testing.T) {
	t.Run("gateway order waits until paid", func(t *testing.T) {
		o := newTestOrder(t, order.Gateway)
		assert.True(t, o.RequiresPaymentBeforeDispatch())

		require.NoError(t, o.AttachPaymentTransaction("TXN-1"))
		require.NoError(t, o.MarkPaid(time.Now()))
		assert.False(t, o.RequiresPaymentBeforeDispatch())
	})

	t.Run("cash order never waits", func(t *testing.T) {
		o := newTestOrder(t, order.CashOnDelivery)
		assert.False(t, o.RequiresPaymentBeforeDispatch())
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("restores persisted state", func(t *testing.T) {
		id := kernel.NewUUID()
		droneID := kernel.NewUUID()
		ref := "TXN-9"
		paidAt := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
		times := map[order.Status]time.Time{
			order.Pending:  paidAt.Add(-time.Hour),
			order.Assigned: paidAt,
		}

		o, err := order.RestoreOrder(
			id, kernel.NewUUID(), kernel.NewUUID(),
			testLocation(t, 10, 106), testLocation(t, 10.1, 106.1),
			testItems(t),
			order.Assigned, order.Gateway, order.PaymentPaid,
			&ref, &paidAt, &droneID, times,
		)

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, o.Status())
		assert.True(t, o.Drone().IsEqual(droneID))
		assert.Equal(t, "TXN-9", *o.PaymentTransactionRef())
	})

	t.Run("rejects drone pairing outside assigned or delivering", func(t *testing.T) {
		droneID := kernel.NewUUID()

		_, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			testLocation(t, 10, 106), testLocation(t, 10.1, 106.1),
			testItems(t),
			order.Ready, order.CashOnDelivery, order.PaymentPending,
			nil, nil, &droneID, nil,
		)

		require.Error(t, err)
	})

	t.Run("rejects transaction ref on cash order", func(t *testing.T) {
		ref := "TXN-9"

		_, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			testLocation(t, 10, 106), testLocation(t, 10.1, 106.1),
			testItems(t),
			order.Pending, order.CashOnDelivery, order.PaymentPending,
			&ref, nil, nil, nil,
		)

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrPaymentMethodIsNotGateway)
	})
}
