package commands_test

import (
	"testing"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/application/usecases/commands"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/ports"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReassignOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	fromDrone := newTestDrone(t, 80, 20)
	toDrone := newTestDrone(t, 95, 20)
	testOrder := newReadyOrder(t, order.CashOnDelivery)
	require.NoError(t, testOrder.AssignDrone(fromDrone.ID(), timeNow()))

	cmd, err := commands.NewReassignOrderCommand(testOrder.ID(), fromDrone.ID(), toDrone.ID(), "battery fault reported")
	require.NoError(t, err)

	orderRepo := new(MockDispatchOrderRepo)
	droneRepo := new(MockDispatchDroneRepo)
	uow := new(MockDispatchUoW)
	notifier := new(MockNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		droneRepo.On("Claim", ctx, toDrone.ID(), testOrder.ID()).Return(nil).Once(),
		orderRepo.On("UpdateStatusGuarded", ctx, testOrder, order.Assigned).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		droneRepo.On("Release", ctx, fromDrone.ID(), testOrder.ID()).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	notifier.On("Emit", ctx, ports.EventDroneReassigned, commands.DroneReassignedEvent{
		OrderID:     testOrder.ID().String(),
		FromDroneID: fromDrone.ID().String(),
		ToDroneID:   toDrone.ID().String(),
		Reason:      "battery fault reported",
	}).Return(nil).Once()

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReassignOrderCommandHandler(factory, droneRepo, notifier)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, testOrder.Drone())
	assert.True(t, testOrder.Drone().IsEqual(toDrone.ID()))
	droneRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestReassignOrderCommandHandler_Handle_ClaimFailureLeavesOrderUntouched(t *testing.T) {
	ctx := t.Context()

	fromDrone := newTestDrone(t, 80, 20)
	toDrone := newTestDrone(t, 95, 20)
	testOrder := newReadyOrder(t, order.CashOnDelivery)
	require.NoError(t, testOrder.AssignDrone(fromDrone.ID(), timeNow()))

	cmd, err := commands.NewReassignOrderCommand(testOrder.ID(), fromDrone.ID(), toDrone.ID(), "battery fault reported")
	require.NoError(t, err)

	orderRepo := new(MockDispatchOrderRepo)
	droneRepo := new(MockDispatchDroneRepo)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		droneRepo.On("Claim", ctx, toDrone.ID(), testOrder.ID()).
			Return(errs.NewConflictError("drone", toDrone.ID().String())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReassignOrderCommandHandler(factory, droneRepo, new(MockNotifier))
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrConflict)
	require.NotNil(t, testOrder.Drone())
	assert.True(t, testOrder.Drone().IsEqual(fromDrone.ID()), "failed swap must keep the original drone")
	droneRepo.AssertNotCalled(t, "Release", ctx, mock.Anything, mock.Anything)
}

func TestReassignOrderCommandHandler_Handle_OrderNotAssigned(t *testing.T) {
	ctx := t.Context()

	fromDrone := newTestDrone(t, 80, 20)
	toDrone := newTestDrone(t, 95, 20)
	testOrder := newReadyOrder(t, order.CashOnDelivery)

	cmd, err := commands.NewReassignOrderCommand(testOrder.ID(), fromDrone.ID(), toDrone.ID(), "battery fault reported")
	require.NoError(t, err)

	orderRepo := new(MockDispatchOrderRepo)
	droneRepo := new(MockDispatchDroneRepo)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReassignOrderCommandHandler(factory, droneRepo, new(MockNotifier))
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, order.ErrInvalidTransition)
	droneRepo.AssertNotCalled(t, "Claim", ctx, mock.Anything, mock.Anything)
}

func TestReassignOrderCommandHandler_Handle_StaleFromDroneConflicts(t *testing.T) {
	ctx := t.Context()

	currentDrone := newTestDrone(t, 80, 20)
	staleDrone := newTestDrone(t, 70, 20)
	toDrone := newTestDrone(t, 95, 20)
	testOrder := newReadyOrder(t, order.CashOnDelivery)
	require.NoError(t, testOrder.AssignDrone(currentDrone.ID(), timeNow()))

	cmd, err := commands.NewReassignOrderCommand(testOrder.ID(), staleDrone.ID(), toDrone.ID(), "battery fault reported")
	require.NoError(t, err)

	orderRepo := new(MockDispatchOrderRepo)
	droneRepo := new(MockDispatchDroneRepo)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReassignOrderCommandHandler(factory, droneRepo, new(MockNotifier))
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrConflict)
	require.NotNil(t, testOrder.Drone())
	assert.True(t, testOrder.Drone().IsEqual(currentDrone.ID()),
		"an operator acting on stale fleet state must not move the order")
	droneRepo.AssertNotCalled(t, "Claim", ctx, mock.Anything, mock.Anything)
	droneRepo.AssertNotCalled(t, "Release", ctx, mock.Anything, mock.Anything)
}

func TestReassignOrderCommandHandler_Handle_SameDroneIsNoOp(t *testing.T) {
	ctx := t.Context()

	fromDrone := newTestDrone(t, 80, 20)
	testOrder := newReadyOrder(t, order.CashOnDelivery)
	require.NoError(t, testOrder.AssignDrone(fromDrone.ID(), timeNow()))

	cmd, err := commands.NewReassignOrderCommand(testOrder.ID(), fromDrone.ID(), fromDrone.ID(), "operator mistake")
	require.NoError(t, err)

	orderRepo := new(MockDispatchOrderRepo)
	droneRepo := new(MockDispatchDroneRepo)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReassignOrderCommandHandler(factory, droneRepo, new(MockNotifier))
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	droneRepo.AssertNotCalled(t, "Claim", ctx, mock.Anything, mock.Anything)
}
