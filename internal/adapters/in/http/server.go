// Package http exposes the fulfillment core over an echo HTTP API.
// Handlers translate between transport DTOs and the application's commands
// and queries; every state-changing route runs behind the actor middleware.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/application/usecases/commands"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/application/usecases/queries"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/actor"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/ports"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// The server depends on narrow views of the application handlers so tests
// can substitute them.
type (
	createOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}
	transitionOrderHandler interface {
		Handle(ctx context.Context, cmd commands.TransitionOrderCommand) error
	}
	assignDroneHandler interface {
		Handle(ctx context.Context, cmd commands.AssignDroneCommand) error
	}
	reassignOrderHandler interface {
		Handle(ctx context.Context, cmd commands.ReassignOrderCommand) error
	}
	createDroneHandler interface {
		Handle(ctx context.Context, cmd commands.CreateDroneCommand) error
	}
	droneTelemetryHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateDroneTelemetryCommand) error
	}
	initiatePaymentHandler interface {
		Handle(ctx context.Context, cmd commands.InitiatePaymentCommand) (string, error)
	}
	paymentNotificationHandler interface {
		Handle(ctx context.Context, cmd commands.ApplyPaymentNotificationCommand) (commands.PaymentNotificationResult, error)
	}
	trackOrderHandler interface {
		Handle(ctx context.Context, query queries.TrackOrderQuery) (queries.TrackOrderQueryResponse, error)
	}
	getOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
	getAllDronesHandler interface {
		Handle(ctx context.Context, query queries.GetAllDronesQuery) ([]queries.GetAllDronesQueryResponse, error)
	}
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrder     createOrderHandler
	transitionOrder transitionOrderHandler
	assignDrone     assignDroneHandler
	reassignOrder   reassignOrderHandler
	createDrone     createDroneHandler
	droneTelemetry  droneTelemetryHandler
	initiatePayment initiatePaymentHandler
	applyPayment    paymentNotificationHandler
	trackOrder      trackOrderHandler
	getOrder        getOrderHandler
	getAllDrones    getAllDronesHandler

	gateway ports.PaymentGateway
}

// NewServer creates the HTTP server over the application handlers.
// The payment gateway is used by the browser return route, which verifies
// the callback without applying it; the notification route is the source
// of truth.
func NewServer(
	createOrder createOrderHandler,
	transitionOrder transitionOrderHandler,
	assignDrone assignDroneHandler,
	reassignOrder reassignOrderHandler,
	createDrone createDroneHandler,
	droneTelemetry droneTelemetryHandler,
	initiatePayment initiatePaymentHandler,
	applyPayment paymentNotificationHandler,
	trackOrder trackOrderHandler,
	getOrder getOrderHandler,
	getAllDrones getAllDronesHandler,
	gateway ports.PaymentGateway,
) *Server {
	return &Server{
		createOrder:     createOrder,
		transitionOrder: transitionOrder,
		assignDrone:     assignDrone,
		reassignOrder:   reassignOrder,
		createDrone:     createDrone,
		droneTelemetry:  droneTelemetry,
		initiatePayment: initiatePayment,
		applyPayment:    applyPayment,
		trackOrder:      trackOrder,
		getOrder:        getOrder,
		getAllDrones:    getAllDrones,
		gateway:         gateway,
	}
}

// RegisterRoutes mounts all routes on the echo instance. The payment
// callbacks and the health check stay outside the actor middleware: the
// gateway authenticates with its signature, not a token.
func (s *Server) RegisterRoutes(e *echo.Echo, jwtSecret []byte) {
	e.GET("/health", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "Healthy")
	})

	e.GET("/api/v1/payment/vnpay/return", s.PaymentReturn)
	e.GET("/api/v1/payment/vnpay/ipn", s.PaymentNotification)
	e.POST("/api/v1/payment/vnpay/ipn", s.PaymentNotification)

	api := e.Group("/api/v1", ActorMiddleware(jwtSecret))
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.GET("/orders/:id/track", s.TrackOrder)
	api.POST("/orders/:id/transition", s.TransitionOrder)
	api.POST("/orders/:id/assign-drone", s.AssignDrone)
	api.POST("/orders/:id/reassign", s.ReassignOrder)
	api.POST("/orders/:id/payment-url", s.InitiatePayment)
	api.GET("/drones", s.GetDrones)
	api.POST("/drones", s.CreateDrone)
	api.POST("/drones/:id/telemetry", s.DroneTelemetry)
}

// CreateOrder handles POST /api/v1/orders - places a new order for the
// authenticated customer.
func (s *Server) CreateOrder(ctx echo.Context) error {
	caller, ok := callerFromContext(ctx)
	if !ok {
		return unauthenticated(ctx)
	}

	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	restaurantID, err := kernel.UUIDFromString(request.RestaurantID)
	if err != nil {
		return badRequest(ctx, "Invalid restaurant id")
	}
	pickup, err := request.PickupLocation.toDomain()
	if err != nil {
		return badRequest(ctx, "Invalid pickup location")
	}
	delivery, err := request.DeliveryLocation.toDomain()
	if err != nil {
		return badRequest(ctx, "Invalid delivery location")
	}
	method, err := order.PaymentMethodFromString(request.PaymentMethod)
	if err != nil {
		return badRequest(ctx, "Invalid payment method")
	}

	items := make([]order.Item, 0, len(request.Items))
	for _, itemRequest := range request.Items {
		productID, itemErr := kernel.UUIDFromString(itemRequest.ProductID)
		if itemErr != nil {
			return badRequest(ctx, "Invalid product id")
		}
		item, itemErr := order.NewItem(productID, itemRequest.Name, itemRequest.UnitPrice, itemRequest.Quantity)
		if itemErr != nil {
			return badRequest(ctx, "Invalid order item: "+itemErr.Error())
		}
		items = append(items, item)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, caller.ID, restaurantID, pickup, delivery, items, method,
	)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if err := s.createOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{OrderID: orderID.String()})
}

// TrackOrder handles GET /api/v1/orders/:id/track.
func (s *Server) TrackOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewTrackOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	trail, err := s.trackOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, trackOrderResponseFrom(trail))
}

// GetOrder handles GET /api/v1/orders/:id. Customers may only read their
// own orders; restaurant and admin callers see everything.
func (s *Server) GetOrder(ctx echo.Context) error {
	caller, ok := callerFromContext(ctx)
	if !ok {
		return unauthenticated(ctx)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	detail, err := s.getOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	if caller.Role == actor.RoleCustomer && !caller.ID.IsEqual(detail.CustomerID) {
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "Customers may only read their own orders",
		})
	}

	return ctx.JSON(http.StatusOK, orderResponseFrom(detail))
}

// TransitionOrder handles POST /api/v1/orders/:id/transition - moves an
// order along the fulfillment machine on behalf of the caller.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	caller, ok := callerFromContext(ctx)
	if !ok {
		return unauthenticated(ctx)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var request TransitionOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	to, err := order.StatusFromString(request.Status)
	if err != nil {
		return badRequest(ctx, "Invalid target status")
	}

	cmd, err := commands.NewTransitionOrderCommand(caller, orderID, to)
	if err != nil {
		return badRequest(ctx, "Invalid transition: "+err.Error())
	}

	if err := s.transitionOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignDrone handles POST /api/v1/orders/:id/assign-drone - manual
// assignment of a specific drone by an operator.
func (s *Server) AssignDrone(ctx echo.Context) error {
	if ok, err := requireAdmin(ctx); !ok {
		return err
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var request AssignDroneRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	droneID, err := kernel.UUIDFromString(request.DroneID)
	if err != nil {
		return badRequest(ctx, "Invalid drone id")
	}

	cmd, err := commands.NewAssignDroneCommand(orderID, droneID)
	if err != nil {
		return badRequest(ctx, "Invalid assignment: "+err.Error())
	}

	if err := s.assignDrone.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReassignOrder handles POST /api/v1/orders/:id/reassign - moves an
// assigned order onto another drone.
func (s *Server) ReassignOrder(ctx echo.Context) error {
	if ok, err := requireAdmin(ctx); !ok {
		return err
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var request ReassignOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	fromDroneID, err := kernel.UUIDFromString(request.FromDroneID)
	if err != nil {
		return badRequest(ctx, "Invalid from drone id")
	}
	droneID, err := kernel.UUIDFromString(request.DroneID)
	if err != nil {
		return badRequest(ctx, "Invalid drone id")
	}

	cmd, err := commands.NewReassignOrderCommand(orderID, fromDroneID, droneID, request.Reason)
	if err != nil {
		return badRequest(ctx, "Invalid reassignment: "+err.Error())
	}

	if err := s.reassignOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// InitiatePayment handles POST /api/v1/orders/:id/payment-url - creates a
// payment attempt and returns the hosted-checkout URL.
func (s *Server) InitiatePayment(ctx echo.Context) error {
	if _, ok := callerFromContext(ctx); !ok {
		return unauthenticated(ctx)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewInitiatePaymentCommand(orderID, ctx.RealIP())
	if err != nil {
		return badRequest(ctx, "Invalid payment request: "+err.Error())
	}

	paymentURL, err := s.initiatePayment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, PaymentURLResponse{PaymentURL: paymentURL})
}

// PaymentReturn handles GET /api/v1/payment/vnpay/return - the browser
// redirect after checkout. It only verifies the signature and reports;
// order state changes exclusively through the notification route.
func (s *Server) PaymentReturn(ctx echo.Context) error {
	_, err := s.gateway.VerifyCallback(ctx.QueryParams())
	if err != nil {
		return ctx.JSON(http.StatusOK, PaymentCallbackResponse{
			RspCode: commands.NotificationCodeInvalidSignature,
			Message: "invalid signature",
		})
	}

	return ctx.JSON(http.StatusOK, PaymentCallbackResponse{
		RspCode: commands.NotificationCodeSuccess,
		Message: "confirm success",
	})
}

// PaymentNotification handles the gateway's server-to-server callback on
// GET or POST /api/v1/payment/vnpay/ipn. The gateway expects HTTP 200 with
// a structured code regardless of the outcome; non-200 makes it retry.
func (s *Server) PaymentNotification(ctx echo.Context) error {
	params, err := ctx.FormParams()
	if err != nil || len(params) == 0 {
		params = ctx.QueryParams()
	}

	cmd, err := commands.NewApplyPaymentNotificationCommand(params)
	if err != nil {
		return ctx.JSON(http.StatusOK, PaymentCallbackResponse{
			RspCode: commands.NotificationCodeInvalidSignature,
			Message: "invalid parameters",
		})
	}

	result, err := s.applyPayment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return ctx.JSON(http.StatusOK, PaymentCallbackResponse{
			RspCode: "99",
			Message: "unknown error",
		})
	}

	return ctx.JSON(http.StatusOK, PaymentCallbackResponse{
		RspCode: result.Code,
		Message: result.Message,
	})
}

// CreateDrone handles POST /api/v1/drones - registers a new drone.
func (s *Server) CreateDrone(ctx echo.Context) error {
	if ok, err := requireAdmin(ctx); !ok {
		return err
	}

	var request CreateDroneRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	location, err := request.Location.toDomain()
	if err != nil {
		return badRequest(ctx, "Invalid location")
	}

	droneID := kernel.NewUUID()
	cmd, err := commands.NewCreateDroneCommand(droneID, request.Serial, location, request.MaxRangeKm)
	if err != nil {
		return badRequest(ctx, "Invalid drone data: "+err.Error())
	}

	if err := s.createDrone.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateDroneResponse{DroneID: droneID.String()})
}

// GetDrones handles GET /api/v1/drones - lists the fleet.
func (s *Server) GetDrones(ctx echo.Context) error {
	if ok, err := requireAdmin(ctx); !ok {
		return err
	}

	drones, err := s.getAllDrones.Handle(ctx.Request().Context(), queries.NewGetAllDronesQuery())
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]DroneResponse, len(drones))
	for i, d := range drones {
		response[i] = DroneResponse{
			DroneID:      d.ID.String(),
			Serial:       d.Serial,
			Status:       d.Status,
			BatteryLevel: d.BatteryLevel,
			Location: LocationRequest{
				Lat: d.Location.Lat(),
				Lng: d.Location.Lng(),
			},
			MaxRangeKm: d.MaxRangeKm,
		}
		if d.OrderID != nil {
			id := d.OrderID.String()
			response[i].OrderID = &id
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// DroneTelemetry handles POST /api/v1/drones/:id/telemetry - folds a
// position and battery report into the fleet state.
func (s *Server) DroneTelemetry(ctx echo.Context) error {
	if ok, err := requireAdmin(ctx); !ok {
		return err
	}

	droneID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid drone id")
	}

	var request DroneTelemetryRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	location, err := request.Location.toDomain()
	if err != nil {
		return badRequest(ctx, "Invalid location")
	}

	cmd, err := commands.NewUpdateDroneTelemetryCommand(droneID, location, request.BatteryLevel)
	if err != nil {
		return badRequest(ctx, "Invalid telemetry: "+err.Error())
	}

	if err := s.droneTelemetry.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// requireAdmin reports whether the caller is an operator. When it is not,
// the rejection response has already been written and the handler must
// return the accompanying error without running the operation.
func requireAdmin(ctx echo.Context) (bool, error) {
	caller, ok := callerFromContext(ctx)
	if !ok {
		return false, unauthenticated(ctx)
	}
	if caller.Role != actor.RoleAdmin {
		return false, ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "Operation requires the admin role",
		})
	}
	return true, nil
}

func unauthenticated(ctx echo.Context) error {
	return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
		Code:    http.StatusUnauthorized,
		Message: "Missing authenticated actor",
	})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps application errors onto transport status codes.
func writeError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrConflict),
		errors.Is(err, commands.ErrOrderAwaitsPayment):
		status = http.StatusConflict
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrPaymentMethodIsNotGateway),
		errors.Is(err, order.ErrPaymentAlreadySettled),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	}

	return ctx.JSON(status, ErrorResponse{
		Code:    status,
		Message: err.Error(),
	})
}
