package http

import (
	"time"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/application/usecases/queries"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"
)

// ErrorResponse is the uniform error body of the API.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// LocationRequest carries geographic coordinates in request bodies.
type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (r LocationRequest) toDomain() (kernel.Location, error) {
	return kernel.NewLocation(r.Lat, r.Lng)
}

// OrderItemRequest is one priced line item of a new order.
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	RestaurantID     string             `json:"restaurant_id"`
	PickupLocation   LocationRequest    `json:"pickup_location"`
	DeliveryLocation LocationRequest    `json:"delivery_location"`
	Items            []OrderItemRequest `json:"items"`
	PaymentMethod    string             `json:"payment_method"`
}

// CreateOrderResponse returns the identifier of the placed order.
type CreateOrderResponse struct {
	OrderID string `json:"order_id"`
}

// TransitionOrderRequest is the body of POST /orders/:id/transition.
type TransitionOrderRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// AssignDroneRequest is the body of POST /orders/:id/assign-drone.
type AssignDroneRequest struct {
	DroneID string `json:"drone_id"`
}

// ReassignOrderRequest is the body of POST /orders/:id/reassign. The
// operator names the drone they believe currently holds the order; a stale
// view is answered with a conflict instead of a blind swap.
type ReassignOrderRequest struct {
	FromDroneID string `json:"from_drone_id"`
	DroneID     string `json:"drone_id"`
	Reason      string `json:"reason"`
}

// CreateDroneRequest is the body of POST /drones.
type CreateDroneRequest struct {
	Serial     string          `json:"serial"`
	Location   LocationRequest `json:"location"`
	MaxRangeKm float64         `json:"max_range_km"`
}

// CreateDroneResponse returns the identifier of the registered drone.
type CreateDroneResponse struct {
	DroneID string `json:"drone_id"`
}

// DroneTelemetryRequest is the body of POST /drones/:id/telemetry.
type DroneTelemetryRequest struct {
	Location     LocationRequest `json:"location"`
	BatteryLevel int             `json:"battery_level"`
}

// PaymentURLResponse returns the hosted-checkout redirect URL.
type PaymentURLResponse struct {
	PaymentURL string `json:"payment_url"`
}

// PaymentCallbackResponse is the structured code the gateway expects from
// the notification endpoint, and what the browser return shows.
type PaymentCallbackResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

// TrackOrderResponse is the tracking trail of an order.
type TrackOrderResponse struct {
	OrderID       string            `json:"order_id"`
	Status        string            `json:"status"`
	PaymentMethod string            `json:"payment_method"`
	PaymentStatus string            `json:"payment_status"`
	TotalAmount   int64             `json:"total_amount"`
	DroneID       *string           `json:"drone_id,omitempty"`
	Timeline      map[string]string `json:"timeline"`
}

const timelineLayout = "2006-01-02T15:04:05Z07:00"

func trackOrderResponseFrom(trail queries.TrackOrderQueryResponse) TrackOrderResponse {
	response := TrackOrderResponse{
		OrderID:       trail.ID.String(),
		Status:        trail.Status,
		PaymentMethod: trail.PaymentMethod,
		PaymentStatus: trail.PaymentStatus,
		TotalAmount:   trail.TotalAmount,
		Timeline:      make(map[string]string),
	}

	if trail.DroneID != nil {
		id := trail.DroneID.String()
		response.DroneID = &id
	}

	for name, at := range map[string]*time.Time{
		order.Pending.String():    trail.PendingAt,
		order.Confirmed.String():  trail.ConfirmedAt,
		order.Preparing.String():  trail.PreparingAt,
		order.Ready.String():      trail.ReadyAt,
		order.Assigned.String():   trail.AssignedAt,
		order.Delivering.String(): trail.DeliveringAt,
		order.Delivered.String():  trail.DeliveredAt,
		order.Cancelled.String():  trail.CancelledAt,
	} {
		if at != nil {
			response.Timeline[name] = at.UTC().Format(timelineLayout)
		}
	}

	return response
}

// OrderItemResponse is one item line of the order detail.
type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse is the full order detail.
type OrderResponse struct {
	OrderID          string              `json:"order_id"`
	CustomerID       string              `json:"customer_id"`
	RestaurantID     string              `json:"restaurant_id"`
	PickupLocation   LocationRequest     `json:"pickup_location"`
	DeliveryLocation LocationRequest     `json:"delivery_location"`
	Status           string              `json:"status"`
	DroneID          *string             `json:"drone_id,omitempty"`
	PaymentMethod    string              `json:"payment_method"`
	PaymentStatus    string              `json:"payment_status"`
	PaidAt           *string             `json:"paid_at,omitempty"`
	TotalAmount      int64               `json:"total_amount"`
	Items            []OrderItemResponse `json:"items"`
}

func orderResponseFrom(detail queries.GetOrderQueryResponse) OrderResponse {
	response := OrderResponse{
		OrderID:      detail.ID.String(),
		CustomerID:   detail.CustomerID.String(),
		RestaurantID: detail.RestaurantID.String(),
		PickupLocation: LocationRequest{
			Lat: detail.PickupLocation.Lat(),
			Lng: detail.PickupLocation.Lng(),
		},
		DeliveryLocation: LocationRequest{
			Lat: detail.DeliveryLocation.Lat(),
			Lng: detail.DeliveryLocation.Lng(),
		},
		Status:        detail.Status,
		PaymentMethod: detail.PaymentMethod,
		PaymentStatus: detail.PaymentStatus,
		TotalAmount:   detail.TotalAmount,
		Items:         make([]OrderItemResponse, len(detail.Items)),
	}

	if detail.DroneID != nil {
		id := detail.DroneID.String()
		response.DroneID = &id
	}
	if detail.PaidAt != nil {
		paidAt := detail.PaidAt.UTC().Format(timelineLayout)
		response.PaidAt = &paidAt
	}

	for i, item := range detail.Items {
		response.Items[i] = OrderItemResponse{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	return response
}

// DroneResponse is one drone of the fleet listing.
type DroneResponse struct {
	DroneID      string          `json:"drone_id"`
	Serial       string          `json:"serial"`
	Status       string          `json:"status"`
	BatteryLevel int             `json:"battery_level"`
	Location     LocationRequest `json:"location"`
	MaxRangeKm   float64         `json:"max_range_km"`
	OrderID      *string         `json:"order_id,omitempty"`
}
