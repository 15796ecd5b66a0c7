package queries

import (
	"errors"
	"time"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves the full read model of a single order: header,
// locations, payment state and the item lines.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the identifier of the requested order.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderQueryIsNotConstructed if validation fails.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// GetOrderQueryResponse represents the full order read model.
type GetOrderQueryResponse struct {
	ID               kernel.UUID
	CustomerID       kernel.UUID
	RestaurantID     kernel.UUID
	PickupLocation   kernel.Location
	DeliveryLocation kernel.Location
	Status           string
	DroneID          *kernel.UUID

	PaymentMethod         string
	PaymentStatus         string
	PaymentTransactionRef *string
	PaidAt                *time.Time

	TotalAmount int64
	Items       []GetOrderQueryItemResponse
}

// GetOrderQueryItemResponse is one item line of the order read model.
type GetOrderQueryItemResponse struct {
	ProductID kernel.UUID
	Name      string
	UnitPrice int64
	Quantity  int
}
