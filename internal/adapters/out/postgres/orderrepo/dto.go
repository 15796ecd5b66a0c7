// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Statuses are stored as their wire strings so the conditional updates read
// naturally in SQL; per-status timestamps get one nullable column each.
type OrderDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;index"`

	Pickup   LocationDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Delivery LocationDTO `gorm:"embedded;embeddedPrefix:delivery_"`

	Items       []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount int64          `gorm:"type:bigint;not null"`

	Status  string     `gorm:"type:varchar(32);not null;index"`
	DroneID *uuid.UUID `gorm:"type:uuid;index"`

	PaymentMethod         string     `gorm:"type:varchar(32);not null"`
	PaymentStatus         string     `gorm:"type:varchar(32);not null"`
	PaymentTransactionRef *string    `gorm:"type:varchar(255);uniqueIndex"`
	PaidAt                *time.Time `gorm:"type:timestamptz"`

	PendingAt    *time.Time `gorm:"type:timestamptz"`
	ConfirmedAt  *time.Time `gorm:"type:timestamptz"`
	PreparingAt  *time.Time `gorm:"type:timestamptz"`
	ReadyAt      *time.Time `gorm:"type:timestamptz"`
	AssignedAt   *time.Time `gorm:"type:timestamptz"`
	DeliveringAt *time.Time `gorm:"type:timestamptz"`
	DeliveredAt  *time.Time `gorm:"type:timestamptz"`
	CancelledAt  *time.Time `gorm:"type:timestamptz"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// LocationDTO represents embedded geographic coordinates.
type LocationDTO struct {
	Lat float64 `gorm:"type:double precision;not null"`
	Lng float64 `gorm:"type:double precision;not null"`
}

// OrderItemDTO represents one priced line item of an order.
type OrderItemDTO struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	UnitPrice int64     `gorm:"type:bigint;not null"`
	Quantity  int       `gorm:"type:int;not null"`
}

// TableName specifies the database table name for order item entities.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// statusColumns maps each status to its timestamp column on the DTO.
func statusTimestamps(o *order.Order) map[order.Status]*time.Time {
	out := make(map[order.Status]*time.Time)
	for status, at := range o.StatusTimes() {
		t := at
		out[status] = &t
	}
	return out
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var droneID *uuid.UUID
	if id := aggregate.Drone(); id != nil {
		raw := id.Bytes()
		droneID = &raw
	}

	orderID := aggregate.ID().Bytes()
	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   orderID,
			ProductID: item.ProductID().Bytes(),
			Name:      item.Name(),
			UnitPrice: item.UnitPrice(),
			Quantity:  item.Quantity(),
		})
	}

	times := statusTimestamps(aggregate)

	return OrderDTO{
		ID:           orderID,
		CustomerID:   aggregate.CustomerID().Bytes(),
		RestaurantID: aggregate.RestaurantID().Bytes(),
		Pickup: LocationDTO{
			Lat: aggregate.PickupLocation().Lat(),
			Lng: aggregate.PickupLocation().Lng(),
		},
		Delivery: LocationDTO{
			Lat: aggregate.DeliveryLocation().Lat(),
			Lng: aggregate.DeliveryLocation().Lng(),
		},
		Items:       items,
		TotalAmount: aggregate.TotalAmount(),

		Status:  aggregate.Status().String(),
		DroneID: droneID,

		PaymentMethod:         aggregate.PaymentMethod().String(),
		PaymentStatus:         aggregate.PaymentStatus().String(),
		PaymentTransactionRef: aggregate.PaymentTransactionRef(),
		PaidAt:                aggregate.PaidAt(),

		PendingAt:    times[order.Pending],
		ConfirmedAt:  times[order.Confirmed],
		PreparingAt:  times[order.Preparing],
		ReadyAt:      times[order.Ready],
		AssignedAt:   times[order.Assigned],
		DeliveringAt: times[order.Delivering],
		DeliveredAt:  times[order.Delivered],
		CancelledAt:  times[order.Cancelled],
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate using RestoreOrder so the cross-field
// invariants are re-checked on the way out of storage.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var droneID *kernel.UUID
	if dto.DroneID != nil {
		dID, droneErr := kernel.UUIDFromBytes((*dto.DroneID)[:])
		if droneErr != nil {
			return nil, droneErr
		}
		droneID = &dID
	}

	pickup, err := kernel.NewLocation(dto.Pickup.Lat, dto.Pickup.Lng)
	if err != nil {
		return nil, err
	}
	delivery, err := kernel.NewLocation(dto.Delivery.Lat, dto.Delivery.Lng)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentMethod, err := order.PaymentMethodFromString(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		productID, itemErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := order.NewItem(productID, itemDTO.Name, itemDTO.UnitPrice, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	statusTimes := make(map[order.Status]time.Time)
	for status, at := range map[order.Status]*time.Time{
		order.Pending:    dto.PendingAt,
		order.Confirmed:  dto.ConfirmedAt,
		order.Preparing:  dto.PreparingAt,
		order.Ready:      dto.ReadyAt,
		order.Assigned:   dto.AssignedAt,
		order.Delivering: dto.DeliveringAt,
		order.Delivered:  dto.DeliveredAt,
		order.Cancelled:  dto.CancelledAt,
	} {
		if at != nil {
			statusTimes[status] = *at
		}
	}

	return order.RestoreOrder(
		id, customerID, restaurantID,
		pickup, delivery, items,
		status, paymentMethod, paymentStatus,
		dto.PaymentTransactionRef, dto.PaidAt, droneID, statusTimes,
	)
}
