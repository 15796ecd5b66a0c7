package queries

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves the full read model of one order.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order detail queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the detail query for a single order.
// Returns a wrapped errs.ErrObjectNotFound when the order does not exist.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var response GetOrderQueryResponse
	var id, customerID, restaurantID uuid.UUID
	var droneID *uuid.UUID
	var pickupLat, pickupLng, deliveryLat, deliveryLng float64

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			restaurant_id,
			pickup_lat,
			pickup_lng,
			delivery_lat,
			delivery_lng,
			status,
			drone_id,
			payment_method,
			payment_status,
			payment_transaction_ref,
			paid_at,
			total_amount
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(
		&id,
		&customerID,
		&restaurantID,
		&pickupLat,
		&pickupLng,
		&deliveryLat,
		&deliveryLng,
		&response.Status,
		&droneID,
		&response.PaymentMethod,
		&response.PaymentStatus,
		&response.PaymentTransactionRef,
		&response.PaidAt,
		&response.TotalAmount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.RestaurantID, err = kernel.UUIDFromBytes(restaurantID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if droneID != nil {
		dID, droneErr := kernel.UUIDFromBytes((*droneID)[:])
		if droneErr != nil {
			return GetOrderQueryResponse{}, droneErr
		}
		response.DroneID = &dID
	}
	if response.PickupLocation, err = kernel.NewLocation(pickupLat, pickupLng); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.DeliveryLocation, err = kernel.NewLocation(deliveryLat, deliveryLng); err != nil {
		return GetOrderQueryResponse{}, err
	}

	items, err := h.loadItems(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	response.Items = items

	return response, nil
}

func (h GetOrderQueryHandler) loadItems(
	ctx context.Context,
	orderID kernel.UUID,
) ([]GetOrderQueryItemResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			product_id,
			name,
			unit_price,
			quantity
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []GetOrderQueryItemResponse
	for rows.Next() {
		var item GetOrderQueryItemResponse
		var productID uuid.UUID

		err = rows.Scan(&productID, &item.Name, &item.UnitPrice, &item.Quantity)
		if err != nil {
			return nil, err
		}

		if item.ProductID, err = kernel.UUIDFromBytes(productID[:]); err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, rows.Err()
}
