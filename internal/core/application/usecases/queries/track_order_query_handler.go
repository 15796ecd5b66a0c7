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

// TrackOrderQueryHandler retrieves the tracking trail of an order.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
type TrackOrderQueryHandler struct {
	db *gorm.DB
}

// NewTrackOrderQueryHandler creates a handler for order tracking queries.
// Requires a GORM database connection for query execution.
func NewTrackOrderQueryHandler(db *gorm.DB) TrackOrderQueryHandler {
	return TrackOrderQueryHandler{db: db}
}

// Handle executes the tracking query for a single order.
// Returns a wrapped errs.ErrObjectNotFound when the order does not exist.
func (h TrackOrderQueryHandler) Handle(
	ctx context.Context,
	query TrackOrderQuery,
) (TrackOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return TrackOrderQueryResponse{}, err
	}

	var response TrackOrderQueryResponse
	var id uuid.UUID
	var droneID *uuid.UUID

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			payment_method,
			payment_status,
			drone_id,
			total_amount,
			pending_at,
			confirmed_at,
			preparing_at,
			ready_at,
			assigned_at,
			delivering_at,
			delivered_at,
			cancelled_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(
		&id,
		&response.Status,
		&response.PaymentMethod,
		&response.PaymentStatus,
		&droneID,
		&response.TotalAmount,
		&response.PendingAt,
		&response.ConfirmedAt,
		&response.PreparingAt,
		&response.ReadyAt,
		&response.AssignedAt,
		&response.DeliveringAt,
		&response.DeliveredAt,
		&response.CancelledAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TrackOrderQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID().String())
		}
		return TrackOrderQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return TrackOrderQueryResponse{}, err
	}
	response.ID = orderID

	if droneID != nil {
		dID, droneErr := kernel.UUIDFromBytes((*droneID)[:])
		if droneErr != nil {
			return TrackOrderQueryResponse{}, droneErr
		}
		response.DroneID = &dID
	}

	return response, nil
}
