package queries

import (
	"context"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetReadyOrderIDsQueryHandler retrieves the identifiers of orders waiting
// for a drone. Only the identifiers are read; the dispatch command reloads
// each aggregate under its own transaction.
type GetReadyOrderIDsQueryHandler struct {
	db *gorm.DB
}

// NewGetReadyOrderIDsQueryHandler creates a handler for the ready order scan.
func NewGetReadyOrderIDsQueryHandler(db *gorm.DB) GetReadyOrderIDsQueryHandler {
	return GetReadyOrderIDsQueryHandler{db: db}
}

// Handle executes the query to retrieve ready order identifiers,
// oldest ready first.
func (h GetReadyOrderIDsQueryHandler) Handle(
	ctx context.Context,
	query GetReadyOrderIDsQuery,
) ([]GetReadyOrderIDsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetReadyOrderIDsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id
		FROM orders
		WHERE status = 'ready'
		ORDER BY ready_at
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err = rows.Scan(&id); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orders = append(orders, GetReadyOrderIDsQueryResponse{ID: orderID})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
