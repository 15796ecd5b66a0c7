package queries

import (
	"context"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAllDronesQueryHandler retrieves the whole drone fleet from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
//
// Example:
//
//	handler := queries.NewGetAllDronesQueryHandler(db)
//	drones, err := handler.Handle(ctx, queries.NewGetAllDronesQuery())
//	if err != nil {
//	    log.Printf("Failed to get drones: %v", err)
//	    return err
//	}
type GetAllDronesQueryHandler struct {
	db *gorm.DB
}

// NewGetAllDronesQueryHandler creates a handler for drone fleet queries.
// Requires a GORM database connection for query execution.
func NewGetAllDronesQueryHandler(db *gorm.DB) GetAllDronesQueryHandler {
	return GetAllDronesQueryHandler{db: db}
}

// Handle executes the query to retrieve all drones.
// Returns a slice of drone read models sorted by serial.
func (h GetAllDronesQueryHandler) Handle(
	ctx context.Context,
	query GetAllDronesQuery,
) ([]GetAllDronesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	drones := make([]GetAllDronesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			serial,
			status,
			battery_level,
			location_lat,
			location_lng,
			max_range_km,
			order_id
		FROM drones
		ORDER BY serial
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var response GetAllDronesQueryResponse
		var id uuid.UUID
		var orderID *uuid.UUID
		var lat, lng float64

		err = rows.Scan(
			&id,
			&response.Serial,
			&response.Status,
			&response.BatteryLevel,
			&lat,
			&lng,
			&response.MaxRangeKm,
			&orderID,
		)
		if err != nil {
			return nil, err
		}

		droneID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		response.ID = droneID

		if orderID != nil {
			oID, orderErr := kernel.UUIDFromBytes((*orderID)[:])
			if orderErr != nil {
				return nil, orderErr
			}
			response.OrderID = &oID
		}

		location, locErr := kernel.NewLocation(lat, lng)
		if locErr != nil {
			return nil, locErr
		}
		response.Location = location

		drones = append(drones, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return drones, nil
}
