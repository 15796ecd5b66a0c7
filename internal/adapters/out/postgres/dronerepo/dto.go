// Package dronerepo provides data transfer objects and mapping functions for
// drone persistence, converting between the drone domain aggregate and its
// database representation.
package dronerepo

import (
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/drone"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DroneDTO represents the database structure for persisting drone aggregates.
// The status is stored as its wire string so the claim and release conditional
// updates read naturally in SQL.
type DroneDTO struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Serial       string      `gorm:"type:varchar(64);not null;uniqueIndex"`
	Status       string      `gorm:"type:varchar(32);not null;index"`
	BatteryLevel int         `gorm:"type:int;not null"`
	Location     LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	MaxRangeKm   float64     `gorm:"type:double precision;not null"`
	OrderID      *uuid.UUID  `gorm:"type:uuid;index"`
}

// TableName specifies the database table name for drone entities.
func (DroneDTO) TableName() string {
	return "drones"
}

// LocationDTO represents embedded geographic coordinates.
type LocationDTO struct {
	Lat float64 `gorm:"type:double precision;not null"`
	Lng float64 `gorm:"type:double precision;not null"`
}

// fromDomain converts a drone domain aggregate to its database representation.
func fromDomain(aggregate *drone.Drone) DroneDTO {
	var orderID *uuid.UUID
	if id := aggregate.Order(); id != nil {
		raw := id.Bytes()
		orderID = &raw
	}

	return DroneDTO{
		ID:           aggregate.ID().Bytes(),
		Serial:       aggregate.Serial(),
		Status:       aggregate.Status().String(),
		BatteryLevel: aggregate.BatteryLevel(),
		Location: LocationDTO{
			Lat: aggregate.Location().Lat(),
			Lng: aggregate.Location().Lng(),
		},
		MaxRangeKm: aggregate.MaxRangeKm(),
		OrderID:    orderID,
	}
}

// toDomain converts a database DTO to a drone domain aggregate.
func toDomain(dto DroneDTO) (*drone.Drone, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var orderID *kernel.UUID
	if dto.OrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.OrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		orderID = &oID
	}

	location, err := kernel.NewLocation(dto.Location.Lat, dto.Location.Lng)
	if err != nil {
		return nil, err
	}

	status, err := drone.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return drone.RestoreDrone(
		id, dto.Serial, status, dto.BatteryLevel,
		location, dto.MaxRangeKm, orderID,
	)
}
