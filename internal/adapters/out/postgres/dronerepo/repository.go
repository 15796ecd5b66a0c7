package dronerepo

import (
	"context"
	"errors"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/drone"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"

	"gorm.io/gorm"
)

// mutableColumns are the drone columns rewritten on every update. OrderID is
// a pointer column and must be listed explicitly so clearing it writes NULL.
var mutableColumns = []string{
	"status", "battery_level", "location_lat", "location_lng", "order_id",
}

// GormDroneRepository implements DroneRepository using GORM.
type GormDroneRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDroneRepository creates a new GORM drone repository.
func NewGormDroneRepository(db *gorm.DB, tracker aggregateTracker) *GormDroneRepository {
	return &GormDroneRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new drone to the database.
func (r *GormDroneRepository) Add(ctx context.Context, aggregate *drone.Drone) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing drone unconditionally.
func (r *GormDroneRepository) Update(ctx context.Context, aggregate *drone.Drone) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&DroneDTO{}).
		Where("id = ?", dto.ID).
		Select(mutableColumns).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("droneID", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Claim atomically moves an available drone to assigned and pairs it with
// the order. The status predicate makes the write a conditional update, so
// of two racing dispatchers exactly one sees RowsAffected == 1; the loser
// gets a conflict error.
func (r *GormDroneRepository) Claim(ctx context.Context, droneID, orderID kernel.UUID) error {
	if err := errors.Join(droneID.Validate(), orderID.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&DroneDTO{}).
		Where("id = ? AND status = ?", droneID.Bytes(), drone.Available.String()).
		Updates(map[string]any{
			"status":   drone.Assigned.String(),
			"order_id": orderID.Bytes(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("drone", droneID.String())
	}

	return nil
}

// Release returns a drone claimed for the given order back to the available
// pool. The pairing predicate keeps a stale release from clobbering a drone
// that has since been claimed for a different order.
func (r *GormDroneRepository) Release(ctx context.Context, droneID, orderID kernel.UUID) error {
	if err := errors.Join(droneID.Validate(), orderID.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&DroneDTO{}).
		Where("id = ? AND order_id = ?", droneID.Bytes(), orderID.Bytes()).
		Updates(map[string]any{
			"status":   drone.Available.String(),
			"order_id": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("drone", droneID.String())
	}

	return nil
}

// Get retrieves a drone by ID.
func (r *GormDroneRepository) Get(ctx context.Context, id kernel.UUID) (*drone.Drone, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DroneDTO
	err := r.db.WithContext(ctx).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("droneID", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable retrieves every drone currently claimable for dispatch.
func (r *GormDroneRepository) GetAllAvailable(ctx context.Context) ([]*drone.Drone, error) {
	var dtos []DroneDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "status = ?", drone.Available.String()).Error
	if err != nil {
		return nil, err
	}

	drones := make([]*drone.Drone, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		drones = append(drones, d)
	}

	return drones, nil
}
