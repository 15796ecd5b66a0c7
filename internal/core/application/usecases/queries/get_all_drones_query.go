package queries

import (
	"errors"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/guard"
)

var (
	ErrGetAllDronesQueryIsNotConstructed = errors.New(
		"GetAllDronesQuery must be created via NewGetAllDronesQuery constructor",
	)
)

// GetAllDronesQuery retrieves information about the whole drone fleet.
// Returns drone identities, operational state, battery and location for
// fleet monitoring.
//
// Example:
//
//	query := queries.NewGetAllDronesQuery()
//	drones, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve drones: %w", err)
//	}
//
//	fmt.Printf("Fleet holds %d drones\n", len(drones))
type GetAllDronesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAllDronesQuery creates a query to retrieve the drone fleet.
// This is a parameterless query that fetches the complete drone list.
func NewGetAllDronesQuery() GetAllDronesQuery {
	return GetAllDronesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAllDronesQueryIsNotConstructed if validation fails.
func (q GetAllDronesQuery) Validate() error {
	return q.guard.Validate(ErrGetAllDronesQueryIsNotConstructed)
}

// GetAllDronesQueryResponse represents drone information in the read model.
type GetAllDronesQueryResponse struct {
	ID           kernel.UUID
	Serial       string
	Status       string
	BatteryLevel int
	Location     kernel.Location
	MaxRangeKm   float64
	OrderID      *kernel.UUID
}
