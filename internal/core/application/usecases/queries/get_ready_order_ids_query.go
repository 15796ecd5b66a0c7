package queries

import (
	"errors"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/guard"
)

var (
	ErrGetReadyOrderIDsQueryIsNotConstructed = errors.New(
		"GetReadyOrderIDsQuery must be created via NewGetReadyOrderIDsQuery constructor",
	)
)

// GetReadyOrderIDsQuery retrieves the identifiers of every order waiting for
// a drone, oldest ready first. Feeds the periodic dispatch retry scan.
type GetReadyOrderIDsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetReadyOrderIDsQuery creates a query to retrieve ready order identifiers.
func NewGetReadyOrderIDsQuery() GetReadyOrderIDsQuery {
	return GetReadyOrderIDsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetReadyOrderIDsQueryIsNotConstructed if validation fails.
func (q GetReadyOrderIDsQuery) Validate() error {
	return q.guard.Validate(ErrGetReadyOrderIDsQueryIsNotConstructed)
}

// GetReadyOrderIDsQueryResponse represents one order awaiting dispatch.
type GetReadyOrderIDsQueryResponse struct {
	ID kernel.UUID
}
