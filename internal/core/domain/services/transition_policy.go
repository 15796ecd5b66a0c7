package services

import (
	"fmt"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/actor"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"
)

// TransitionPolicy decides whether an actor may request a given status
// transition. It is supplied to the transition use case so authorization
// rules stay swappable without touching the state machine itself.
type TransitionPolicy interface {
	// Allows returns nil when the actor may move the order to the target
	// status, or a *errs.ForbiddenError otherwise. It does not check the
	// transition table; that is the state machine's job.
	Allows(a actor.Actor, o *order.Order, to order.Status) error
}

// RoleTransitionPolicy is the default capability policy:
//   - forward transitions belong to the order's restaurant and admins
//   - cancellation belongs to the owning customer and admins
type RoleTransitionPolicy struct{}

// NewRoleTransitionPolicy creates the default role-based policy.
func NewRoleTransitionPolicy() RoleTransitionPolicy {
	return RoleTransitionPolicy{}
}

// Allows implements TransitionPolicy.
func (RoleTransitionPolicy) Allows(a actor.Actor, o *order.Order, to order.Status) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if a.Role == actor.RoleAdmin {
		return nil
	}

	operation := fmt.Sprintf("transition order to %s", to)

	if to == order.Cancelled {
		if a.Role == actor.RoleCustomer && a.ID.IsEqual(o.CustomerID()) {
			return nil
		}
		return errs.NewForbiddenError(a.Role.String(), operation)
	}

	if a.Role == actor.RoleRestaurant && a.ID.IsEqual(o.RestaurantID()) {
		return nil
	}

	return errs.NewForbiddenError(a.Role.String(), operation)
}
