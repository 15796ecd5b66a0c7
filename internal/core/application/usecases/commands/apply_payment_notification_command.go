package commands

import (
	"errors"
	"net/url"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/guard"
)

var (
	ErrApplyPaymentNotificationCommandIsNotConstructed = errors.New(
		"ApplyPaymentNotificationCommand must be created via NewApplyPaymentNotificationCommand constructor",
	)
	ErrNotificationParamsAreRequired = errors.New("notification parameters are required")
)

// ApplyPaymentNotificationCommand carries the raw callback parameters the
// gateway sent, either through the customer's browser return or the
// server-to-server notification. Verification happens in the handler;
// the command deliberately accepts unverified input.
type ApplyPaymentNotificationCommand struct { //nolint:recvcheck //using for validation
	params url.Values

	guard guard.ConstructorGuard
}

// NewApplyPaymentNotificationCommand creates a command from callback
// parameters.
func NewApplyPaymentNotificationCommand(params url.Values) (ApplyPaymentNotificationCommand, error) {
	notificationCommand := ApplyPaymentNotificationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := notificationCommand.setParams(params); err != nil {
		return ApplyPaymentNotificationCommand{}, err
	}

	return notificationCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrApplyPaymentNotificationCommandIsNotConstructed if validation fails.
func (c ApplyPaymentNotificationCommand) Validate() error {
	return c.guard.Validate(ErrApplyPaymentNotificationCommandIsNotConstructed)
}

// Params returns the raw callback parameters.
func (c ApplyPaymentNotificationCommand) Params() url.Values {
	return c.params
}

func (c *ApplyPaymentNotificationCommand) setParams(params url.Values) error {
	if len(params) == 0 {
		return ErrNotificationParamsAreRequired
	}

	c.params = params
	return nil
}
