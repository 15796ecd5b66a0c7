package commands

import (
	"errors"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/guard"
)

var (
	ErrInitiatePaymentCommandIsNotConstructed = errors.New(
		"InitiatePaymentCommand must be created via NewInitiatePaymentCommand constructor",
	)
	ErrClientIPIsRequired = errors.New("client ip is required")
)

// InitiatePaymentCommand starts a hosted-checkout payment attempt for a
// gateway order: generate a transaction reference, store it on the order
// and build the signed redirect URL.
type InitiatePaymentCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	clientIP string

	guard guard.ConstructorGuard
}

// NewInitiatePaymentCommand creates a command to start a payment attempt.
// The client IP is forwarded to the gateway as part of the signed request.
func NewInitiatePaymentCommand(orderID kernel.UUID, clientIP string) (InitiatePaymentCommand, error) {
	paymentCommand := InitiatePaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		paymentCommand.setOrderID(orderID),
		paymentCommand.setClientIP(clientIP),
	); err != nil {
		return InitiatePaymentCommand{}, err
	}

	return paymentCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrInitiatePaymentCommandIsNotConstructed if validation fails.
func (c InitiatePaymentCommand) Validate() error {
	return c.guard.Validate(ErrInitiatePaymentCommandIsNotConstructed)
}

// OrderID returns the order to pay.
func (c InitiatePaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ClientIP returns the paying customer's IP address.
func (c InitiatePaymentCommand) ClientIP() string {
	return c.clientIP
}

func (c *InitiatePaymentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *InitiatePaymentCommand) setClientIP(clientIP string) error {
	if clientIP == "" {
		return ErrClientIPIsRequired
	}

	c.clientIP = clientIP
	return nil
}
