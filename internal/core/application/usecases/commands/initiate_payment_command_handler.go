package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/ports"
)

// InitiatePaymentCommandHandler starts a hosted-checkout attempt.
//
// The transaction reference is generated and committed onto the order
// before the redirect URL is returned: the gateway's later callback is
// matched by this reference, so it must already be durable when the
// customer leaves for the checkout page. A fresh attempt after a failed
// one generates a fresh reference.
type InitiatePaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	gateway    ports.PaymentGateway
}

// NewInitiatePaymentCommandHandler creates a handler for payment initiation.
func NewInitiatePaymentCommandHandler(
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
) InitiatePaymentCommandHandler {
	return InitiatePaymentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
	}
}

// Handle processes the command and returns the signed checkout URL.
//
// Returns:
//   - order.ErrPaymentMethodIsNotGateway for cash orders
//   - order.ErrPaymentAlreadySettled when the order is already paid
func (h InitiatePaymentCommandHandler) Handle(ctx context.Context, cmd InitiatePaymentCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return "", err
	}

	createdAt := time.Now().UTC()
	ref := fmt.Sprintf("%s-%d", cmd.OrderID(), createdAt.Unix())

	if err = aggregate.AttachPaymentTransaction(ref); err != nil {
		return "", err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return h.gateway.BuildPaymentURL(ports.PaymentRequest{
		TransactionRef: ref,
		Amount:         aggregate.TotalAmount(),
		OrderInfo:      fmt.Sprintf("Payment for order %s", cmd.OrderID()),
		ClientIP:       cmd.ClientIP(),
		CreatedAt:      createdAt,
	})
}
