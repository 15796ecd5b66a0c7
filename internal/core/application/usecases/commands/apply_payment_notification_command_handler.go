package commands

import (
	"context"
	"errors"
	"time"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/ports"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"
)

// Gateway response codes answered to payment callbacks. The gateway stops
// retrying its notification once it receives any of these, so every
// protocol-level outcome answers with a code rather than an error.
const (
	// NotificationCodeSuccess acknowledges a callback that was applied.
	NotificationCodeSuccess = "00"

	// NotificationCodeOrderNotFound answers callbacks whose transaction
	// reference matches no order.
	NotificationCodeOrderNotFound = "01"

	// NotificationCodeAlreadyConfirmed answers replays of callbacks for
	// orders whose payment already settled. Nothing is mutated.
	NotificationCodeAlreadyConfirmed = "02"

	// NotificationCodeAmountMismatch answers callbacks whose amount does
	// not match the order total. Nothing is mutated.
	NotificationCodeAmountMismatch = "04"

	// NotificationCodeInvalidSignature answers callbacks that fail
	// signature verification. Nothing is mutated.
	NotificationCodeInvalidSignature = "97"
)

// PaymentNotificationResult is the protocol answer to a gateway callback.
type PaymentNotificationResult struct {
	Code    string
	Message string
}

// PaymentSettledEvent is the payload published when a payment settles.
type PaymentSettledEvent struct {
	OrderID        string `json:"order_id"`
	TransactionRef string `json:"transaction_ref"`
	Amount         int64  `json:"amount"`
}

// ApplyPaymentNotificationCommandHandler reconciles a gateway callback
// against the order it references.
//
// The handler is idempotent: replaying a settled callback answers code 02
// and mutates nothing, so the gateway's at-least-once delivery is safe.
// Tampered callbacks fail the signature check and are never applied.
type ApplyPaymentNotificationCommandHandler struct {
	uowFactory OrderUoWFactory
	gateway    ports.PaymentGateway
	notifier   ports.Notifier
}

// NewApplyPaymentNotificationCommandHandler creates a handler for gateway
// callbacks.
func NewApplyPaymentNotificationCommandHandler(
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
	notifier ports.Notifier,
) ApplyPaymentNotificationCommandHandler {
	return ApplyPaymentNotificationCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		notifier:   notifier,
	}
}

// Handle verifies and applies one callback. Protocol outcomes (bad
// signature, unknown order, replay, amount mismatch) are results, not
// errors; the error return is reserved for infrastructure failures.
func (h ApplyPaymentNotificationCommandHandler) Handle(
	ctx context.Context,
	cmd ApplyPaymentNotificationCommand,
) (PaymentNotificationResult, error) {
	if err := cmd.Validate(); err != nil {
		return PaymentNotificationResult{}, err
	}

	notification, err := h.gateway.VerifyCallback(cmd.Params())
	if errors.Is(err, errs.ErrValueIsInvalid) {
		return PaymentNotificationResult{
			Code:    NotificationCodeInvalidSignature,
			Message: "invalid signature",
		}, nil
	}
	if err != nil {
		return PaymentNotificationResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return PaymentNotificationResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.GetByPaymentTransactionRef(ctx, notification.TransactionRef)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return PaymentNotificationResult{
			Code:    NotificationCodeOrderNotFound,
			Message: "order not found",
		}, nil
	}
	if err != nil {
		return PaymentNotificationResult{}, err
	}

	// The amount is checked on every callback, replays included, and in the
	// gateway's own pre-scaled unit so an off-by-a-few-minor-units report
	// cannot slip through integer division.
	if notification.MinorAmount != aggregate.TotalAmount()*ports.MinorUnitScale {
		return PaymentNotificationResult{
			Code:    NotificationCodeAmountMismatch,
			Message: "invalid amount",
		}, nil
	}

	if aggregate.PaymentStatus() == order.PaymentPaid {
		return PaymentNotificationResult{
			Code:    NotificationCodeAlreadyConfirmed,
			Message: "order already confirmed",
		}, nil
	}

	if notification.Success {
		paidAt := notification.PayDate
		if paidAt.IsZero() {
			paidAt = time.Now().UTC()
		}
		err = aggregate.MarkPaid(paidAt)
	} else {
		err = aggregate.MarkPaymentFailed()
	}
	if err != nil {
		return PaymentNotificationResult{}, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return PaymentNotificationResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PaymentNotificationResult{}, err
	}

	if notification.Success {
		_ = h.notifier.Emit(ctx, ports.EventPaymentSettled, PaymentSettledEvent{
			OrderID:        aggregate.ID().String(),
			TransactionRef: notification.TransactionRef,
			Amount:         aggregate.TotalAmount(),
		})
	}

	return PaymentNotificationResult{
		Code:    NotificationCodeSuccess,
		Message: "confirm success",
	}, nil
}
