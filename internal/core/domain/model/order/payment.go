package order

import (
	"fmt"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"
)

// PaymentMethod identifies how an order is paid.
type PaymentMethod int

const (
	// PaymentMethodUnknown represents an invalid or undefined method.
	PaymentMethodUnknown PaymentMethod = iota

	// CashOnDelivery is settled on handover; the fulfillment machine
	// never waits on it.
	CashOnDelivery

	// Gateway is settled through the external payment gateway.
	// Gateway orders must be paid before dispatch may proceed.
	Gateway
)

// PaymentStatus tracks the settlement state of an order independently of
// its fulfillment status.
type PaymentStatus int

const (
	// PaymentStatusUnknown represents an invalid or undefined payment status.
	PaymentStatusUnknown PaymentStatus = iota

	// PaymentPending means no settlement has been confirmed yet.
	PaymentPending

	// PaymentPaid means a verified gateway notification confirmed settlement.
	PaymentPaid

	// PaymentFailed means the gateway reported a failed attempt.
	PaymentFailed

	// PaymentRefundPending means an administrative refund was requested and
	// awaits the gateway's confirming notification.
	PaymentRefundPending

	// PaymentRefunded means the gateway confirmed the refund.
	PaymentRefunded
)

func getPaymentMethodStrings() map[PaymentMethod]string {
	return map[PaymentMethod]string{
		PaymentMethodUnknown: "unknown",
		CashOnDelivery:       "cash_on_delivery",
		Gateway:              "gateway",
	}
}

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentStatusUnknown: "unknown",
		PaymentPending:       "pending",
		PaymentPaid:          "paid",
		PaymentFailed:        "failed",
		PaymentRefundPending: "refund_pending",
		PaymentRefunded:      "refunded",
	}
}

// PaymentMethodFromString parses a payment method from its wire representation.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	for method, name := range getPaymentMethodStrings() {
		if name == s && method != PaymentMethodUnknown {
			return method, nil
		}
	}
	return PaymentMethodUnknown, errs.NewValueIsInvalidErrorWithCause("paymentMethod",
		fmt.Errorf("%q is not a valid payment method", s))
}

// Validate checks if the PaymentMethod is one of the defined methods.
func (m PaymentMethod) Validate() error {
	if m != CashOnDelivery && m != Gateway {
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod",
			fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

// String returns the wire name of the method. Implements fmt.Stringer.
func (m PaymentMethod) String() string {
	if str, ok := getPaymentMethodStrings()[m]; ok {
		return str
	}
	return "unknown"
}

// PaymentStatusFromString parses a payment status from its wire representation.
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	for status, name := range getPaymentStatusStrings() {
		if name == s && status != PaymentStatusUnknown {
			return status, nil
		}
	}
	return PaymentStatusUnknown, errs.NewValueIsInvalidErrorWithCause("paymentStatus",
		fmt.Errorf("%q is not a valid payment status", s))
}

// Validate checks if the PaymentStatus is one of the defined states.
func (s PaymentStatus) Validate() error {
	if s < PaymentPending || s > PaymentRefunded {
		return errs.NewValueIsInvalidErrorWithCause("paymentStatus",
			fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

// String returns the wire name of the payment status. Implements fmt.Stringer.
func (s PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
