package ports

import (
	"net/url"
	"time"
)

// MinorUnitScale is the number of minor currency units per major unit.
// The gateway reports and expects all amounts pre-multiplied by it.
const MinorUnitScale = 100

// PaymentRequest is the gateway-facing view of an order to be paid.
// Amount is in the currency's major unit; the adapter applies the
// gateway's minor-unit scaling.
type PaymentRequest struct {
	TransactionRef string
	Amount         int64
	OrderInfo      string
	ClientIP       string
	CreatedAt      time.Time
}

// PaymentNotification is the verified content of a gateway callback (both
// the browser return and the server-to-server notification carry the same
// parameter set).
type PaymentNotification struct {
	TransactionRef string
	// MinorAmount is the charged amount exactly as the gateway reported
	// it, in the currency's minor unit. Reconciliation compares it against
	// the order total in the same pre-scaled unit; scaling it down first
	// would round away a tampered low pair of digits.
	MinorAmount int64
	// Success reflects the gateway's own response code for the charge.
	Success bool
	// GatewayTransactionNo is the gateway-side transaction number.
	GatewayTransactionNo string
	BankCode             string
	PayDate              time.Time
}

// PaymentGateway abstracts the hosted-checkout provider: building the
// redirect URL and verifying the signed callbacks it sends back.
type PaymentGateway interface {
	// BuildPaymentURL returns the signed checkout URL for the request.
	BuildPaymentURL(req PaymentRequest) (string, error)

	// VerifyCallback checks the signature over the callback parameters and
	// decodes them. Returns errs.ErrValueIsInvalid (wrapped) when the
	// signature does not match, so tampered callbacks are never applied.
	VerifyCallback(params url.Values) (PaymentNotification, error)
}
