// Package vnpay implements the payment gateway port against the VNPay
// hosted-checkout protocol: signed redirect URLs out, signed callbacks in.
//
// Every message in both directions is authenticated the same way: the
// vnp_-prefixed parameters are sorted by key ascending, URL-encoded the way
// url.Values.Encode does, and the resulting querystring is signed with
// HMAC-SHA512 over the merchant secret. Amounts cross the wire in the
// currency's minor unit, one hundred times the major-unit amount.
package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/ports"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"
)

const (
	paramVersion        = "vnp_Version"
	paramCommand        = "vnp_Command"
	paramTmnCode        = "vnp_TmnCode"
	paramAmount         = "vnp_Amount"
	paramCreateDate     = "vnp_CreateDate"
	paramCurrCode       = "vnp_CurrCode"
	paramIPAddr         = "vnp_IpAddr"
	paramLocale         = "vnp_Locale"
	paramOrderInfo      = "vnp_OrderInfo"
	paramOrderType      = "vnp_OrderType"
	paramReturnURL      = "vnp_ReturnUrl"
	paramTxnRef         = "vnp_TxnRef"
	paramSecureHash     = "vnp_SecureHash"
	paramSecureHashType = "vnp_SecureHashType"
	paramResponseCode   = "vnp_ResponseCode"
	paramTransactionNo  = "vnp_TransactionNo"
	paramBankCode       = "vnp_BankCode"
	paramPayDate        = "vnp_PayDate"
	paramTransDate      = "vnp_TransactionDate"
	paramRequestID      = "vnp_RequestId"

	protocolVersion = "2.1.0"
	currencyCode    = "VND"
	defaultLocale   = "vn"
	orderType       = "other"

	dateLayout          = "20060102150405"
	responseCodeSuccess = "00"
)

// Config carries the merchant credentials and endpoints.
type Config struct {
	TmnCode    string
	HashSecret string
	BaseURL    string
	ReturnURL  string
}

// Client implements ports.PaymentGateway against VNPay.
type Client struct {
	config Config
}

// NewClient creates a VNPay client with the given merchant configuration.
func NewClient(config Config) (*Client, error) {
	if config.TmnCode == "" {
		return nil, errs.NewValueIsRequiredError("tmnCode")
	}
	if config.HashSecret == "" {
		return nil, errs.NewValueIsRequiredError("hashSecret")
	}
	if config.BaseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if config.ReturnURL == "" {
		return nil, errs.NewValueIsRequiredError("returnURL")
	}

	return &Client{config: config}, nil
}

// BuildPaymentURL returns the signed hosted-checkout URL for the request.
func (c *Client) BuildPaymentURL(req ports.PaymentRequest) (string, error) {
	if req.TransactionRef == "" {
		return "", errs.NewValueIsRequiredError("transactionRef")
	}
	if req.Amount <= 0 {
		return "", errs.NewValueIsInvalidError("amount")
	}
	if req.ClientIP == "" {
		return "", errs.NewValueIsRequiredError("clientIP")
	}

	params := url.Values{}
	params.Set(paramVersion, protocolVersion)
	params.Set(paramCommand, "pay")
	params.Set(paramTmnCode, c.config.TmnCode)
	params.Set(paramAmount, strconv.FormatInt(req.Amount*ports.MinorUnitScale, 10))
	params.Set(paramCreateDate, req.CreatedAt.Format(dateLayout))
	params.Set(paramCurrCode, currencyCode)
	params.Set(paramIPAddr, req.ClientIP)
	params.Set(paramLocale, defaultLocale)
	params.Set(paramOrderInfo, req.OrderInfo)
	params.Set(paramOrderType, orderType)
	params.Set(paramReturnURL, c.config.ReturnURL)
	params.Set(paramTxnRef, req.TransactionRef)

	signature := c.sign(params)
	params.Set(paramSecureHash, signature)

	return c.config.BaseURL + "?" + params.Encode(), nil
}

// VerifyCallback authenticates a gateway callback and decodes it. Both the
// browser return and the server-to-server notification go through here.
// A bad or missing signature comes back as a wrapped errs.ErrValueIsInvalid.
func (c *Client) VerifyCallback(params url.Values) (ports.PaymentNotification, error) {
	received := params.Get(paramSecureHash)
	if received == "" {
		return ports.PaymentNotification{}, errs.NewValueIsInvalidError("vnp_SecureHash")
	}

	// The hash fields never participate in their own signature
	signed := url.Values{}
	for key, values := range params {
		if key == paramSecureHash || key == paramSecureHashType {
			continue
		}
		for _, v := range values {
			signed.Add(key, v)
		}
	}

	expected := c.sign(signed)
	if !hmac.Equal([]byte(expected), []byte(received)) {
		return ports.PaymentNotification{}, errs.NewValueIsInvalidError("vnp_SecureHash")
	}

	minorAmount, err := strconv.ParseInt(params.Get(paramAmount), 10, 64)
	if err != nil {
		return ports.PaymentNotification{}, errs.NewValueIsInvalidErrorWithCause("vnp_Amount", err)
	}

	notification := ports.PaymentNotification{
		TransactionRef:       params.Get(paramTxnRef),
		MinorAmount:          minorAmount,
		Success:              params.Get(paramResponseCode) == responseCodeSuccess,
		GatewayTransactionNo: params.Get(paramTransactionNo),
		BankCode:             params.Get(paramBankCode),
	}

	if raw := params.Get(paramPayDate); raw != "" {
		payDate, dateErr := time.Parse(dateLayout, raw)
		if dateErr != nil {
			return ports.PaymentNotification{}, errs.NewValueIsInvalidErrorWithCause("vnp_PayDate", dateErr)
		}
		notification.PayDate = payDate
	}

	return notification, nil
}

// BuildQueryRequest returns the signed parameter set for querying the state
// of a transaction at the gateway.
func (c *Client) BuildQueryRequest(transactionRef string, transDate, createdAt time.Time) (url.Values, error) {
	if transactionRef == "" {
		return nil, errs.NewValueIsRequiredError("transactionRef")
	}

	params := url.Values{}
	params.Set(paramRequestID, fmt.Sprintf("%s-%d", transactionRef, createdAt.UnixNano()))
	params.Set(paramVersion, protocolVersion)
	params.Set(paramCommand, "querydr")
	params.Set(paramTmnCode, c.config.TmnCode)
	params.Set(paramTxnRef, transactionRef)
	params.Set(paramTransDate, transDate.Format(dateLayout))
	params.Set(paramCreateDate, createdAt.Format(dateLayout))

	params.Set(paramSecureHash, c.sign(params))
	return params, nil
}

// BuildRefundRequest returns the signed parameter set for requesting a
// refund of a settled transaction.
func (c *Client) BuildRefundRequest(
	transactionRef string,
	amount int64,
	transDate, createdAt time.Time,
) (url.Values, error) {
	if transactionRef == "" {
		return nil, errs.NewValueIsRequiredError("transactionRef")
	}
	if amount <= 0 {
		return nil, errs.NewValueIsInvalidError("amount")
	}

	params := url.Values{}
	params.Set(paramRequestID, fmt.Sprintf("%s-%d", transactionRef, createdAt.UnixNano()))
	params.Set(paramVersion, protocolVersion)
	params.Set(paramCommand, "refund")
	params.Set(paramTmnCode, c.config.TmnCode)
	params.Set(paramTxnRef, transactionRef)
	params.Set(paramAmount, strconv.FormatInt(amount*ports.MinorUnitScale, 10))
	params.Set(paramTransDate, transDate.Format(dateLayout))
	params.Set(paramCreateDate, createdAt.Format(dateLayout))

	params.Set(paramSecureHash, c.sign(params))
	return params, nil
}

// sign canonicalizes the parameters by sorting keys ascending with
// consistent URL encoding, then computes HMAC-SHA512 over the querystring.
// url.Values.Encode performs exactly that canonicalization.
func (c *Client) sign(params url.Values) string {
	mac := hmac.New(sha512.New, []byte(c.config.HashSecret))
	mac.Write([]byte(params.Encode()))
	return hex.EncodeToString(mac.Sum(nil))
}
