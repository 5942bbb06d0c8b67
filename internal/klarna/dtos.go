package klarna

import "encoding/json"

// envelope carries the undecoded response body alongside the typed view,
// so machine-readable output can reproduce the payload byte for byte.
type envelope struct {
	raw json.RawMessage
}

func (e *envelope) attach(raw json.RawMessage) {
	e.raw = raw
}

// Raw returns the response body exactly as the API returned it.
func (e *envelope) Raw() json.RawMessage {
	return e.raw
}

// OrderLine is a single line of an order. Amounts are integer minor
// units; the line total is forwarded as-is, never recomputed locally.
type OrderLine struct {
	Type                string `json:"type,omitempty"`
	Reference           string `json:"reference,omitempty"`
	Name                string `json:"name,omitempty"`
	Quantity            int64  `json:"quantity"`
	QuantityUnit        string `json:"quantity_unit,omitempty"`
	UnitPrice           int64  `json:"unit_price"`
	TaxRate             int64  `json:"tax_rate,omitempty"`
	TotalAmount         int64  `json:"total_amount"`
	TotalDiscountAmount int64  `json:"total_discount_amount,omitempty"`
	TotalTaxAmount      int64  `json:"total_tax_amount,omitempty"`
}

// SessionParams shapes the body for session and authorization creation.
// Country, currency and locale default to US/USD/en-US when left empty.
type SessionParams struct {
	PurchaseCountry  string      `json:"purchase_country"`
	PurchaseCurrency string      `json:"purchase_currency"`
	Locale           string      `json:"locale"`
	OrderAmount      int64       `json:"order_amount" validate:"gte=0"`
	OrderLines       []OrderLine `json:"order_lines"`
}

func (p *SessionParams) applyDefaults() {
	if p.PurchaseCountry == "" {
		p.PurchaseCountry = "US"
	}
	if p.PurchaseCurrency == "" {
		p.PurchaseCurrency = "USD"
	}
	if p.Locale == "" {
		p.Locale = "en-US"
	}
}

// amountLinesUpdate is the only mutable slice of a session or an order's
// authorization: total amount plus order lines.
type amountLinesUpdate struct {
	OrderAmount int64       `json:"order_amount" validate:"gte=0"`
	OrderLines  []OrderLine `json:"order_lines"`
}

// authorizationRequest adds the forced auto_capture flag to the session
// fields. Capture is always a separate explicit step, so the flag is
// hardwired to false and not exposed to callers.
type authorizationRequest struct {
	SessionParams
	AutoCapture bool `json:"auto_capture"`
}

type PaymentMethodCategory struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

type Session struct {
	envelope
	SessionID               string                  `json:"session_id"`
	ClientToken             string                  `json:"client_token"`
	PurchaseCountry         string                  `json:"purchase_country"`
	PurchaseCurrency        string                  `json:"purchase_currency"`
	Locale                  string                  `json:"locale"`
	OrderAmount             int64                   `json:"order_amount"`
	OrderLines              []OrderLine             `json:"order_lines"`
	Status                  string                  `json:"status"`
	PaymentMethodCategories []PaymentMethodCategory `json:"payment_method_categories"`
}

// Authorization is the result of placing an order against a checkout
// authorization token.
type Authorization struct {
	envelope
	OrderID     string `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
	FraudStatus string `json:"fraud_status"`
}

type Capture struct {
	CaptureID      string `json:"capture_id"`
	CapturedAmount int64  `json:"captured_amount"`
	Description    string `json:"description,omitempty"`
	CapturedAt     string `json:"captured_at,omitempty"`
}

type Refund struct {
	RefundID       string `json:"refund_id"`
	RefundedAmount int64  `json:"refunded_amount"`
	Description    string `json:"description,omitempty"`
	RefundedAt     string `json:"refunded_at,omitempty"`
}

// Order is the order-management view with its authoritative running
// totals. The remote service owns the captured and refunded balances;
// the totals here are reported, never derived locally.
type Order struct {
	envelope
	OrderID                   string      `json:"order_id"`
	Status                    string      `json:"status"`
	FraudStatus               string      `json:"fraud_status,omitempty"`
	PurchaseCountry           string      `json:"purchase_country"`
	PurchaseCurrency          string      `json:"purchase_currency"`
	Locale                    string      `json:"locale"`
	OrderAmount               int64       `json:"order_amount"`
	CapturedAmount            int64       `json:"captured_amount"`
	RefundedAmount            int64       `json:"refunded_amount"`
	RemainingAuthorizedAmount int64       `json:"remaining_authorized_amount"`
	OrderLines                []OrderLine `json:"order_lines"`
	Captures                  []Capture   `json:"captures"`
	Refunds                   []Refund    `json:"refunds"`
}

// CaptureParams shapes a capture sub-record. A zero amount is accepted
// locally and forwarded; rejecting it is the remote service's call.
type CaptureParams struct {
	CapturedAmount int64  `json:"captured_amount" validate:"gte=0"`
	Description    string `json:"description,omitempty"`
}

type RefundParams struct {
	RefundedAmount int64  `json:"refunded_amount" validate:"gte=0"`
	Description    string `json:"description,omitempty"`
}

// CaptureResult is the response of a capture call. The API answers with
// 201 and an empty body, so fields are typically unset.
type CaptureResult struct {
	envelope
	Capture
}

// RefundResult is the response of a refund call.
type RefundResult struct {
	envelope
	Refund
}
