package entities

import "time"

// PaymentMethodType enumerates the supported ways to pay another member.
type PaymentMethodType string

const (
	PaymentMethodCard    PaymentMethodType = "card"
	PaymentMethodPayPal  PaymentMethodType = "paypal"
	PaymentMethodVenmo   PaymentMethodType = "venmo"
	PaymentMethodCashApp PaymentMethodType = "cashapp"
)

// PaymentMethod is a saved method the payer can choose from.
type PaymentMethod struct {
	ID        string            `json:"id"`
	Type      PaymentMethodType `json:"type"`
	Last4     string            `json:"last4,omitempty"`
	Brand     string            `json:"brand,omitempty"`
	IsDefault bool              `json:"is_default"`
}

// Label returns the display label for the method.
func (m PaymentMethod) Label() string {
	switch m.Type {
	case PaymentMethodCard:
		return m.Brand + " •••• " + m.Last4
	case PaymentMethodPayPal:
		return "PayPal"
	case PaymentMethodVenmo:
		return "Venmo"
	case PaymentMethodCashApp:
		return "Cash App"
	default:
		return "Payment Method"
	}
}

// Payment is the receipt of a simulated transfer between two members.
// Receipts are returned to the caller and never stored.
type Payment struct {
	ID          string            `json:"id"`
	FromUserID  string            `json:"from_user_id"`
	ToUserID    string            `json:"to_user_id"`
	Amount      float64           `json:"amount"`
	MethodID    string            `json:"method_id"`
	MethodType  PaymentMethodType `json:"method_type"`
	Description string            `json:"description,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
