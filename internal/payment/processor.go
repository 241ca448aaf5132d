// Package payment charges buyers through a configured processor: a local
// simulation for demos and tests, or Stripe.
package payment

import (
	"context"
	"fmt"
	"strings"

	"ecofinds/internal/apperr"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodCreditCard Method = "credit_card"
	MethodUPI        Method = "upi"
	MethodNetBanking Method = "net_banking"
	MethodWallet     Method = "wallet"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCreditCard, MethodUPI, MethodNetBanking, MethodWallet:
		return true
	}
	return false
}

const (
	DeclinedMessage    = "Your card was declined. Please try again with a different payment method."
	DefaultDescription = "EcoFinds Marketplace Purchase"
)

var (
	ErrDeclined           = apperr.Declined(DeclinedMessage)
	ErrMissingPaymentInfo = apperr.Validation("Missing required payment information")
	ErrMethodNotSupported = apperr.Validation("Payment method is not supported")
)

// Charge is a single request to move Amount from the buyer.
type Charge struct {
	Amount          decimal.Decimal
	Method          Method
	CardNumber      string
	PaymentMethodID string
	Details         map[string]interface{}
	Description     string
}

// Intent is the processor's record of a completed charge.
type Intent struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	AmountReceived int64  `json:"amount_received"`
	Currency       string `json:"currency"`
	PaymentMethod  string `json:"payment_method"`
	Description    string `json:"description"`
	Demo           bool   `json:"demo,omitempty"`
	Created        int64  `json:"created"`
}

type Processor interface {
	Name() string
	Methods() []Method
	Charge(ctx context.Context, c Charge) (*Intent, error)
}

// Supports reports whether p accepts method.
func Supports(p Processor, method Method) bool {
	for _, m := range p.Methods() {
		if m == method {
			return true
		}
	}
	return false
}

// New builds the processor named by provider.
func New(provider, stripeKey, stripeCurrency string, simulated *Simulated) (Processor, error) {
	switch strings.ToLower(provider) {
	case "", "simulated", "demo":
		return simulated, nil
	case "stripe":
		if stripeKey == "" {
			return nil, fmt.Errorf("STRIPE_SECRET_KEY is required for the stripe payment provider")
		}
		return NewStripe(stripeKey, stripeCurrency), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", provider)
	}
}

// ToCents converts a decimal amount to the smallest currency unit.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func validate(c Charge) error {
	if !c.Amount.IsPositive() || !c.Method.Valid() {
		return ErrMissingPaymentInfo
	}
	return nil
}

func description(c Charge) string {
	if c.Description != "" {
		return c.Description
	}
	return DefaultDescription
}
