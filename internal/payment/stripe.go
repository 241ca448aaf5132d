package payment

import (
	"context"
	"errors"
	"fmt"

	"ecofinds/internal/apperr"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
)

// Stripe creates and confirms a PaymentIntent for each charge. Only card
// payments are supported.
type Stripe struct {
	client   *paymentintent.Client
	currency string
}

func NewStripe(secretKey, currency string) *Stripe {
	return NewStripeWithBackend(secretKey, currency, stripe.GetBackend(stripe.APIBackend))
}

// NewStripeWithBackend lets tests point the client at a fake server.
func NewStripeWithBackend(secretKey, currency string, backend stripe.Backend) *Stripe {
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &Stripe{
		client:   &paymentintent.Client{B: backend, Key: secretKey},
		currency: currency,
	}
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) Methods() []Method {
	return []Method{MethodCreditCard}
}

func (s *Stripe) Charge(ctx context.Context, c Charge) (*Intent, error) {
	if err := validate(c); err != nil {
		return nil, err
	}
	if c.Method != MethodCreditCard {
		return nil, ErrMethodNotSupported
	}
	if c.PaymentMethodID == "" {
		return nil, ErrMissingPaymentInfo
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(ToCents(c.Amount)),
		Currency:      stripe.String(s.currency),
		PaymentMethod: stripe.String(c.PaymentMethodID),
		Description:   stripe.String(description(c)),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx

	pi, err := s.client.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			if stripeErr.Code == stripe.ErrorCodeCardDeclined || stripeErr.Type == stripe.ErrorTypeCard {
				return nil, ErrDeclined
			}
			return nil, apperr.Wrap(apperr.KindExternal, stripeErr.Msg, err)
		}
		return nil, apperr.Wrap(apperr.KindExternal, "Payment processing failed", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, apperr.Wrap(apperr.KindDeclined, DeclinedMessage,
			fmt.Errorf("payment intent %s ended in status %s", pi.ID, pi.Status))
	}

	return &Intent{
		ID:             pi.ID,
		Status:         string(pi.Status),
		AmountReceived: pi.AmountReceived,
		Currency:       string(pi.Currency),
		PaymentMethod:  string(c.Method),
		Description:    pi.Description,
		Created:        pi.Created,
	}, nil
}
