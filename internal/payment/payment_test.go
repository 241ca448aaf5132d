package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ecofinds/internal/apperr"
	"ecofinds/internal/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"
)

func TestSimulated_Succeeds(t *testing.T) {
	p := NewSimulated(0, logger.NewNop())
	p.now = func() time.Time { return time.UnixMilli(1700000000123) }

	intent, err := p.Charge(context.Background(), Charge{
		Amount:     decimal.RequireFromString("499.99"),
		Method:     MethodCreditCard,
		CardNumber: "4242 4242 4242 4242",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(intent.ID, "demo_payment_1700000000123_"))
	assert.Len(t, strings.TrimPrefix(intent.ID, "demo_payment_1700000000123_"), 9)
	assert.Equal(t, "succeeded", intent.Status)
	assert.EqualValues(t, 49999, intent.AmountReceived)
	assert.Equal(t, "inr", intent.Currency)
	assert.Equal(t, DefaultDescription, intent.Description)
	assert.True(t, intent.Demo)
	assert.EqualValues(t, 1700000000, intent.Created)
}

func TestSimulated_DeclinesTestCards(t *testing.T) {
	p := NewSimulated(0, logger.NewNop())
	for _, number := range []string{"4000000000000002", "4000 0000 0000 0002", "5555-0002-1111-2222"} {
		_, err := p.Charge(context.Background(), Charge{
			Amount:     decimal.NewFromInt(10),
			Method:     MethodCreditCard,
			CardNumber: number,
		})
		assert.ErrorIs(t, err, ErrDeclined, number)
		assert.Equal(t, apperr.KindDeclined, apperr.KindOf(err))
	}
}

func TestIsDeclineCard(t *testing.T) {
	for number, declined := range map[string]bool{
		"4000000000000002":    true,
		"4000-0000-0000-0002": true,
		"4111 0002 1111 1111": true,
		"4242424242424242":    false,
		"4000 2424 2424 2424": false,
		"4000-2000-0000-0000": false,
	} {
		assert.Equal(t, declined, IsDeclineCard(number), number)
	}
}

func TestSimulated_NonCardMethodsIgnoreCardNumber(t *testing.T) {
	p := NewSimulated(0, logger.NewNop())
	intent, err := p.Charge(context.Background(), Charge{
		Amount:     decimal.NewFromInt(10),
		Method:     MethodUPI,
		CardNumber: "4000000000000002",
	})
	require.NoError(t, err)
	assert.Equal(t, "upi", intent.PaymentMethod)
}

func TestSimulated_MissingInfo(t *testing.T) {
	p := NewSimulated(0, logger.NewNop())

	_, err := p.Charge(context.Background(), Charge{Method: MethodCreditCard})
	assert.ErrorIs(t, err, ErrMissingPaymentInfo)

	_, err = p.Charge(context.Background(), Charge{Amount: decimal.NewFromInt(1), Method: "cheque"})
	assert.ErrorIs(t, err, ErrMissingPaymentInfo)
}

func TestSimulated_HonoursCancellation(t *testing.T) {
	p := NewSimulated(time.Minute, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Charge(ctx, Charge{Amount: decimal.NewFromInt(1), Method: MethodWallet})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestToCents(t *testing.T) {
	assert.EqualValues(t, 1999, ToCents(decimal.RequireFromString("19.99")))
	assert.EqualValues(t, 1000, ToCents(decimal.RequireFromString("9.995")))
	assert.EqualValues(t, 25000, ToCents(decimal.NewFromInt(250)))
}

func TestNew(t *testing.T) {
	sim := NewSimulated(0, logger.NewNop())

	p, err := New("", "", "", sim)
	require.NoError(t, err)
	assert.Equal(t, "simulated", p.Name())

	_, err = New("stripe", "", "", sim)
	assert.Error(t, err)

	p, err = New("stripe", "sk_test_123", "usd", sim)
	require.NoError(t, err)
	assert.Equal(t, []Method{MethodCreditCard}, p.Methods())
	assert.True(t, Supports(sim, MethodNetBanking))
	assert.False(t, Supports(p, MethodNetBanking))

	_, err = New("paypal", "", "", sim)
	assert.Error(t, err)
}

func stripeAgainst(t *testing.T, status int, body string) *Stripe {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return NewStripeWithBackend("sk_test_123", "usd", backend)
}

func TestStripe_Confirmed(t *testing.T) {
	s := stripeAgainst(t, http.StatusOK, `{
		"id": "pi_123",
		"object": "payment_intent",
		"status": "succeeded",
		"amount_received": 1250,
		"currency": "usd",
		"description": "EcoFinds Marketplace Purchase",
		"created": 1700000000
	}`)

	intent, err := s.Charge(context.Background(), Charge{
		Amount:          decimal.RequireFromString("12.50"),
		Method:          MethodCreditCard,
		PaymentMethodID: "pm_card_visa",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.EqualValues(t, 1250, intent.AmountReceived)
	assert.Equal(t, "usd", intent.Currency)
}

func TestStripe_CardDeclined(t *testing.T) {
	s := stripeAgainst(t, http.StatusPaymentRequired, `{
		"error": {"type": "card_error", "code": "card_declined", "message": "Your card was declined."}
	}`)

	_, err := s.Charge(context.Background(), Charge{
		Amount:          decimal.NewFromInt(5),
		Method:          MethodCreditCard,
		PaymentMethodID: "pm_card_chargeDeclined",
	})
	assert.ErrorIs(t, err, ErrDeclined)
}

func TestStripe_RejectsNonCard(t *testing.T) {
	s := NewStripe("sk_test_123", "usd")

	_, err := s.Charge(context.Background(), Charge{Amount: decimal.NewFromInt(5), Method: MethodUPI})
	assert.ErrorIs(t, err, ErrMethodNotSupported)

	_, err = s.Charge(context.Background(), Charge{Amount: decimal.NewFromInt(5), Method: MethodCreditCard})
	assert.ErrorIs(t, err, ErrMissingPaymentInfo)
}
