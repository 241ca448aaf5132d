package payment

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"ecofinds/internal/logger"
)

// declineCard is the documented test card that always fails.
const declineCard = "4000000000000002"

// Simulated approves every charge after a fixed delay except those paid with
// a decline test card.
type Simulated struct {
	delay  time.Duration
	logger *logger.Logger
	now    func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulated(delay time.Duration, logger *logger.Logger) *Simulated {
	return &Simulated{
		delay:  delay,
		logger: logger,
		now:    time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Simulated) Name() string { return "simulated" }

func (s *Simulated) Methods() []Method {
	return []Method{MethodCreditCard, MethodUPI, MethodNetBanking, MethodWallet}
}

func (s *Simulated) Charge(ctx context.Context, c Charge) (*Intent, error) {
	if err := validate(c); err != nil {
		return nil, err
	}

	s.logger.Info("Demo payment processing: amount=%s method=%s", c.Amount.String(), c.Method)

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if c.Method == MethodCreditCard && IsDeclineCard(c.CardNumber) {
		return nil, ErrDeclined
	}

	now := s.now()
	return &Intent{
		ID:             fmt.Sprintf("demo_payment_%d_%s", now.UnixMilli(), s.suffix()),
		Status:         "succeeded",
		AmountReceived: ToCents(c.Amount),
		Currency:       "inr",
		PaymentMethod:  string(c.Method),
		Description:    description(c),
		Demo:           true,
		Created:        now.Unix(),
	}, nil
}

// IsDeclineCard reports whether number is a decline test card: the card
// number field as entered contains "0002", or its digits are the decline
// card. Separators are not stripped before the substring match, so
// "4000 2424 2424 2424" is approved.
func IsDeclineCard(number string) bool {
	return strings.Contains(number, "0002") || NormalizeCardNumber(number) == declineCard
}

func NormalizeCardNumber(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func (s *Simulated) suffix() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, 9)
	for i := range buf {
		buf[i] = suffixAlphabet[s.rng.Intn(len(suffixAlphabet))]
	}
	return string(buf)
}
