package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ecofinds/internal/cache"
	"ecofinds/internal/payment"
)

const sessionKeyPrefix = "checkout:session:"

const DefaultSessionTTL = 30 * time.Minute

// Manager keeps one session per user in a cache.Cache, so every instance
// sharing that cache (Redis) can continue the same checkout. Calls for the
// same user are serialized within an instance: a second Submit waits for the
// first and then finds the session already finished.
type Manager struct {
	svc      *Service
	sessions cache.Cache
	ttl      time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager stores sessions in sessions for ttl after their last change.
// A ttl <= 0 keeps them until cancelled or replaced.
func NewManager(svc *Service, sessions cache.Cache, ttl time.Duration) *Manager {
	return &Manager{
		svc:      svc,
		sessions: sessions,
		ttl:      ttl,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (m *Manager) Methods() []payment.Method {
	return m.svc.Methods()
}

// Begin starts a fresh session, replacing any earlier one for the user.
func (m *Manager) Begin(ctx context.Context, userID string) (Session, error) {
	sess, err := m.svc.Begin(ctx, userID)
	if err != nil {
		return Session{}, err
	}

	unlock := m.lock(userID)
	defer unlock()

	if err := m.save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess.clone(), nil
}

func (m *Manager) Get(ctx context.Context, userID string) (Session, error) {
	return m.with(ctx, userID, func(*Session) error { return nil })
}

func (m *Manager) SelectMethod(ctx context.Context, userID string, method payment.Method) (Session, error) {
	return m.with(ctx, userID, func(s *Session) error {
		return m.svc.SelectMethod(s, method)
	})
}

func (m *Manager) EnterDetails(ctx context.Context, userID string, d Details) (Session, error) {
	return m.with(ctx, userID, func(s *Session) error {
		return m.svc.EnterDetails(s, d)
	})
}

func (m *Manager) Submit(ctx context.Context, userID string) (Session, error) {
	return m.with(ctx, userID, func(s *Session) error {
		return m.svc.Submit(ctx, s)
	})
}

// Cancel drops the user's session. Unknown users are ignored.
func (m *Manager) Cancel(ctx context.Context, userID string) error {
	unlock := m.lock(userID)
	defer unlock()

	if err := m.sessions.Delete(ctx, sessionKeyPrefix+userID); err != nil {
		return fmt.Errorf("failed to delete checkout session: %w", err)
	}
	return nil
}

// with loads the user's session under its lock, runs fn and stores the
// result even when fn fails, so retained details survive a decline.
func (m *Manager) with(ctx context.Context, userID string, fn func(*Session) error) (Session, error) {
	unlock := m.lock(userID)
	defer unlock()

	sess, err := m.load(ctx, userID)
	if err != nil {
		return Session{}, err
	}

	err = fn(sess)
	if saveErr := m.save(ctx, sess); saveErr != nil && err == nil {
		err = saveErr
	}
	return sess.clone(), err
}

func (m *Manager) lock(userID string) func() {
	m.mu.Lock()
	l, ok := m.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[userID] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (m *Manager) load(ctx context.Context, userID string) (*Session, error) {
	data, err := m.sessions.Get(ctx, sessionKeyPrefix+userID)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	return &sess, nil
}

func (m *Manager) save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode checkout session: %w", err)
	}
	if err := m.sessions.Set(ctx, sessionKeyPrefix+sess.UserID, data, m.ttl); err != nil {
		return fmt.Errorf("failed to store checkout session: %w", err)
	}
	return nil
}
