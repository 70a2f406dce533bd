package session

import (
	"context"
	"errors"
	"sync"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/discount"
)

// ErrSuperseded is returned when a newer apply attempt started while this one
// was still validating. The stale result is discarded, never applied.
var ErrSuperseded = errors.New("discount validation superseded")

// Session is the explicit per-user state object passed into the engine entry
// points: the cart aggregator plus at most one applied discount. It replaces
// the ambient context the storefront UI used to share.
type Session struct {
	userID string
	cart   *cart.Cart

	mu             sync.Mutex
	applied        *discount.Applied
	applySeq       uint64
	cancelInFlight context.CancelFunc
}

func New(userID string) *Session {
	return &Session{userID: userID, cart: cart.New()}
}

func (s *Session) UserID() string { return s.userID }

func (s *Session) Cart() *cart.Cart { return s.cart }

// Applied returns the currently applied discount, if any.
func (s *Session) Applied() (discount.Applied, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applied == nil {
		return discount.Applied{}, false
	}
	return *s.applied, true
}

// ApplyDiscount validates code against the cart's current total and, on
// success, attaches the result, replacing any prior discount. Starting a new
// apply cancels any in-flight validation; a validation that finishes after
// being superseded returns ErrSuperseded and leaves the state alone. Any
// failure leaves a previously applied discount untouched.
func (s *Session) ApplyDiscount(ctx context.Context, v *discount.Validator, code string) (discount.Applied, error) {
	s.mu.Lock()
	s.applySeq++
	seq := s.applySeq
	if s.cancelInFlight != nil {
		s.cancelInFlight()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancelInFlight = cancel
	orderAmount := s.cart.Total()
	s.mu.Unlock()

	applied, err := v.Validate(ctx, code, orderAmount)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.applySeq {
		cancel()
		return discount.Applied{}, ErrSuperseded
	}
	s.cancelInFlight = nil
	cancel()

	if err != nil {
		return discount.Applied{}, err
	}

	s.applied = &applied
	return applied, nil
}

// RemoveDiscount clears the applied discount. Cart changes never trigger this
// implicitly; removal is always an explicit caller action.
func (s *Session) RemoveDiscount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = nil
}

// Manager hands out one session per user, creating it on first use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

func (m *Manager) Get(userID string) *Session {
	s, _ := m.GetOrCreate(userID)
	return s
}

// GetOrCreate reports whether this call created the session, so callers can
// hydrate a fresh one from storage exactly once.
func (m *Manager) GetOrCreate(userID string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[userID]
	m.mu.RUnlock()
	if ok {
		return s, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s, false
	}
	s = New(userID)
	m.sessions[userID] = s
	return s, true
}
