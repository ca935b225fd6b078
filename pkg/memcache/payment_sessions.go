package mem

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// CheckoutSession carries everything needed to materialize a test request once
// the gateway confirms payment. Sessions are keyed by the generated vnp_TxnRef
// and never shared across accounts.
type CheckoutSession struct {
	PaymentID        uuid.UUID
	AccountID        uuid.UUID
	ServiceID        uuid.UUID
	CollectionMethod string
	Appointment      *time.Time
}

type PaymentSessionStore interface {
	Set(txnRef string, session CheckoutSession, ttl time.Duration)

	// Consume returns the session for txnRef if not expired, and removes it
	// (single-use). The second return is false if missing/expired.
	Consume(txnRef string) (CheckoutSession, bool)

	Peek(txnRef string) (CheckoutSession, bool)

	// Sweep drops every expired session and reports how many were removed.
	Sweep() int
}

type sessionEntry struct {
	session   CheckoutSession
	expiresAt time.Time
}

type PaymentSessions struct {
	mu   sync.RWMutex
	data map[string]sessionEntry
}

func NewPaymentSessions() *PaymentSessions {
	return &PaymentSessions{
		data: make(map[string]sessionEntry),
	}
}

func (s *PaymentSessions) Set(txnRef string, session CheckoutSession, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[txnRef] = sessionEntry{
		session:   session,
		expiresAt: time.Now().Add(ttl),
	}
}

func (s *PaymentSessions) Consume(txnRef string) (CheckoutSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[txnRef]
	if !ok {
		return CheckoutSession{}, false
	}
	delete(s.data, txnRef) // single-use
	if time.Now().After(e.expiresAt) {
		return CheckoutSession{}, false
	}
	return e.session, true
}

func (s *PaymentSessions) Peek(txnRef string) (CheckoutSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[txnRef]
	if !ok || time.Now().After(e.expiresAt) {
		return CheckoutSession{}, false
	}
	return e.session, true
}

func (s *PaymentSessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
			removed++
		}
	}
	return removed
}
