// Package session keeps the live cart/placement instances between requests.
// Carts are volatile by design; only confirmed orders reach Postgres.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/ordering"
)

// Session is one shopper's in-flight order. The embedded mutex serializes
// all mutation of the cart and placement; handlers hold it across a whole
// request.
type Session struct {
	sync.Mutex

	ID        string
	UserID    string
	Cart      *ordering.Cart
	Placement *ordering.OrderPlacement
}

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (st *Store) Create(userID string, cart *ordering.Cart, placement *ordering.OrderPlacement) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Cart:      cart,
		Placement: placement,
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	return s, ok
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}
