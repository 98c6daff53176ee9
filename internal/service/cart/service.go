package cart

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	cartstate "onova-storefront/internal/cart"
	"onova-storefront/internal/cartstore"
	"onova-storefront/internal/domain"
)

// Listener observes the cart state of a session after each mutation.
type Listener func(ctx context.Context, sessionID string, state cartstate.State)

const (
	// maxCachedSessions bounds the in-process cache. The store stays
	// authoritative, so an evicted session is reloaded on next touch.
	maxCachedSessions = 4096
	sessionIdleAfter  = 30 * time.Minute
)

// session is one cached cart with its own lock. Mutations and their
// listener notifications run while the lock is held, so snapshots
// reach the store in mutation order.
type session struct {
	mu       sync.Mutex
	state    cartstate.State
	loaded   bool
	evicted  bool
	lastSeen time.Time
}

// Service owns the authoritative cart of every session. All mutation
// flows through the reducer commands; the state a caller gets back is a
// value and cannot be patched in place. Snapshots are written through
// to the store after every mutation (idempotent, at-least-once).
type Service struct {
	store  cartstore.Store
	logger *log.Logger

	mu        sync.Mutex
	sessions  map[string]*session
	listeners []Listener
}

// New wires the provider. A nil store or logger is a wiring bug, not a
// runtime condition, and fails fast.
func New(store cartstore.Store, logger *log.Logger) *Service {
	if store == nil {
		panic("cart: service constructed without a store")
	}
	if logger == nil {
		panic("cart: service constructed without a logger")
	}
	s := &Service{
		store:    store,
		logger:   logger,
		sessions: make(map[string]*session),
	}
	s.Subscribe(s.persist)
	return s
}

// Subscribe registers a listener called with the new state after every
// mutation. Persistence itself runs as the first listener.
func (s *Service) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// AddToCart merges quantity units of the product into the session cart.
func (s *Service) AddToCart(ctx context.Context, sessionID string, snap domain.ProductSnapshot, quantity int) cartstate.State {
	return s.dispatch(ctx, sessionID, cartstate.AddItem{Snapshot: snap, Quantity: quantity})
}

// RemoveFromCart drops the product's line; unknown products are a no-op.
func (s *Service) RemoveFromCart(ctx context.Context, sessionID, productID string) cartstate.State {
	return s.dispatch(ctx, sessionID, cartstate.RemoveItem{ProductID: productID})
}

// UpdateQuantity replaces the quantity of an existing line; zero or
// negative removes it.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) cartstate.State {
	return s.dispatch(ctx, sessionID, cartstate.SetQuantity{ProductID: productID, Quantity: quantity})
}

// ClearCart empties the session cart. The stored snapshot is
// overwritten with the empty cart, not deleted.
func (s *Service) ClearCart(ctx context.Context, sessionID string) cartstate.State {
	return s.dispatch(ctx, sessionID, cartstate.Clear{})
}

// Cart returns the current state, loading the stored snapshot on the
// session's first touch.
func (s *Service) Cart(ctx context.Context, sessionID string) cartstate.State {
	sess := s.acquire(sessionID)
	defer sess.mu.Unlock()
	return s.loadLocked(ctx, sessionID, sess)
}

// ItemQuantity reports how many units of the product the session cart
// holds, zero if absent.
func (s *Service) ItemQuantity(ctx context.Context, sessionID, productID string) int {
	return s.Cart(ctx, sessionID).Quantity(productID)
}

func (s *Service) dispatch(ctx context.Context, sessionID string, cmd cartstate.Command) cartstate.State {
	sess := s.acquire(sessionID)
	defer sess.mu.Unlock()

	current := s.loadLocked(ctx, sessionID, sess)
	next := cartstate.Apply(current, cmd)
	sess.state = next

	// Holding the session lock through notification keeps persisted
	// snapshots in mutation order. A stalled store slows only this
	// session, never its neighbors.
	for _, fn := range s.listenerSnapshot() {
		fn(ctx, sessionID, next)
	}
	return next
}

// acquire returns the session entry with its lock held. An entry
// evicted between lookup and lock is abandoned and the lookup retried.
func (s *Service) acquire(sessionID string) *session {
	for {
		s.mu.Lock()
		sess, ok := s.sessions[sessionID]
		if !ok {
			sess = &session{}
			s.sessions[sessionID] = sess
			if len(s.sessions) > maxCachedSessions {
				s.evictLocked(sessionID)
			}
		}
		sess.lastSeen = time.Now()
		s.mu.Unlock()

		sess.mu.Lock()
		if !sess.evicted {
			return sess
		}
		sess.mu.Unlock()
	}
}

// evictLocked trims the cache: idle sessions first, then the least
// recently seen until the cap holds. A session whose lock is held has
// a mutation in flight and is skipped. Caller holds s.mu.
func (s *Service) evictLocked(keep string) {
	now := time.Now()
	for id, sess := range s.sessions {
		if id == keep || now.Sub(sess.lastSeen) < sessionIdleAfter {
			continue
		}
		if sess.mu.TryLock() {
			sess.evicted = true
			sess.mu.Unlock()
			delete(s.sessions, id)
		}
	}

	for len(s.sessions) > maxCachedSessions {
		var oldestID string
		var oldest *session
		for id, sess := range s.sessions {
			if id == keep {
				continue
			}
			if oldest == nil || sess.lastSeen.Before(oldest.lastSeen) {
				oldestID, oldest = id, sess
			}
		}
		if oldest == nil || !oldest.mu.TryLock() {
			return
		}
		oldest.evicted = true
		oldest.mu.Unlock()
		delete(s.sessions, oldestID)
	}
}

func (s *Service) listenerSnapshot() []Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Listener(nil), s.listeners...)
}

// loadLocked resolves the session's state, restoring from the store on
// first touch. Absent or malformed snapshots fall back to the empty
// cart; the failure is logged and never surfaced. Caller holds sess.mu.
func (s *Service) loadLocked(ctx context.Context, sessionID string, sess *session) cartstate.State {
	if sess.loaded {
		return sess.state
	}

	state := cartstate.Empty()
	payload, err := s.store.Load(ctx, sessionID)
	switch {
	case errors.Is(err, cartstore.ErrNotFound):
		// new session
	case err != nil:
		s.logger.Printf("load cart %s: %v", sessionID, err)
	default:
		snapshot, err := decodeSnapshot(payload)
		if err != nil {
			s.logger.Printf("discard stored cart %s: %v", sessionID, err)
		} else {
			state = cartstate.Apply(state, cartstate.Load{Snapshot: snapshot})
		}
	}

	sess.state = state
	sess.loaded = true
	return state
}

func (s *Service) persist(ctx context.Context, sessionID string, state cartstate.State) {
	payload, err := encodeSnapshot(state)
	if err != nil {
		s.logger.Printf("encode cart %s: %v", sessionID, err)
		return
	}
	if err := s.store.Save(ctx, sessionID, payload); err != nil {
		s.logger.Printf("persist cart %s: %v", sessionID, err)
	}
}
