package services

import (
	"context"
	"sync"
	"time"

	"github.com/Rakhulsr/mellomelt/app/repositories"
	"go.uber.org/zap"
)

const (
	DefaultIdleTTL = 30 * time.Minute
	restoreTimeout = 5 * time.Second
)

// StorageFactory returns the cart storage for one session.
type StorageFactory func(sessionID string) repositories.CartStorage

// Session is one browser's cart and checkout.
type Session struct {
	ID       string
	Cart     *CartStore
	Checkout *Checkout

	loadMu   sync.Mutex
	lastSeen time.Time
}

// SessionRegistry owns every live session. A session is created and loaded
// from storage on first use and evicted after idleTTL without requests.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	storage  StorageFactory
	catalog  repositories.ProductRepositoryImpl
	checkout CheckoutConfig
	idleTTL  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewSessionRegistry(storage StorageFactory, catalog repositories.ProductRepositoryImpl, checkout CheckoutConfig, idleTTL time.Duration, logger *zap.Logger) *SessionRegistry {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if checkout.Logger == nil {
		checkout.Logger = logger
	}
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		storage:  storage,
		catalog:  catalog,
		checkout: checkout,
		idleTTL:  idleTTL,
		now:      time.Now,
		logger:   logger,
	}
}

// Get returns the session for id, creating it and restoring its cart on
// first use. A failed restore is retried on the next Get; meanwhile the
// cart works in memory and does not overwrite what is stored.
func (r *SessionRegistry) Get(ctx context.Context, id string) *Session {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok {
		var opts []CartOption
		if r.catalog != nil {
			opts = append(opts, WithCatalog(r.catalog))
		}
		cart := NewCartStore(r.storage(id), r.logger.With(zap.String("session_id", id)), opts...)
		s = &Session{
			ID:       id,
			Cart:     cart,
			Checkout: NewCheckout(cart, r.checkout),
		}
		r.sessions[id] = s
	}
	s.lastSeen = r.now()
	r.mu.Unlock()

	s.loadMu.Lock()
	if !s.Cart.Restored() {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), restoreTimeout)
		if err := s.Cart.Load(loadCtx); err != nil {
			r.logger.Warn("SessionRegistry.Get: cart restore failed, will retry",
				zap.String("session_id", id), zap.Error(err))
		}
		cancel()
	}
	s.loadMu.Unlock()
	return s
}

// Teardown drops the session and its persisted cart. Used on logout.
func (r *SessionRegistry) Teardown(ctx context.Context, id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		return s.Cart.Discard(ctx)
	}
	return r.storage(id).Remove(ctx, CartStorageKey)
}

// Sweep evicts sessions idle for longer than the TTL. Sessions with an
// order submission in flight are kept. It returns the number evicted.
func (r *SessionRegistry) Sweep() int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, s := range r.sessions {
		if s.lastSeen.After(cutoff) || s.Checkout.Submitting() {
			continue
		}
		delete(r.sessions, id)
		evicted++
	}
	return evicted
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run sweeps on every tick until ctx is done.
func (r *SessionRegistry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Info("SessionRegistry.Run: evicted idle sessions", zap.Int("count", n), zap.Int("live", r.Len()))
			}
		}
	}
}
