package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/repositories"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartStorageKey is the key every cart is persisted under. Storage
// implementations scope it per session.
const CartStorageKey = "mellomelt-cart"

const persistTimeout = 5 * time.Second

// ErrCartNotRestored is reported by PersistWarning while the stored cart is
// unreadable and changes are kept in memory only.
var ErrCartNotRestored = errors.New("stored cart could not be restored; changes are not saved yet")

// CartListener receives the cart state after every change.
type CartListener func(models.CartSnapshot)

// CartStore owns one session's cart. Every line mutation is written through
// to storage before the call returns; a failed write leaves the store
// working in memory and is reported by PersistWarning.
type CartStore struct {
	mu      sync.Mutex
	lines   []models.CartLine
	isOpen  bool
	version uint64

	storage    repositories.CartStorage
	catalog    repositories.ProductRepositoryImpl
	logger     *zap.Logger
	persistErr error
	// unrestored is set while the stored cart could not be read. Writes are
	// held back until a later Load succeeds so the stored lines survive.
	unrestored bool
	restored   bool

	listeners    map[uint64]CartListener
	nextListener uint64
}

// CartOption configures a CartStore at construction.
type CartOption func(*CartStore)

// WithCatalog makes Load refresh stored products from the catalog and drop
// lines whose product no longer exists.
func WithCatalog(catalog repositories.ProductRepositoryImpl) CartOption {
	return func(s *CartStore) { s.catalog = catalog }
}

func NewCartStore(storage repositories.CartStorage, logger *zap.Logger, opts ...CartOption) *CartStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CartStore{
		storage:   storage,
		logger:    logger,
		listeners: make(map[uint64]CartListener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory lines with what storage holds. A read or
// decode failure keeps the current lines and is returned.
func (s *CartStore) Load(ctx context.Context) error {
	_, err := s.load(ctx)
	return err
}

// Reload re-reads storage after an external change and notifies listeners.
// Stored state wins; nothing is merged.
func (s *CartStore) Reload(ctx context.Context) (models.CartSnapshot, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return snap, err
	}
	s.notify(snap)
	return snap, nil
}

func (s *CartStore) load(ctx context.Context) (models.CartSnapshot, error) {
	payload, ok, err := s.storage.Get(ctx, CartStorageKey)
	if err != nil {
		s.logger.Warn("CartStore.Load: storage read failed", zap.Error(err))
		s.mu.Lock()
		if !s.restored {
			s.unrestored = true
		}
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, fmt.Errorf("read cart: %w", err)
	}

	var lines []models.CartLine
	if ok && payload != "" {
		if err := json.Unmarshal([]byte(payload), &lines); err != nil {
			s.logger.Warn("CartStore.Load: stored cart is corrupt", zap.Error(err))
			s.mu.Lock()
			s.unrestored = false
			s.restored = true
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap, fmt.Errorf("decode cart: %w", err)
		}
	}
	lines = s.sanitize(ctx, lines)

	s.mu.Lock()
	pending := s.unrestored && len(s.lines) > 0
	if pending {
		lines = mergeLines(lines, s.lines)
	}
	s.unrestored = false
	s.restored = true
	s.lines = lines
	s.version++
	if pending {
		s.persistLocked(ctx)
	} else if errors.Is(s.persistErr, ErrCartNotRestored) {
		s.persistErr = nil
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	return snap, nil
}

// mergeLines adds the quantities in extra onto stored, appending products
// stored does not have.
func mergeLines(stored, extra []models.CartLine) []models.CartLine {
	out := append([]models.CartLine(nil), stored...)
	for _, e := range extra {
		found := false
		for i := range out {
			if out[i].Product.ID == e.Product.ID {
				out[i].Quantity += e.Quantity
				found = true
				break
			}
		}
		if !found {
			out = append(out, e)
		}
	}
	return out
}

// sanitize drops non-positive quantities, merges duplicate products and,
// when a catalog is attached, refreshes product data.
func (s *CartStore) sanitize(ctx context.Context, lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 || l.Product.ID == "" {
			continue
		}
		if s.catalog != nil {
			p, err := s.catalog.GetByID(ctx, l.Product.ID)
			if err != nil {
				s.logger.Info("CartStore.Load: dropping unknown product", zap.String("product_id", l.Product.ID))
				continue
			}
			l.Product = *p
		}
		if i, dup := index[l.Product.ID]; dup {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.Product.ID] = len(out)
		out = append(out, l)
	}
	return out
}

// AddToCart increments an existing line or appends a new one. Quantities
// below one are treated as one.
func (s *CartStore) AddToCart(ctx context.Context, product models.Product, quantity int) models.CartSnapshot {
	if quantity < 1 {
		quantity = 1
	}
	return s.mutate(ctx, func() bool {
		for i := range s.lines {
			if s.lines[i].Product.ID == product.ID {
				s.lines[i].Quantity += quantity
				return true
			}
		}
		s.lines = append(s.lines, models.CartLine{Product: product, Quantity: quantity})
		return true
	})
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
// Unknown products are ignored.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID string, quantity int) models.CartSnapshot {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, productID)
	}
	return s.mutate(ctx, func() bool {
		for i := range s.lines {
			if s.lines[i].Product.ID == productID {
				if s.lines[i].Quantity == quantity {
					return false
				}
				s.lines[i].Quantity = quantity
				return true
			}
		}
		return false
	})
}

func (s *CartStore) RemoveFromCart(ctx context.Context, productID string) models.CartSnapshot {
	return s.mutate(ctx, func() bool {
		for i := range s.lines {
			if s.lines[i].Product.ID == productID {
				s.lines = append(s.lines[:i:i], s.lines[i+1:]...)
				return true
			}
		}
		return false
	})
}

func (s *CartStore) ClearCart(ctx context.Context) models.CartSnapshot {
	return s.mutate(ctx, func() bool {
		if len(s.lines) == 0 {
			return false
		}
		s.lines = nil
		return true
	})
}

// Deduct subtracts the given quantities, removing lines that reach zero.
// Lines added after the given ones were captured are left alone.
func (s *CartStore) Deduct(ctx context.Context, submitted []models.CartLine) models.CartSnapshot {
	return s.mutate(ctx, func() bool { return s.deductLocked(submitted) })
}

// Settle removes an ordered snapshot from the cart in one step: the cart is
// cleared when it is still at version, otherwise only the submitted
// quantities are deducted.
func (s *CartStore) Settle(ctx context.Context, submitted []models.CartLine, version uint64) models.CartSnapshot {
	return s.mutate(ctx, func() bool {
		if s.version != version {
			return s.deductLocked(submitted)
		}
		if len(s.lines) == 0 {
			return false
		}
		s.lines = nil
		return true
	})
}

func (s *CartStore) deductLocked(submitted []models.CartLine) bool {
	changed := false
	for _, sub := range submitted {
		for i := range s.lines {
			if s.lines[i].Product.ID != sub.Product.ID {
				continue
			}
			s.lines[i].Quantity -= sub.Quantity
			if s.lines[i].Quantity <= 0 {
				s.lines = append(s.lines[:i:i], s.lines[i+1:]...)
			}
			changed = true
			break
		}
	}
	return changed
}

// SetIsCartOpen toggles the overlay flag. It is never persisted and does not
// change the version.
func (s *CartStore) SetIsCartOpen(open bool) models.CartSnapshot {
	s.mu.Lock()
	changed := s.isOpen != open
	s.isOpen = open
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if changed {
		s.notify(snap)
	}
	return snap
}

// Discard removes the persisted cart and empties the store. Used on logout.
func (s *CartStore) Discard(ctx context.Context) error {
	s.mu.Lock()
	s.lines = nil
	s.isOpen = false
	s.version++
	err := s.storage.Remove(ctx, CartStorageKey)
	if err == nil {
		s.unrestored = false
		s.restored = true
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	if err != nil {
		return fmt.Errorf("remove stored cart: %w", err)
	}
	return nil
}

func (s *CartStore) mutate(ctx context.Context, apply func() bool) models.CartSnapshot {
	s.mu.Lock()
	if !apply() {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.version++
	s.persistLocked(ctx)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

func (s *CartStore) persistLocked(ctx context.Context) {
	if s.unrestored {
		if !errors.Is(s.persistErr, ErrCartNotRestored) {
			s.logger.Warn("CartStore.persist: stored cart not restored, keeping changes in memory")
		}
		s.persistErr = ErrCartNotRestored
		return
	}
	lines := s.lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	payload, err := json.Marshal(lines)
	if err == nil {
		// Written even when the request has gone away.
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
		err = s.storage.Set(writeCtx, CartStorageKey, string(payload))
		cancel()
	}
	if err != nil {
		if s.persistErr == nil {
			s.logger.Warn("CartStore.persist: storage write failed, continuing in memory", zap.Error(err))
		}
		s.persistErr = err
		return
	}
	s.persistErr = nil
}

// Restored reports whether storage has been read, successfully or past an
// unreadable payload, since the store was created.
func (s *CartStore) Restored() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restored
}

// PersistWarning returns the last storage write error, or nil once a later
// write succeeds.
func (s *CartStore) PersistWarning() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

func (s *CartStore) Snapshot() models.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *CartStore) snapshotLocked() models.CartSnapshot {
	lines := make([]models.CartLine, len(s.lines))
	copy(lines, s.lines)
	return models.CartSnapshot{
		Lines:         lines,
		IsOpen:        s.isOpen,
		DistinctItems: len(lines),
		TotalItems:    totalItems(lines),
		TotalPrice:    totalPrice(lines),
		Version:       s.version,
	}
}

func (s *CartStore) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.lines)
}

func (s *CartStore) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.lines)
}

func (s *CartStore) DistinctItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

func (s *CartStore) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Subscribe registers l for every change and returns its unsubscribe func.
// Listeners run on the mutating goroutine, outside the store lock.
func (s *CartStore) Subscribe(l CartListener) func() {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *CartStore) notify(snap models.CartSnapshot) {
	s.mu.Lock()
	ls := make([]CartListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.mu.Unlock()

	for _, l := range ls {
		l(snap)
	}
}

func totalItems(lines []models.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func totalPrice(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

var ErrOutOfStock = errors.New("product is out of stock")

// CartService resolves catalog ids before they reach a CartStore.
type CartService struct {
	catalog repositories.ProductRepositoryImpl
}

func NewCartService(catalog repositories.ProductRepositoryImpl) *CartService {
	return &CartService{catalog: catalog}
}

// AddItem adds a catalog product by id. Unknown products fail with
// repositories.ErrProductNotFound and unavailable ones with ErrOutOfStock.
func (s *CartService) AddItem(ctx context.Context, cart *CartStore, productID string, quantity int) (models.CartSnapshot, error) {
	product, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return cart.Snapshot(), fmt.Errorf("add %s to cart: %w", productID, err)
	}
	if !product.InStock {
		return cart.Snapshot(), fmt.Errorf("add %s to cart: %w", productID, ErrOutOfStock)
	}
	return cart.AddToCart(ctx, *product, quantity), nil
}
