package repositories

import (
	"context"
	"errors"
	"sync"

	"github.com/Rakhulsr/mellomelt/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartStorage is the durable key-value port behind a cart store. Get reports
// ok=false when nothing is stored under key.
type CartStorage interface {
	Get(ctx context.Context, key string) (payload string, ok bool, err error)
	Set(ctx context.Context, key, payload string) error
	Remove(ctx context.Context, key string) error
}

type cartRepository struct {
	db    *gorm.DB
	scope string
}

// NewCartRepository returns storage whose keys are namespaced by scope,
// normally the cart session id, so every browser gets its own row.
func NewCartRepository(db *gorm.DB, scope string) CartStorage {
	return &cartRepository{db: db, scope: scope}
}

func (r *cartRepository) rowKey(key string) string {
	return r.scope + ":" + key
}

func (r *cartRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var row models.StoredCart
	err := r.db.WithContext(ctx).Where("cart_key = ?", r.rowKey(key)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Payload, true, nil
}

func (r *cartRepository) Set(ctx context.Context, key, payload string) error {
	row := models.StoredCart{Key: r.rowKey(key), Payload: payload}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&row).Error
}

func (r *cartRepository) Remove(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("cart_key = ?", r.rowKey(key)).Delete(&models.StoredCart{}).Error
}

// MemoryCartStorage keeps payloads in a map. FailWrites, when set, is
// returned from Set and Remove, and FailReads from Get, to simulate an
// unavailable backend.
type MemoryCartStorage struct {
	mu         sync.Mutex
	data       map[string]string
	FailWrites error
	FailReads  error
}

func NewMemoryCartStorage() *MemoryCartStorage {
	return &MemoryCartStorage{data: make(map[string]string)}
}

func (m *MemoryCartStorage) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads != nil {
		return "", false, m.FailReads
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryCartStorage) Set(ctx context.Context, key, payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.data[key] = payload
	return nil
}

func (m *MemoryCartStorage) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	delete(m.data, key)
	return nil
}

// SetFailure toggles simulated write failures.
func (m *MemoryCartStorage) SetFailure(err error) {
	m.mu.Lock()
	m.FailWrites = err
	m.mu.Unlock()
}

// SetReadFailure toggles simulated read failures.
func (m *MemoryCartStorage) SetReadFailure(err error) {
	m.mu.Lock()
	m.FailReads = err
	m.mu.Unlock()
}
