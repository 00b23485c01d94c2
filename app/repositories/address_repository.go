package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/mellomelt/app/models"
	"gorm.io/gorm"
)

var ErrAddressNotFound = errors.New("address not found")

type AddressRepository interface {
	CreateAddress(ctx context.Context, address *models.Address) error
	FindAddressByID(ctx context.Context, userID, id string) (*models.Address, error)
	FindAddressesByUserID(ctx context.Context, userID string) ([]models.Address, error)
	DeleteAddress(ctx context.Context, userID, id string) error
	SetPrimaryAddress(ctx context.Context, userID, addressID string) error
}

type GormAddressRepository struct {
	db *gorm.DB
}

func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// CreateAddress makes the first saved address primary, and demotes the
// others when a new primary one is added.
func (r *GormAddressRepository) CreateAddress(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsPrimary {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ?", address.UserID).
				Update("is_primary", false).Error; err != nil {
				return fmt.Errorf("failed to unset old primary address: %w", err)
			}
		} else {
			var count int64
			if err := tx.Model(&models.Address{}).Where("user_id = ?", address.UserID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to count addresses: %w", err)
			}
			if count == 0 {
				address.IsPrimary = true
			}
		}

		if err := tx.Create(address).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	})
}

func (r *GormAddressRepository) FindAddressByID(ctx context.Context, userID, id string) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).First(&address, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to find address by ID: %w", err)
	}
	return &address, nil
}

func (r *GormAddressRepository) FindAddressesByUserID(ctx context.Context, userID string) ([]models.Address, error) {
	addresses := []models.Address{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("is_primary DESC, created_at DESC").Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to find addresses by user ID: %w", err)
	}
	return addresses, nil
}

func (r *GormAddressRepository) DeleteAddress(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Address{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete address: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (r *GormAddressRepository) SetPrimaryAddress(ctx context.Context, userID, addressID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Address{}).Where("id = ? AND user_id = ?", addressID, userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrAddressNotFound
		}

		if err := tx.Model(&models.Address{}).Where("user_id = ?", userID).Update("is_primary", false).Error; err != nil {
			return fmt.Errorf("failed to unset existing primary addresses: %w", err)
		}
		if err := tx.Model(&models.Address{}).Where("id = ? AND user_id = ?", addressID, userID).Update("is_primary", true).Error; err != nil {
			return fmt.Errorf("failed to set new primary address: %w", err)
		}
		return nil
	})
}
