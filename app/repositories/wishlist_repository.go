package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/mellomelt/app/models"
	"gorm.io/gorm"
)

var ErrWishlistItemNotFound = errors.New("wishlist item not found")

type WishlistRepository interface {
	FindByUserID(ctx context.Context, userID string) ([]models.WishlistItem, error)
	Add(ctx context.Context, userID, productID string) (*models.WishlistItem, error)
	Remove(ctx context.Context, userID, productID string) error
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) FindByUserID(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	items := []models.WishlistItem{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error
	return items, err
}

// Add is idempotent: adding a product twice returns the existing entry.
func (r *wishlistRepository) Add(ctx context.Context, userID, productID string) (*models.WishlistItem, error) {
	item := models.WishlistItem{UserID: userID, ProductID: productID}
	err := r.db.WithContext(ctx).
		Where(models.WishlistItem{UserID: userID, ProductID: productID}).
		FirstOrCreate(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, productID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.WishlistItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWishlistItemNotFound
	}
	return nil
}
