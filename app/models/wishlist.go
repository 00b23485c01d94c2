package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WishlistItem struct {
	ID        string    `gorm:"size:36;primaryKey" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_wishlist_user_product" json:"-"`
	ProductID string    `gorm:"size:64;not null;uniqueIndex:idx_wishlist_user_product" json:"productId"`
	Product   *Product  `gorm:"-" json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w *WishlistItem) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return
}
