package migrations

import (
	"github.com/Rakhulsr/mellomelt/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Address{}, &models.Order{}, &models.OrderItem{}, &models.OrderCustomer{}, &models.ContactMessage{}, &models.WishlistItem{}, &models.StoredCart{})
}
