package repositories

import (
	"context"

	"github.com/Rakhulsr/mellomelt/app/models"
	"gorm.io/gorm"
)

type OrderItemRepository interface {
	BulkCreate(ctx context.Context, tx *gorm.DB, orderID string, items []models.OrderItem) error
}

type orderItemRepository struct{}

func NewOrderItemRepository() OrderItemRepository {
	return &orderItemRepository{}
}

func (r *orderItemRepository) BulkCreate(ctx context.Context, tx *gorm.DB, orderID string, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	return tx.WithContext(ctx).Create(&items).Error
}
