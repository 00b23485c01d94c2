package repositories

import (
	"context"

	"github.com/Rakhulsr/mellomelt/app/models"
	"gorm.io/gorm"
)

type OrderCustomerRepository interface {
	Create(ctx context.Context, tx *gorm.DB, orderID string, customer *models.OrderCustomer) error
}

type orderCustomerRepository struct{}

func NewOrderCustomerRepository() OrderCustomerRepository {
	return &orderCustomerRepository{}
}

func (r *orderCustomerRepository) Create(ctx context.Context, tx *gorm.DB, orderID string, customer *models.OrderCustomer) error {
	customer.OrderID = orderID
	return tx.WithContext(ctx).Create(customer).Error
}
