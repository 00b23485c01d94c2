package services

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/repositories"
	"gorm.io/gorm"
)

// OrderService stores placed orders and reads a user's order history.
type OrderService struct {
	db                *gorm.DB
	orderRepo         repositories.OrderRepository
	orderItemRepo     repositories.OrderItemRepository
	orderCustomerRepo repositories.OrderCustomerRepository
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	orderCustomerRepo repositories.OrderCustomerRepository,
) *OrderService {
	return &OrderService{
		db:                db,
		orderRepo:         orderRepo,
		orderItemRepo:     orderItemRepo,
		orderCustomerRepo: orderCustomerRepo,
	}
}

// PlaceOrder writes the order, its items and its delivery address in one
// transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if err := s.orderItemRepo.BulkCreate(ctx, tx, order.ID, order.OrderItems); err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		if order.Customer != nil {
			if err := s.orderCustomerRepo.Create(ctx, tx, order.ID, order.Customer); err != nil {
				return fmt.Errorf("failed to create order customer: %w", err)
			}
		}
		return nil
	})
}

// OrdersForUser lists a user's orders, newest first.
func (s *OrderService) OrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for user %s: %w", userID, err)
	}
	return orders, nil
}

func (s *OrderService) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return s.orderRepo.FindByNumber(ctx, orderNumber)
}
