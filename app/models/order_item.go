package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem copies name and price from the cart snapshot so later catalog
// changes never alter a placed order.
type OrderItem struct {
	ID          string          `gorm:"primaryKey;type:varchar(36);not null;uniqueIndex" json:"id"`
	OrderID     string          `gorm:"type:varchar(36);not null;index" json:"orderId"`
	ProductID   string          `gorm:"type:varchar(64);not null;index" json:"productId"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"productName"`
	Qty         int             `gorm:"not null" json:"qty"`
	Price       decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price"`
	MRP         decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"mrp"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"lineTotal"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if oi.ID == "" {
		oi.ID = uuid.New().String()
	}
	return
}
