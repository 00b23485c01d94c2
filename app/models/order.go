package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

type Order struct {
	ID          string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID      *string   `gorm:"size:36;index" json:"userId,omitempty"`
	OrderNumber string    `gorm:"type:varchar(32);unique;not null" json:"orderNumber"`
	OrderDate   time.Time `gorm:"not null" json:"orderDate"`

	OrderItems  []OrderItem     `json:"items"`
	Customer    *OrderCustomer  `gorm:"foreignKey:OrderID" json:"customer,omitempty"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(16,2);" json:"subtotal"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(16,2);" json:"tax"`
	TaxPercent  decimal.Decimal `gorm:"type:decimal(10,2);" json:"taxPercent"`
	ShippingFee decimal.Decimal `gorm:"type:decimal(16,2);" json:"shippingFee"`
	CODFee      decimal.Decimal `gorm:"type:decimal(16,2);" json:"codFee"`
	Total       decimal.Decimal `gorm:"type:decimal(16,2);" json:"total"`

	PaymentMethod  string `gorm:"size:20;not null" json:"paymentMethod"`
	PaymentStatus  string `gorm:"size:20;default:'pending'" json:"paymentStatus"`
	Status         string `gorm:"size:20;default:'pending'" json:"status"`
	TrackingNumber string `gorm:"size:100" json:"trackingNumber,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}
