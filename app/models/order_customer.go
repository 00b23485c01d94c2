package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderCustomer is the delivery address captured at checkout.
type OrderCustomer struct {
	ID string `gorm:"type:char(36);primaryKey" json:"-"`

	OrderID string `gorm:"type:varchar(36);not null;uniqueIndex" json:"-"`

	FullName  string    `gorm:"type:varchar(100);not null" json:"fullName"`
	Email     string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone     string    `gorm:"type:varchar(15);not null" json:"phone"`
	Address   string    `gorm:"type:text;not null" json:"address"`
	City      string    `gorm:"type:varchar(100);not null" json:"city"`
	State     string    `gorm:"type:varchar(100);not null" json:"state"`
	Pincode   string    `gorm:"type:varchar(6);not null" json:"pincode"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (oc *OrderCustomer) BeforeCreate(tx *gorm.DB) (err error) {
	if oc.ID == "" {
		oc.ID = uuid.New().String()
	}
	return
}

func NewOrderCustomer(form AddressForm) *OrderCustomer {
	return &OrderCustomer{
		FullName: form.FullName,
		Phone:    form.Phone,
		Address:  form.Address,
		City:     form.City,
		State:    form.State,
		Pincode:  form.Pincode,
	}
}
