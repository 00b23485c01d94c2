package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is a delivery address saved to a user's account.
type Address struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"-"`
	FullName  string    `gorm:"type:varchar(100);not null" json:"fullName"`
	Phone     string    `gorm:"type:varchar(15);not null" json:"phone"`
	Address   string    `gorm:"type:text;not null" json:"address"`
	City      string    `gorm:"type:varchar(100);not null" json:"city"`
	State     string    `gorm:"type:varchar(100);not null" json:"state"`
	Pincode   string    `gorm:"type:varchar(6);not null" json:"pincode"`
	IsPrimary bool      `gorm:"default:false" json:"isPrimary"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

func (a Address) Form() AddressForm {
	return AddressForm{
		FullName: a.FullName,
		Phone:    a.Phone,
		Address:  a.Address,
		City:     a.City,
		State:    a.State,
		Pincode:  a.Pincode,
	}
}
