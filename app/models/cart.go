package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartSnapshot is an immutable copy of the cart handed to listeners and
// rendered by the API. Totals are computed when the snapshot is taken.
type CartSnapshot struct {
	Lines         []CartLine      `json:"items"`
	IsOpen        bool            `json:"isOpen"`
	DistinctItems int             `json:"distinctItems"`
	TotalItems    int             `json:"totalItems"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Version       uint64          `json:"version"`
}

func (s CartSnapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// StoredCart is one row of the durable key-value cart storage.
type StoredCart struct {
	Key       string `gorm:"column:cart_key;size:191;primaryKey"`
	Payload   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (StoredCart) TableName() string {
	return "cart_snapshots"
}
