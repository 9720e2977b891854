package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as plain numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type MenuItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Title       string          `json:"title" gorm:"not null"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,4);not null"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

// Order is created once and never mutated. Item descriptions and prices
// are denormalized copies taken at creation time, so later menu edits do
// not rewrite history.
type Order struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	DinerID     uint        `json:"dinerId" gorm:"index;not null"`
	FranchiseID uint        `json:"franchiseId" gorm:"not null"`
	StoreID     uint        `json:"storeId" gorm:"not null"`
	Items       []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time   `json:"date"`
}

type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     uint            `json:"-" gorm:"index;not null"`
	MenuID      uint            `json:"menuId" gorm:"not null"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,4);not null"`
}
