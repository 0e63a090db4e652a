package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the read-side projection of the orders table used by the
// affiliate context. Orders are owned by the checkout context; this model
// only reads totals and writes back attribution metadata.
type OrderModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderNumber      string          `gorm:"type:varchar(50);uniqueIndex"`
	CustomerEmail    string          `gorm:"type:varchar(255);index"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status           string          `gorm:"type:varchar(20);not null"`
	AffiliateID      *uuid.UUID      `gorm:"type:uuid;index"`
	ClickID          *uuid.UUID      `gorm:"type:uuid"`
	CommissionAmount *decimal.Decimal `gorm:"type:decimal(18,4)"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}
