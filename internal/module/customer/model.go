package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

type CustomerModel struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"size:128;not null"`
	Email       string          `gorm:"uniqueIndex:idx_customers_email;size:255;not null"`
	Phone       string          `gorm:"size:32"`
	Address     string          `gorm:"size:512"`
	City        string          `gorm:"size:64"`
	PostalCode  string          `gorm:"size:16"`
	TotalOrders int             `gorm:"not null;default:0"`
	TotalSpent  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CustomerModel) TableName() string {
	return "customers"
}
