package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

type UpsertInput struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	City       string
	PostalCode string
}

type CustomerResponse struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	PostalCode  string          `json:"postal_code"`
	TotalOrders int             `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toResponse(c *CustomerModel) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		City:        c.City,
		PostalCode:  c.PostalCode,
		TotalOrders: c.TotalOrders,
		TotalSpent:  c.TotalSpent,
		CreatedAt:   c.CreatedAt,
	}
}
