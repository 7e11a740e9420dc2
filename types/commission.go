package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type SetCommissionConfigRequest struct {
	UserID         uint64          `json:"user_id" binding:"required"`
	Type           string          `json:"type" binding:"required,oneof=percentage fixed"`
	Value          decimal.Decimal `json:"value"`
	EffectiveFrom  *time.Time      `json:"effective_from"`
	EffectiveUntil *time.Time      `json:"effective_until"`
}

type ListCommissionsRequest struct {
	UserID  uint64 `form:"user_id"`
	OrderID uint64 `form:"order_id"`
	Status  string `form:"status"`
	Cursor  uint64 `form:"cursor"`
	Limit   int    `form:"limit"`
}

type Commission struct {
	ID             uint64          `json:"id"`
	UserID         uint64          `json:"user_id"`
	OrderID        uint64          `json:"order_id"`
	CommissionType string          `json:"commission_type"`
	RuleType       string          `json:"rule_type"`
	RuleValue      decimal.Decimal `json:"rule_value"`
	OrderTotal     decimal.Decimal `json:"order_total"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	ApprovedBy     *uint64         `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time      `json:"approved_at,omitempty"`
	PaidBy         *uint64         `json:"paid_by,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type ListCommissionsResponse struct {
	List       []Commission `json:"list"`
	NextCursor uint64       `json:"next_cursor"`
	HasMore    bool         `json:"has_more"`
}
