package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommissionRuleType string

const (
	CommissionPercentage CommissionRuleType = "percentage"
	CommissionFixed      CommissionRuleType = "fixed"
)

// CommissionConfig 佣金规则，同一时刻每个收益人最多一条生效
type CommissionConfig struct {
	ID             uint64             `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID         uint64             `gorm:"not null;index:idx_commission_configs_user;column:user_id" json:"user_id"`
	Type           CommissionRuleType `gorm:"type:varchar(16);not null;column:type" json:"type"`
	Value          decimal.Decimal    `gorm:"type:decimal(12,2);not null;column:value" json:"value"`
	EffectiveFrom  time.Time          `gorm:"not null;column:effective_from" json:"effective_from"`
	EffectiveUntil *time.Time         `gorm:"column:effective_until" json:"effective_until"`
	IsActive       bool               `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedBy      uint64             `gorm:"column:created_by" json:"created_by"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CommissionConfig) TableName() string {
	return "commission_configs"
}

// EffectiveAt 规则在 at 时刻是否生效
func (c *CommissionConfig) EffectiveAt(at time.Time) bool {
	if !c.IsActive || c.EffectiveFrom.After(at) {
		return false
	}
	return c.EffectiveUntil == nil || !c.EffectiveUntil.Before(at)
}

type CommissionType string

const (
	CommissionStaff     CommissionType = "staff"
	CommissionAffiliate CommissionType = "affiliate"
)

type CommissionStatus string

const (
	CommissionPending  CommissionStatus = "pending"
	CommissionApproved CommissionStatus = "approved"
	CommissionPaid     CommissionStatus = "paid"
	CommissionRejected CommissionStatus = "rejected"
)

// CommissionTransaction 佣金流水，每个 (订单, 收益人, 类型) 一条，金额创建后冻结
type CommissionTransaction struct {
	ID             uint64             `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID         uint64             `gorm:"not null;uniqueIndex:idx_commission_tx_unique,priority:2;index:idx_commission_tx_user;column:user_id" json:"user_id"`
	OrderID        uint64             `gorm:"not null;uniqueIndex:idx_commission_tx_unique,priority:1;column:order_id" json:"order_id"`
	CommissionType CommissionType     `gorm:"type:varchar(16);not null;uniqueIndex:idx_commission_tx_unique,priority:3;column:commission_type" json:"commission_type"`
	RuleType       CommissionRuleType `gorm:"type:varchar(16);not null;column:rule_type" json:"rule_type"`
	RuleValue      decimal.Decimal    `gorm:"type:decimal(12,2);not null;column:rule_value" json:"rule_value"`
	OrderTotal     decimal.Decimal    `gorm:"type:decimal(12,2);not null;column:order_total" json:"order_total"`
	Amount         decimal.Decimal    `gorm:"type:decimal(12,2);not null;column:amount" json:"amount"`
	Status         CommissionStatus   `gorm:"type:varchar(16);not null;index:idx_commission_tx_status;column:status" json:"status"`
	ApprovedBy     *uint64            `gorm:"column:approved_by" json:"approved_by,omitempty"`
	ApprovedAt     *time.Time         `gorm:"column:approved_at" json:"approved_at,omitempty"`
	PaidBy         *uint64            `gorm:"column:paid_by" json:"paid_by,omitempty"`
	PaidAt         *time.Time         `gorm:"column:paid_at" json:"paid_at,omitempty"`
	RejectedAt     *time.Time         `gorm:"column:rejected_at" json:"rejected_at,omitempty"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CommissionTransaction) TableName() string {
	return "commission_transactions"
}
