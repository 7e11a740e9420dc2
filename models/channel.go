package models

import (
	"time"

	"gorm.io/datatypes"
)

// SalesChannel 销售渠道：自营站点或外部平台
type SalesChannel struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name        string         `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Type        string         `gorm:"column:type;type:varchar(32);not null;uniqueIndex:idx_sales_channels_type" json:"type"` // website / shopee / tokopedia ...
	Credentials datatypes.JSON `gorm:"column:credentials" json:"-"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastSyncAt  *time.Time     `gorm:"column:last_sync_at" json:"last_sync_at"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SalesChannel) TableName() string {
	return "sales_channels"
}

type WebhookStatus string

const (
	WebhookReceived  WebhookStatus = "received"
	WebhookSucceeded WebhookStatus = "succeeded"
	WebhookDuplicate WebhookStatus = "duplicate"
	WebhookFailed    WebhookStatus = "failed"
)

// WebhookLog 外部平台推单原文及处理结果，用于审计排查
type WebhookLog struct {
	ID              uint64         `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Marketplace     string         `gorm:"column:marketplace;type:varchar(32);not null;index:idx_webhook_logs_marketplace" json:"marketplace"`
	ExternalOrderID string         `gorm:"column:external_order_id;type:varchar(64)" json:"external_order_id"`
	Payload         datatypes.JSON `gorm:"column:payload" json:"payload"`
	Status          WebhookStatus  `gorm:"column:status;type:varchar(16);not null" json:"status"`
	OrderID         *uint64        `gorm:"column:order_id" json:"order_id,omitempty"`
	Error           string         `gorm:"column:error;type:varchar(512)" json:"error"`
	SkippedSkus     datatypes.JSON `gorm:"column:skipped_skus" json:"skipped_skus"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (WebhookLog) TableName() string {
	return "webhook_logs"
}
