package models

import "time"

type InventoryTxType string

const (
	InventorySale       InventoryTxType = "sale"
	InventoryPurchase   InventoryTxType = "purchase"
	InventoryAdjustment InventoryTxType = "adjustment"
	InventoryReturn     InventoryTxType = "return"
)

// InventoryTransaction 库存流水，只追加不修改
type InventoryTransaction struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ProductID     uint64          `gorm:"not null;index:idx_inventory_tx_product;column:product_id" json:"product_id"`
	Type          InventoryTxType `gorm:"type:varchar(16);not null;column:type" json:"type"`
	Quantity      int             `gorm:"not null;column:quantity" json:"quantity"`                     // 带符号变动量，出库为负
	StockAfter    int             `gorm:"not null;column:stock_after" json:"stock_after"`
	ReferenceType string          `gorm:"type:varchar(16);column:reference_type" json:"reference_type"` // order / manual
	ReferenceID   *uint64         `gorm:"column:reference_id;index:idx_inventory_tx_ref" json:"reference_id,omitempty"`
	ActorID       uint64          `gorm:"column:actor_id" json:"actor_id"`
	Note          string          `gorm:"type:varchar(255);column:note" json:"note"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}
