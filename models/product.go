package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductActive     ProductStatus = "active"
	ProductInactive   ProductStatus = "inactive"
	ProductOutOfStock ProductStatus = "out_of_stock"
)

// Product 对应数据库中的 products 表
type Product struct {
	ID                uint64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Sku               string          `gorm:"column:sku;type:varchar(32);not null;uniqueIndex:idx_products_sku" json:"sku"`                   // Sku: 分类前缀 + 递增序号，分配后不可变
	CategoryPrefix    string          `gorm:"column:category_prefix;type:varchar(8);not null" json:"category_prefix"`                         // CategoryPrefix: SKU 前缀
	ProductName       string          `gorm:"column:product_name;type:varchar(255);not null" json:"product_name"`                             // ProductName: 商品名称
	Price             decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null" json:"price"`                                          // Price: 售价
	Cost              decimal.Decimal `gorm:"column:cost;type:decimal(12,2);not null" json:"cost"`                                            // Cost: 成本价
	StockQuantity     int             `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`                                 // StockQuantity: 库存，始终 >= 0
	LowStockThreshold int             `gorm:"column:low_stock_threshold;not null;default:5" json:"low_stock_threshold"`                       // LowStockThreshold: 低库存阈值
	Status            ProductStatus   `gorm:"column:status;type:varchar(16);not null;default:active;index:idx_products_status" json:"status"` // Status: active / inactive / out_of_stock
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// IsLowStock 库存降到阈值及以下
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}

// SkuSequence 每个分类前缀一行计数器，只增不减
type SkuSequence struct {
	Prefix    string    `gorm:"primaryKey;column:prefix;type:varchar(8)" json:"prefix"`
	LastValue int64     `gorm:"column:last_value;not null;default:0" json:"last_value"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SkuSequence) TableName() string {
	return "sku_sequences"
}
