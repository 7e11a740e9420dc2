package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	CategoryPrefix    string          `json:"category_prefix" binding:"required"`
	ProductName       string          `json:"product_name" binding:"required"`
	Price             decimal.Decimal `json:"price"`
	Cost              decimal.Decimal `json:"cost"`
	Stock             int             `json:"stock"`
	LowStockThreshold *int            `json:"low_stock_threshold"`
}

type Product struct {
	ID                uint64          `json:"id"`
	Sku               string          `json:"sku"`
	ProductName       string          `json:"product_name"`
	Price             decimal.Decimal `json:"price"`
	Cost              decimal.Decimal `json:"cost"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	Status            string          `json:"status"`
}

type AddStockRequest struct {
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Note     string `json:"note"`
}

type AdjustStockRequest struct {
	NewQuantity *int   `json:"new_quantity" binding:"required"`
	Note        string `json:"note"`
}

type LedgerRequest struct {
	Cursor uint64 `form:"cursor"`
	Limit  int    `form:"limit"`
}

type LedgerEntry struct {
	ID            uint64    `json:"id"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	StockAfter    int       `json:"stock_after"`
	ReferenceType string    `json:"reference_type,omitempty"`
	ReferenceID   *uint64   `json:"reference_id,omitempty"`
	ActorID       uint64    `json:"actor_id"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type LedgerResponse struct {
	List       []LedgerEntry `json:"list"`
	NextCursor uint64        `json:"next_cursor"`
	HasMore    bool          `json:"has_more"`
}

// StockDrift 库存与流水合计不一致的商品
type StockDrift struct {
	ProductID   uint64 `json:"product_id"`
	Sku         string `json:"sku"`
	Stock       int    `json:"stock"`
	LedgerTotal int    `json:"ledger_total"`
}
