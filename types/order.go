package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ProductID uint64 `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type ShippingInfo struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

type CreateOrderRequest struct {
	Items         []CartItem      `json:"items" binding:"required,min=1,dive"`
	CustomerID    uint64          `json:"customer_id" binding:"required"`
	ChannelID     uint64          `json:"channel_id"`
	Shipping      ShippingInfo    `json:"shipping"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	Discount      decimal.Decimal `json:"discount"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	AffiliateID   *uint64         `json:"affiliate_id"`
	Notes         string          `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
	Courier        string `json:"courier"`
	Reason         string `json:"reason"`
	Notes          string `json:"notes"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

type ListOrdersRequest struct {
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	CustomerID    uint64 `form:"customer_id"`
	ChannelID     uint64 `form:"channel_id"`
	Cursor        uint64 `form:"cursor"`
	Limit         int    `form:"limit"`
}

type OrderItem struct {
	ID          uint64          `json:"id"`
	ProductID   uint64          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSku  string          `json:"product_sku"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Profit      decimal.Decimal `json:"profit,omitempty"`
}

type Order struct {
	ID                  uint64          `json:"id"`
	OrderSn             string          `json:"order_sn"`
	CustomerID          uint64          `json:"customer_id"`
	ChannelID           uint64          `json:"channel_id"`
	ExternalOrderID     string          `json:"external_order_id,omitempty"`
	StaffID             *uint64         `json:"staff_id,omitempty"`
	AffiliateID         *uint64         `json:"affiliate_id,omitempty"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Discount            decimal.Decimal `json:"discount"`
	ShippingFee         decimal.Decimal `json:"shipping_fee"`
	Tax                 decimal.Decimal `json:"tax"`
	Total               decimal.Decimal `json:"total"`
	StaffCommission     decimal.Decimal `json:"staff_commission"`
	AffiliateCommission decimal.Decimal `json:"affiliate_commission"`
	Status              string          `json:"status"`
	PaymentStatus       string          `json:"payment_status"`
	PaymentMethod       string          `json:"payment_method"`
	Shipping            ShippingInfo    `json:"shipping"`
	Courier             string          `json:"courier,omitempty"`
	TrackingNumber      string          `json:"tracking_number,omitempty"`
	CancelReason        string          `json:"cancel_reason,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	PaidAt              *time.Time      `json:"paid_at,omitempty"`
	ConfirmedAt         *time.Time      `json:"confirmed_at,omitempty"`
	PackedAt            *time.Time      `json:"packed_at,omitempty"`
	ShippedAt           *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt         *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt         *time.Time      `json:"cancelled_at,omitempty"`
	RefundedAt          *time.Time      `json:"refunded_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	Items               []OrderItem     `json:"items,omitempty"`
}

type ListOrdersResponse struct {
	List       []*Order `json:"list"`
	NextCursor uint64   `json:"next_cursor"`
	HasMore    bool     `json:"has_more"`
}
