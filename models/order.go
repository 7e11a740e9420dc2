package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderPacked     OrderStatus = "packed"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// PaymentCOD 货到付款，外部订单只有该方式初始为未支付
const PaymentCOD = "cod"

// Order 订单主表
type Order struct {
	ID                  uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderSn             string          `gorm:"column:order_sn;type:varchar(48);not null;uniqueIndex:idx_order_sn" json:"order_sn"`
	CustomerID          uint64          `gorm:"column:customer_id;not null;index:idx_orders_customer" json:"customer_id"`
	ChannelID           uint64          `gorm:"column:channel_id;not null;uniqueIndex:idx_orders_channel_external,priority:1" json:"channel_id"`
	ExternalOrderID     *string         `gorm:"column:external_order_id;type:varchar(64);uniqueIndex:idx_orders_channel_external,priority:2" json:"external_order_id,omitempty"`
	StaffID             *uint64         `gorm:"column:staff_id;index:idx_orders_staff" json:"staff_id,omitempty"`
	AffiliateID         *uint64         `gorm:"column:affiliate_id;index:idx_orders_affiliate" json:"affiliate_id,omitempty"`
	Subtotal            decimal.Decimal `gorm:"column:subtotal;type:decimal(12,2);not null" json:"subtotal"`
	Discount            decimal.Decimal `gorm:"column:discount;type:decimal(12,2);not null" json:"discount"`
	ShippingFee         decimal.Decimal `gorm:"column:shipping_fee;type:decimal(12,2);not null" json:"shipping_fee"`
	Tax                 decimal.Decimal `gorm:"column:tax;type:decimal(12,2);not null" json:"tax"`
	Total               decimal.Decimal `gorm:"column:total;type:decimal(12,2);not null" json:"total"`
	TotalProfit         decimal.Decimal `gorm:"column:total_profit;type:decimal(12,2);not null" json:"total_profit"`
	StaffCommission     decimal.Decimal `gorm:"column:staff_commission;type:decimal(12,2);not null" json:"staff_commission"`         // 冗余：staff 类型佣金流水金额之和
	AffiliateCommission decimal.Decimal `gorm:"column:affiliate_commission;type:decimal(12,2);not null" json:"affiliate_commission"` // 冗余：affiliate 类型佣金流水金额之和
	Status              OrderStatus     `gorm:"column:status;type:varchar(16);not null;index:idx_orders_status" json:"status"`
	PaymentStatus       PaymentStatus   `gorm:"column:payment_status;type:varchar(16);not null" json:"payment_status"`
	PaymentMethod       string          `gorm:"column:payment_method;type:varchar(32)" json:"payment_method"`
	ShippingName        string          `gorm:"column:shipping_name;type:varchar(128)" json:"shipping_name"`
	ShippingPhone       string          `gorm:"column:shipping_phone;type:varchar(32)" json:"shipping_phone"`
	ShippingAddress     string          `gorm:"column:shipping_address;type:varchar(512)" json:"shipping_address"`
	ShippingCity        string          `gorm:"column:shipping_city;type:varchar(64)" json:"shipping_city"`
	ShippingPostalCode  string          `gorm:"column:shipping_postal_code;type:varchar(16)" json:"shipping_postal_code"`
	Courier             string          `gorm:"column:courier;type:varchar(64)" json:"courier"`
	TrackingNumber      string          `gorm:"column:tracking_number;type:varchar(64)" json:"tracking_number"`
	Notes               string          `gorm:"column:notes;type:varchar(512)" json:"notes"`
	CancelReason        string          `gorm:"column:cancel_reason;type:varchar(255)" json:"cancel_reason"`
	CreatedBy           uint64          `gorm:"column:created_by" json:"created_by"`
	PaidAt              *time.Time      `gorm:"column:paid_at" json:"paid_at"`
	ConfirmedAt         *time.Time      `gorm:"column:confirmed_at" json:"confirmed_at"`
	PackedAt            *time.Time      `gorm:"column:packed_at" json:"packed_at"`
	ShippedAt           *time.Time      `gorm:"column:shipped_at" json:"shipped_at"`
	DeliveredAt         *time.Time      `gorm:"column:delivered_at" json:"delivered_at"`
	CancelledAt         *time.Time      `gorm:"column:cancelled_at" json:"cancelled_at"`
	RefundedAt          *time.Time      `gorm:"column:refunded_at" json:"refunded_at"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem 下单时的商品快照，创建后不再修改
type OrderItem struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	OrderID     uint64          `gorm:"not null;index:idx_order_items_order;column:order_id" json:"order_id"`
	ProductID   uint64          `gorm:"not null;index:idx_order_items_product;column:product_id" json:"product_id"`
	ProductName string          `gorm:"size:255;not null;column:product_name" json:"product_name"`   // 冗余商品名称，防止原商品更名
	ProductSku  string          `gorm:"size:32;not null;column:product_sku" json:"product_sku"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;column:price" json:"price"`       // 成交单价
	Cost        decimal.Decimal `gorm:"type:decimal(12,2);not null;column:cost" json:"cost"`         // 下单时成本
	Quantity    int             `gorm:"not null;column:quantity" json:"quantity"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;column:subtotal" json:"subtotal"` // price * quantity
	Profit      decimal.Decimal `gorm:"type:decimal(12,2);not null;column:profit" json:"profit"`     // (price - cost) * quantity
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
