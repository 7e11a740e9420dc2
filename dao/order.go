package dao

import (
	"Omnisell/models"
	"context"

	"gorm.io/gorm"
)

type Order struct {
	Repo[models.Order]
}

func NewOrder(db *gorm.DB) *Order {
	return &Order{
		Repo: NewRepo[models.Order](db),
	}
}

// CreateWithItems 订单与明细一起写入
func (o *Order) CreateWithItems(ctx context.Context, order *models.Order) error {
	return o.Conn(ctx).Create(order).Error
}

func (o *Order) FindWithItems(ctx context.Context, id uint64) (*models.Order, error) {
	var order models.Order
	err := o.Conn(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (o *Order) FindByExternal(ctx context.Context, channelID uint64, externalID string) (*models.Order, error) {
	var order models.Order
	err := o.Conn(ctx).
		Where("channel_id = ? AND external_order_id = ?", channelID, externalID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (o *Order) Items(ctx context.Context, orderID uint64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := o.Conn(ctx).Where("order_id = ?", orderID).Order("id").Find(&items).Error
	return items, err
}

// Save 只更新状态流转涉及的列，金额与明细创建后不再改写
func (o *Order) Save(ctx context.Context, order *models.Order) error {
	return o.Conn(ctx).Model(order).Select(
		"status", "payment_status", "courier", "tracking_number", "notes", "cancel_reason",
		"paid_at", "confirmed_at", "packed_at", "shipped_at", "delivered_at", "cancelled_at", "refunded_at",
		"updated_at",
	).Updates(order).Error
}

// OrderFilter 列表筛选，StaffID / AffiliateID 用于按角色收窄范围
type OrderFilter struct {
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
	CustomerID    uint64
	ChannelID     uint64
	StaffID       *uint64
	AffiliateID   *uint64
	Cursor        uint64
	Limit         int
}

// List 游标分页，按 id 倒序
func (o *Order) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := o.Conn(ctx).Model(&models.Order{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.CustomerID > 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.ChannelID > 0 {
		q = q.Where("channel_id = ?", f.ChannelID)
	}
	if f.StaffID != nil {
		q = q.Where("staff_id = ?", *f.StaffID)
	}
	if f.AffiliateID != nil {
		q = q.Where("affiliate_id = ?", *f.AffiliateID)
	}
	if f.Cursor > 0 {
		q = q.Where("id < ?", f.Cursor)
	}

	var rows []models.Order
	err := q.Order("id DESC").Limit(f.Limit).Find(&rows).Error
	return rows, err
}
