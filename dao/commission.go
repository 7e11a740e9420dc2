package dao

import (
	"Omnisell/models"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommissionConfig struct {
	Repo[models.CommissionConfig]
}

func NewCommissionConfig(db *gorm.DB) *CommissionConfig {
	return &CommissionConfig{
		Repo: NewRepo[models.CommissionConfig](db),
	}
}

// ActiveForUser 收益人全部启用中的配置，生效区间在内存里判断
func (d *CommissionConfig) ActiveForUser(ctx context.Context, userID uint64) ([]models.CommissionConfig, error) {
	var rows []models.CommissionConfig
	err := d.Conn(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("effective_from DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

// LockActiveForUser 同上，加行锁，用于新增配置时收口旧配置
func (d *CommissionConfig) LockActiveForUser(ctx context.Context, userID uint64) ([]models.CommissionConfig, error) {
	var rows []models.CommissionConfig
	err := d.Conn(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("id").
		Find(&rows).Error
	return rows, err
}

func (d *CommissionConfig) Deactivate(ctx context.Context, id uint64) error {
	return d.UpdateColumns(ctx, id, map[string]any{"is_active": false})
}

func (d *CommissionConfig) CloseAt(ctx context.Context, id uint64, until time.Time) error {
	return d.UpdateColumns(ctx, id, map[string]any{"effective_until": until})
}

type CommissionTx struct {
	Repo[models.CommissionTransaction]
}

func NewCommissionTx(db *gorm.DB) *CommissionTx {
	return &CommissionTx{
		Repo: NewRepo[models.CommissionTransaction](db),
	}
}

// Insert 依赖唯一索引 (order_id, user_id, commission_type)，已存在时 created 为 false 并返回原记录
func (d *CommissionTx) Insert(ctx context.Context, row *models.CommissionTransaction) (*models.CommissionTransaction, bool, error) {
	res := d.Conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "order_id"},
			{Name: "user_id"},
			{Name: "commission_type"},
		},
		DoNothing: true,
	}).Create(row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return row, true, nil
	}

	var existing models.CommissionTransaction
	err := d.Conn(ctx).
		Where("order_id = ? AND user_id = ? AND commission_type = ?", row.OrderID, row.UserID, row.CommissionType).
		First(&existing).Error
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

// LockByOrder 锁住订单下指定状态的佣金
func (d *CommissionTx) LockByOrder(ctx context.Context, orderID uint64, statuses ...models.CommissionStatus) ([]models.CommissionTransaction, error) {
	var rows []models.CommissionTransaction
	q := d.Conn(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("order_id = ?", orderID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Order("id").Find(&rows).Error
	return rows, err
}

func (d *CommissionTx) ListByOrder(ctx context.Context, orderID uint64) ([]models.CommissionTransaction, error) {
	var rows []models.CommissionTransaction
	err := d.Conn(ctx).Where("order_id = ?", orderID).Order("id").Find(&rows).Error
	return rows, err
}

type CommissionFilter struct {
	UserID  uint64
	OrderID uint64
	Status  models.CommissionStatus
	Cursor  uint64
	Limit   int
}

func (d *CommissionTx) List(ctx context.Context, f CommissionFilter) ([]models.CommissionTransaction, error) {
	q := d.Conn(ctx).Model(&models.CommissionTransaction{})
	if f.UserID > 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.OrderID > 0 {
		q = q.Where("order_id = ?", f.OrderID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Cursor > 0 {
		q = q.Where("id < ?", f.Cursor)
	}
	var rows []models.CommissionTransaction
	err := q.Order("id DESC").Limit(f.Limit).Find(&rows).Error
	return rows, err
}

// MoveStatus 批量更新状态，ids 需已在同一事务内加锁
func (d *CommissionTx) MoveStatus(ctx context.Context, ids []uint64, values map[string]any) error {
	if len(ids) == 0 {
		return nil
	}
	return d.Conn(ctx).Model(&models.CommissionTransaction{}).Where("id IN ?", ids).UpdateColumns(values).Error
}
