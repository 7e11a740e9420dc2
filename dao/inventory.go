package dao

import (
	"Omnisell/models"
	"context"

	"gorm.io/gorm"
)

// InventoryTx 库存流水只追加
type InventoryTx struct {
	Repo[models.InventoryTransaction]
}

func NewInventoryTx(db *gorm.DB) *InventoryTx {
	return &InventoryTx{
		Repo: NewRepo[models.InventoryTransaction](db),
	}
}

func (d *InventoryTx) ListByProduct(ctx context.Context, productID uint64, cursor uint64, limit int) ([]models.InventoryTransaction, error) {
	var rows []models.InventoryTransaction
	q := d.Conn(ctx).Where("product_id = ?", productID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	err := q.Order("id DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (d *InventoryTx) ListByReference(ctx context.Context, refType string, refID uint64) ([]models.InventoryTransaction, error) {
	var rows []models.InventoryTransaction
	err := d.Conn(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("id").
		Find(&rows).Error
	return rows, err
}

// SumByProduct 各商品流水变动量之和
func (d *InventoryTx) SumByProduct(ctx context.Context) (map[uint64]int, error) {
	var rows []struct {
		ProductID uint64
		Total     int
	}
	err := d.Conn(ctx).
		Model(&models.InventoryTransaction{}).
		Select("product_id, SUM(quantity) AS total").
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint64]int, len(rows))
	for _, r := range rows {
		out[r.ProductID] = r.Total
	}
	return out, nil
}
