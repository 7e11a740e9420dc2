package dao

import (
	"Omnisell/models"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Product struct {
	Repo[models.Product]
}

func NewProduct(db *gorm.DB) *Product {
	return &Product{
		Repo: NewRepo[models.Product](db),
	}
}

func (p *Product) UpdateStock(ctx context.Context, id uint64, stock int, status models.ProductStatus) error {
	return p.UpdateColumns(ctx, id, map[string]any{
		"stock_quantity": stock,
		"status":         status,
	})
}

func (p *Product) SetStatus(ctx context.Context, id uint64, status models.ProductStatus) error {
	return p.UpdateColumns(ctx, id, map[string]any{"status": status})
}

// NextSkuSeq 取分类前缀的下一个序号，锁住计数行，序号不回收
func (p *Product) NextSkuSeq(ctx context.Context, prefix string) (int64, error) {
	db := p.Conn(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.SkuSequence{Prefix: prefix}).Error; err != nil {
		return 0, err
	}

	var seq models.SkuSequence
	if err := db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("prefix = ?", prefix).
		First(&seq).Error; err != nil {
		return 0, err
	}

	next := seq.LastValue + 1
	if err := db.Model(&models.SkuSequence{}).
		Where("prefix = ?", prefix).
		UpdateColumn("last_value", next).Error; err != nil {
		return 0, err
	}
	return next, nil
}

func (p *Product) FindBySkus(ctx context.Context, skus []string) ([]models.Product, error) {
	var rows []models.Product
	if len(skus) == 0 {
		return rows, nil
	}
	err := p.Conn(ctx).Where("sku IN ?", skus).Find(&rows).Error
	return rows, err
}

// IsReferenced 是否有订单明细引用该商品
func (p *Product) IsReferenced(ctx context.Context, id uint64) (bool, error) {
	var n int64
	err := p.Conn(ctx).Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&n).Error
	return n > 0, err
}

func (p *Product) Delete(ctx context.Context, id uint64) error {
	res := p.Conn(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// EachBatch 按主键分批遍历全部商品
func (p *Product) EachBatch(ctx context.Context, size int, fn func(rows []models.Product) error) error {
	var rows []models.Product
	return p.Conn(ctx).FindInBatches(&rows, size, func(tx *gorm.DB, _ int) error {
		return fn(rows)
	}).Error
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate 唯一索引冲突
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
