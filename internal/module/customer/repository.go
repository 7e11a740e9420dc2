package customer

import (
	"Omnisell/pkg/database"
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository 接口定义
type Repository interface {
	FindByID(ctx context.Context, id uint64) (*CustomerModel, error)
	FindByEmail(ctx context.Context, email string) (*CustomerModel, error)
	// FirstOrCreate 按 email 幂等创建，created 表示本次是否新建
	FirstOrCreate(ctx context.Context, c *CustomerModel) (*CustomerModel, bool, error)
	IncrementStats(ctx context.Context, id uint64, spent decimal.Decimal) error
}

// repository 具体实现
type repository struct {
	db *gorm.DB
}

// NewRepository 构造函数
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uint64) (*CustomerModel, error) {
	var c CustomerModel
	err := database.Conn(ctx, r.db).First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*CustomerModel, error) {
	var c CustomerModel
	err := database.Conn(ctx, r.db).Where("email = ?", email).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FirstOrCreate(ctx context.Context, c *CustomerModel) (*CustomerModel, bool, error) {
	res := database.Conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(c)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return c, true, nil
	}

	existing, err := r.FindByEmail(ctx, c.Email)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *repository) IncrementStats(ctx context.Context, id uint64, spent decimal.Decimal) error {
	res := database.Conn(ctx, r.db).
		Model(&CustomerModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"total_orders": gorm.Expr("total_orders + ?", 1),
			"total_spent":  gorm.Expr("total_spent + ?", spent),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
