// Package migrations 维护表结构，serve 之前由 migrate 命令执行
package migrations

import (
	"Omnisell/internal/module/customer"
	"Omnisell/models"

	"gorm.io/gorm"
)

// Models 按外键依赖排序
func Models() []any {
	return []any{
		&customer.CustomerModel{},
		&models.SalesChannel{},
		&models.SkuSequence{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.InventoryTransaction{},
		&models.CommissionConfig{},
		&models.CommissionTransaction{},
		&models.WebhookLog{},
	}
}

func Run(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
