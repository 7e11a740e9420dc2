//go:build wireinject
// +build wireinject

package main

import (
	"Omnisell/config"
	"Omnisell/dao"
	"Omnisell/handler"
	"Omnisell/internal/module/customer"
	"Omnisell/pkg/client"
	"Omnisell/pkg/database"
	"Omnisell/pkg/notify"
	"Omnisell/pkg/server"
	"Omnisell/service"

	"github.com/google/wire"
	"gorm.io/gorm"
)

func InitServer(cfg *config.Config) (*server.AppProvider, func(), error) {
	wire.Build(
		client.NewRedisClient,
		database.NewDB,
		notify.NewDispatcherFromConfig,
		server.NewGinEngine,

		wire.Struct(new(handler.Order), "*"),
		wire.Struct(new(handler.ProductHandler), "*"),
		wire.Struct(new(handler.Commission), "*"),
		wire.Struct(new(handler.Webhook), "*"),

		wire.Struct(new(server.AppProvider), "*"),
		wire.Struct(new(server.Handlers), "*"),

		dao.ProviderSet,
		customer.ProviderSet,
		service.ProviderSet,
	)
	return nil, nil, nil
}

func InitDB(cfg *config.Config) *gorm.DB {
	wire.Build(database.NewDB)
	return nil
}

func InitInventory(cfg *config.Config) (service.IInventoryService, func(), error) {
	wire.Build(
		database.NewDB,
		notify.NewDispatcherFromConfig,
		dao.NewProduct,
		dao.NewInventoryTx,
		wire.Struct(new(service.InventoryService), "*"),
		wire.Bind(new(service.IInventoryService), new(*service.InventoryService)),
	)
	return nil, nil, nil
}
