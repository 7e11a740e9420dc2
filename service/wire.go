package service

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(InventoryService), "*"),
	wire.Bind(new(IInventoryService), new(*InventoryService)),

	wire.Struct(new(CommissionService), "*"),
	wire.Bind(new(ICommissionService), new(*CommissionService)),

	wire.Struct(new(OrderService), "*"),
	wire.Bind(new(IOrderService), new(*OrderService)),

	wire.Struct(new(IngestionService), "*"),
	wire.Bind(new(IIngestionService), new(*IngestionService)),
)
