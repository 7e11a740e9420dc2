//go:build wireinject

package dao

import (
	"Omnisell/dao/cache"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewProduct,
	NewInventoryTx,
	NewOrder,
	NewCommissionConfig,
	NewCommissionTx,
	NewChannel,
	NewWebhookLog,
	cache.NewWebhookGuard,
)
