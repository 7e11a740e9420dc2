package server

import (
	"Omnisell/handler"
	"Omnisell/internal/module/customer"
)

type Handlers struct {
	Order      *handler.Order
	Product    *handler.ProductHandler
	Commission *handler.Commission
	Webhook    *handler.Webhook
	Customer   *customer.Handler
}
