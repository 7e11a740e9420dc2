package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// OrdersCreated 按渠道统计新建订单
	OrdersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omnisell_orders_created_total",
			Help: "Orders created, by channel type",
		},
		[]string{"channel"},
	)

	OrderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omnisell_order_transitions_total",
			Help: "Order status and payment status transitions",
		},
		[]string{"kind", "to"},
	)

	StockMovements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omnisell_stock_movements_total",
			Help: "Inventory ledger entries, by transaction type",
		},
		[]string{"type"},
	)

	LowStock = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "omnisell_low_stock_events_total",
			Help: "Low stock events raised",
		},
	)

	WebhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omnisell_webhook_deliveries_total",
			Help: "Marketplace webhook deliveries, by outcome",
		},
		[]string{"marketplace", "status"},
	)

	NotifyFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omnisell_notify_failures_total",
			Help: "Events a sink failed to deliver",
		},
		[]string{"sink"},
	)
)

func init() {
	prometheus.MustRegister(OrdersCreated, OrderTransitions, StockMovements, LowStock, WebhookDeliveries, NotifyFailures)
}
