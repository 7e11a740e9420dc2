package workflow

import (
	"Omnisell/models"
	"Omnisell/pkg/apperr"
	"time"
)

var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderConfirmed, models.OrderCancelled},
	models.OrderConfirmed:  {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderPacked, models.OrderCancelled},
	models.OrderPacked:     {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered, models.OrderRefunded},
	models.OrderDelivered:  {models.OrderRefunded},
}

var paymentTransitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentPending: {models.PaymentPaid, models.PaymentFailed},
	models.PaymentPaid:    {models.PaymentRefunded},
}

func ValidOrderStatus(s models.OrderStatus) bool {
	switch s {
	case models.OrderPending, models.OrderConfirmed, models.OrderProcessing, models.OrderPacked,
		models.OrderShipped, models.OrderDelivered, models.OrderCancelled, models.OrderRefunded:
		return true
	}
	return false
}

func ValidPaymentStatus(s models.PaymentStatus) bool {
	switch s {
	case models.PaymentPending, models.PaymentPaid, models.PaymentFailed, models.PaymentRefunded:
		return true
	}
	return false
}

// CheckTransition 校验履约状态流转
func CheckTransition(from, to models.OrderStatus) error {
	for _, next := range orderTransitions[from] {
		if next == to {
			return nil
		}
	}
	return apperr.InvalidTransition(string(from), string(to))
}

// CheckPaymentTransition 校验支付状态流转
func CheckPaymentTransition(from, to models.PaymentStatus) error {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return nil
		}
	}
	return apperr.InvalidTransition(string(from), string(to))
}

// ReversesOrder 进入取消/退款需要回补库存并作废佣金
func ReversesOrder(to models.OrderStatus) bool {
	return to == models.OrderCancelled || to == models.OrderRefunded
}

// Stamp 写入对应的时间戳，已有值不覆盖
func Stamp(o *models.Order, to models.OrderStatus, now time.Time) {
	var slot **time.Time
	switch to {
	case models.OrderConfirmed:
		slot = &o.ConfirmedAt
	case models.OrderPacked:
		slot = &o.PackedAt
	case models.OrderShipped:
		slot = &o.ShippedAt
	case models.OrderDelivered:
		slot = &o.DeliveredAt
	case models.OrderCancelled:
		slot = &o.CancelledAt
	case models.OrderRefunded:
		slot = &o.RefundedAt
	default:
		return
	}
	if *slot == nil {
		t := now
		*slot = &t
	}
}
