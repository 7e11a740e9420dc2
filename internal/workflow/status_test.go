package workflow

import (
	"Omnisell/models"
	"Omnisell/pkg/apperr"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		ok       bool
	}{
		{models.OrderPending, models.OrderConfirmed, true},
		{models.OrderConfirmed, models.OrderProcessing, true},
		{models.OrderProcessing, models.OrderPacked, true},
		{models.OrderPacked, models.OrderShipped, true},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderPacked, models.OrderCancelled, true},
		{models.OrderShipped, models.OrderRefunded, true},
		{models.OrderDelivered, models.OrderRefunded, true},

		{models.OrderPending, models.OrderShipped, false},
		{models.OrderPending, models.OrderRefunded, false},
		{models.OrderShipped, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderConfirmed, false},
		{models.OrderRefunded, models.OrderRefunded, false},
		{models.OrderDelivered, models.OrderShipped, false},
		{models.OrderConfirmed, models.OrderConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := CheckTransition(tt.from, tt.to)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
			assert.Contains(t, err.Error(), string(tt.to))
		})
	}
}

func TestCheckPaymentTransition(t *testing.T) {
	assert.NoError(t, CheckPaymentTransition(models.PaymentPending, models.PaymentPaid))
	assert.NoError(t, CheckPaymentTransition(models.PaymentPending, models.PaymentFailed))
	assert.NoError(t, CheckPaymentTransition(models.PaymentPaid, models.PaymentRefunded))

	assert.ErrorIs(t, CheckPaymentTransition(models.PaymentPending, models.PaymentRefunded), apperr.ErrInvalidTransition)
	assert.ErrorIs(t, CheckPaymentTransition(models.PaymentFailed, models.PaymentPaid), apperr.ErrInvalidTransition)
	assert.ErrorIs(t, CheckPaymentTransition(models.PaymentPaid, models.PaymentPaid), apperr.ErrInvalidTransition)
	assert.ErrorIs(t, CheckPaymentTransition(models.PaymentRefunded, models.PaymentPaid), apperr.ErrInvalidTransition)
}

func TestStamp_SetOnce(t *testing.T) {
	o := &models.Order{}
	first := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	Stamp(o, models.OrderConfirmed, first)
	Stamp(o, models.OrderConfirmed, first.Add(time.Hour))
	assert.Equal(t, first, *o.ConfirmedAt)

	Stamp(o, models.OrderProcessing, first)
	assert.Nil(t, o.PackedAt)

	Stamp(o, models.OrderShipped, first)
	assert.NotNil(t, o.ShippedAt)
	assert.Nil(t, o.DeliveredAt)
}

func TestReversesOrder(t *testing.T) {
	assert.True(t, ReversesOrder(models.OrderCancelled))
	assert.True(t, ReversesOrder(models.OrderRefunded))
	assert.False(t, ReversesOrder(models.OrderDelivered))
}
