package service

import (
	"Omnisell/models"
	"Omnisell/pkg/apperr"
	"Omnisell/pkg/utils"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shopeePayload(externalID, email, payment string, items ...string) []byte {
	body := fmt.Sprintf(`{
		"order_sn": %q,
		"buyer": {"email": %q, "name": "Siti Rahma", "phone": "+62811000111"},
		"recipient_address": {"full_address": "Jl. Malioboro 10", "city": "Yogyakarta", "zipcode": "55271"},
		"payment_method": %q,
		"estimated_shipping_fee": 15000,
		"item_list": [%s]
	}`, externalID, email, payment, joinItems(items))
	return []byte(body)
}

func joinItems(items []string) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += ","
		}
		out += it
	}
	return out
}

func item(sku string, qty int, price string) string {
	return fmt.Sprintf(`{"model_sku": %q, "model_quantity_purchased": %d, "model_discounted_price": %s}`, sku, qty, price)
}

func (f *fixture) webhookLog(t *testing.T, ref string) *models.WebhookLog {
	t.Helper()
	id, err := utils.DecodeHashID(f.conf.Webhook.RefSalt, ref)
	require.NoError(t, err)
	row, err := f.ingestion.WebhookDAO.FindByID(f.ctx, id)
	require.NoError(t, err)
	return row
}

func TestNormalize_Aliases(t *testing.T) {
	payload := []byte(`{"data": {
		"external_order_id": "TT-77",
		"customer": {"email": "a@b.co", "name": "Ana"},
		"shipping": {"fee": "9.50", "city": "Bandung"},
		"voucher_amount": 2,
		"line_items": [
			{"seller_sku": "KOP-0001", "qty": 3, "unit_price": "12.34"},
			{"sku": "TEH-0002", "quantity": 1}
		]
	}}`)

	ext, err := Normalize(payload)
	require.NoError(t, err)
	assert.Equal(t, "TT-77", ext.ExternalID)
	assert.Equal(t, "a@b.co", ext.Customer.Email)
	assert.Equal(t, "Bandung", ext.Customer.City)
	assert.Equal(t, "marketplace", ext.PaymentMethod)
	assert.True(t, ext.ShippingFee.Equal(dec("9.50")))
	assert.True(t, ext.Discount.Equal(dec("2")))
	require.Len(t, ext.Items, 2)
	assert.Equal(t, "KOP-0001", ext.Items[0].Sku)
	assert.Equal(t, 3, ext.Items[0].Quantity)
	assert.True(t, ext.Items[0].Price.Equal(dec("12.34")))
	assert.True(t, ext.Items[1].Price.IsZero())
}

func TestNormalize_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":     `{"order_id": `,
		"no id":        `{"buyer_email": "x@y.z", "items": [{"sku": "A", "qty": 1}]}`,
		"no email":     `{"order_id": "1", "items": [{"sku": "A", "qty": 1}]}`,
		"no items":     `{"order_id": "1", "buyer_email": "x@y.z", "items": []}`,
		"bad quantity": `{"order_id": "1", "buyer_email": "x@y.z", "items": [{"sku": "A", "qty": 0}]}`,
		"fractional":   `{"order_id": "1", "buyer_email": "x@y.z", "items": [{"sku": "A", "quantity": 2.9}]}`,
		"fraction str": `{"order_id": "1", "buyer_email": "x@y.z", "items": [{"sku": "A", "quantity": "1.5"}]}`,
		"bad money":    `{"order_id": "1", "buyer_email": "x@y.z", "shipping_fee": "free", "items": [{"sku": "A", "qty": 1}]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Normalize([]byte(payload))
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestIngest_CreatesOrderAndSkipsUnknownSku(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kopi Gayo", "100000", 10)

	res, err := f.ingestion.Ingest(f.ctx, "Shopee", shopeePayload("SHP-1001", "new.buyer@example.com", "shopeepay",
		item(p.Sku, 2, "95000"),
		item("GHOST-1", 1, "5000"),
	))
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, []string{"GHOST-1"}, res.SkippedSkus)
	assert.NotEmpty(t, res.Ref)
	assert.Equal(t, 8, f.stock(t, p.ID))

	order, err := f.orders.GetOrder(f.ctx, res.OrderID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, order.Status)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	assert.NotNil(t, order.ConfirmedAt)
	require.NotNil(t, order.ExternalOrderID)
	assert.Equal(t, "SHP-1001", *order.ExternalOrderID)
	assert.Nil(t, order.StaffID)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].Price.Equal(dec("95000")))
	assert.True(t, order.ShippingFee.Equal(dec("15000")))
	assert.Equal(t, "Yogyakarta", order.ShippingCity)

	c, err := f.customers.GetCustomer(f.ctx, order.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "new.buyer@example.com", c.Email)
	assert.Equal(t, "Siti Rahma", c.Name)

	log := f.webhookLog(t, res.Ref)
	assert.Equal(t, models.WebhookSucceeded, log.Status)
	require.NotNil(t, log.OrderID)
	assert.Equal(t, order.ID, *log.OrderID)
	assert.Equal(t, "SHP-1001", log.ExternalOrderID)
	var skipped []string
	require.NoError(t, json.Unmarshal(log.SkippedSkus, &skipped))
	assert.Equal(t, []string{"GHOST-1"}, skipped)

	// 推单后锁已释放
	assert.False(t, f.redis.Exists("omnisell:webhook:shopee:SHP-1001"))
}

func TestIngest_ReplayReturnsExistingOrder(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Teh Tarik", "20000", 10)
	payload := shopeePayload("SHP-2002", "replay@example.com", "shopeepay", item(p.Sku, 3, "20000"))

	first, err := f.ingestion.Ingest(f.ctx, "shopee", payload)
	require.NoError(t, err)
	second, err := f.ingestion.Ingest(f.ctx, "shopee", payload)
	require.NoError(t, err)

	assert.True(t, second.Duplicate)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, first.OrderSn, second.OrderSn)
	assert.NotEqual(t, first.Ref, second.Ref)
	assert.Equal(t, 7, f.stock(t, p.ID))
	assert.Equal(t, models.WebhookDuplicate, f.webhookLog(t, second.Ref).Status)

	var orders int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orders).Error)
	assert.EqualValues(t, 1, orders)

	// 同一外部单号在另一个渠道是另一笔订单
	other, err := f.ingestion.Ingest(f.ctx, "tiktok", payload)
	require.NoError(t, err)
	assert.False(t, other.Duplicate)
	assert.NotEqual(t, first.OrderID, other.OrderID)
}

func TestIngest_InFlightDeliveryConflicts(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Bika Ambon", "50000", 10)
	require.NoError(t, f.redis.Set("omnisell:webhook:shopee:SHP-3003", "someone-else"))

	_, err := f.ingestion.Ingest(f.ctx, "shopee", shopeePayload("SHP-3003", "busy@example.com", "shopeepay", item(p.Sku, 1, "50000")))
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, 10, f.stock(t, p.ID))

	// 他人的锁不会被释放
	got, err := f.redis.Get("omnisell:webhook:shopee:SHP-3003")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestIngest_CashOnDeliveryStaysPending(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Lapis Legit", "75000", 5)

	res, err := f.ingestion.Ingest(f.ctx, "shopee", shopeePayload("SHP-4004", "cod@example.com", "COD", item(p.Sku, 1, "75000")))
	require.NoError(t, err)

	order, err := f.orders.GetOrder(f.ctx, res.OrderID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Nil(t, order.PaidAt)
	assert.Equal(t, "cod", order.PaymentMethod)
}

func TestIngest_NoKnownSkuFails(t *testing.T) {
	f := newFixture(t)
	_, err := f.ingestion.Ingest(f.ctx, "shopee", shopeePayload("SHP-5005", "nobody@example.com", "shopeepay", item("GHOST-9", 1, "1000")))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	var logs []models.WebhookLog
	require.NoError(t, f.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.WebhookFailed, logs[0].Status)
	assert.NotEmpty(t, logs[0].Error)
	assert.Nil(t, logs[0].OrderID)

	var orders int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestIngest_InvalidPayloadIsStillLogged(t *testing.T) {
	f := newFixture(t)

	_, err := f.ingestion.Ingest(f.ctx, "shopee", []byte("order=1&sku=A"))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	var logs []models.WebhookLog
	require.NoError(t, f.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.WebhookFailed, logs[0].Status)
	var raw string
	require.NoError(t, json.Unmarshal(logs[0].Payload, &raw))
	assert.Equal(t, "order=1&sku=A", raw)

	_, err = f.ingestion.Ingest(f.ctx, "../etc", []byte(`{}`))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
