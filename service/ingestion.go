package service

import (
	"Omnisell/config"
	"Omnisell/dao"
	"Omnisell/dao/cache"
	"Omnisell/internal/module/customer"
	"Omnisell/internal/workflow"
	"Omnisell/models"
	"Omnisell/pkg/apperr"
	"Omnisell/pkg/log"
	"Omnisell/pkg/metrics"
	"Omnisell/pkg/utils"
	"Omnisell/types"
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ExternalOrder 归一化后的平台订单
type ExternalOrder struct {
	ExternalID    string
	Customer      customer.UpsertInput
	PaymentMethod string
	ShippingFee   decimal.Decimal
	Discount      decimal.Decimal
	Notes         string
	Items         []ExternalItem
}

type ExternalItem struct {
	Sku      string
	Quantity int
	Price    decimal.Decimal
}

// 各平台字段名不一致，按顺序取第一个有值的
var (
	pathExternalID = []string{"order_id", "external_order_id", "orderId", "order_sn", "id"}
	pathEmail      = []string{"customer.email", "buyer.email", "customer_email", "buyer_email", "email"}
	pathName       = []string{"customer.name", "buyer.name", "customer_name", "buyer_name", "recipient_address.name"}
	pathPhone      = []string{"customer.phone", "buyer.phone", "customer_phone", "recipient_address.phone"}
	pathAddress    = []string{"shipping.address", "shipping_address.address", "shipping_address.full_address", "recipient_address.full_address"}
	pathCity       = []string{"shipping.city", "shipping_address.city", "recipient_address.city"}
	pathPostal     = []string{"shipping.postal_code", "shipping_address.postal_code", "shipping_address.zipcode", "recipient_address.zipcode"}
	pathPayment    = []string{"payment_method", "payment.method", "payment_type"}
	pathShipping   = []string{"shipping_fee", "shipping.fee", "shipping_cost", "estimated_shipping_fee"}
	pathDiscount   = []string{"discount", "voucher_amount", "seller_discount"}
	pathNotes      = []string{"notes", "note", "message_to_seller"}
	pathItems      = []string{"items", "line_items", "item_list"}
	pathSku        = []string{"sku", "seller_sku", "item_sku", "model_sku"}
	pathQuantity   = []string{"quantity", "qty", "model_quantity_purchased"}
	pathPrice      = []string{"price", "unit_price", "model_discounted_price"}
)

var marketplacePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{1,31}$`)

func first(r gjson.Result, paths []string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.Type != gjson.Null && v.String() != "" {
			return v
		}
	}
	return gjson.Result{}
}

// unwrap 部分平台把订单包在 data 下
func unwrap(payload []byte) gjson.Result {
	root := gjson.ParseBytes(payload)
	if data := root.Get("data"); data.IsObject() {
		return data
	}
	return root
}

// money 数字直接取原文，避免经过 float
func money(r gjson.Result) (decimal.Decimal, error) {
	if !r.Exists() {
		return decimal.Zero, nil
	}
	if r.Type == gjson.Number {
		return decimal.NewFromString(r.Raw)
	}
	return decimal.NewFromString(strings.TrimSpace(r.String()))
}

// Normalize 把平台报文转为统一结构
func Normalize(payload []byte) (*ExternalOrder, error) {
	if !gjson.ValidBytes(payload) {
		return nil, apperr.Validation("payload is not valid JSON")
	}
	root := unwrap(payload)

	out := &ExternalOrder{
		ExternalID:    strings.TrimSpace(first(root, pathExternalID).String()),
		PaymentMethod: strings.ToLower(strings.TrimSpace(first(root, pathPayment).String())),
		Notes:         first(root, pathNotes).String(),
		Customer:      customer.UpsertInput{
			Name:       first(root, pathName).String(),
			Email:      first(root, pathEmail).String(),
			Phone:      first(root, pathPhone).String(),
			Address:    first(root, pathAddress).String(),
			City:       first(root, pathCity).String(),
			PostalCode: first(root, pathPostal).String(),
		},
	}
	if out.ExternalID == "" {
		return nil, apperr.Validation("external order id is required")
	}
	if out.Customer.Email == "" {
		return nil, apperr.Validation("customer email is required")
	}
	if out.PaymentMethod == "" {
		out.PaymentMethod = "marketplace"
	}

	var err error
	if out.ShippingFee, err = money(first(root, pathShipping)); err != nil {
		return nil, apperr.Validation("invalid shipping fee")
	}
	if out.Discount, err = money(first(root, pathDiscount)); err != nil {
		return nil, apperr.Validation("invalid discount")
	}

	items := first(root, pathItems)
	if !items.IsArray() || len(items.Array()) == 0 {
		return nil, apperr.Validation("order has no items")
	}
	for i, it := range items.Array() {
		q := first(it, pathQuantity)
		qty := q.Int()
		if qty <= 0 {
			return nil, apperr.Validation("item %d has no quantity", i)
		}
		if q.Float() != float64(qty) {
			return nil, apperr.Validation("item %d quantity %s is not a whole number", i, q.String())
		}
		price, err := money(first(it, pathPrice))
		if err != nil {
			return nil, apperr.Validation("item %d has an invalid price", i)
		}
		out.Items = append(out.Items, ExternalItem{
			Sku:      strings.TrimSpace(first(it, pathSku).String()),
			Quantity: int(qty),
			Price:    price,
		})
	}
	return out, nil
}

type IngestionService struct {
	Config     *config.Config
	WebhookDAO *dao.WebhookLog
	ChannelDAO *dao.Channel
	ProductDAO *dao.Product
	OrderDAO   *dao.Order
	Guard      *cache.WebhookGuard
	Customer   customer.Service
	Orders     IOrderService
}

var _ IIngestionService = (*IngestionService)(nil)

type IIngestionService interface {
	// Ingest 处理平台推单，同一 (渠道, 外部单号) 重复投递返回已有订单
	Ingest(ctx context.Context, marketplace string, payload []byte) (*types.WebhookResult, error)
}

func (s *IngestionService) Ingest(ctx context.Context, marketplace string, payload []byte) (*types.WebhookResult, error) {
	marketplace = strings.ToLower(strings.TrimSpace(marketplace))
	log.L.Info("webhook received", zap.String("marketplace", marketplace), zap.ByteString("payload", payload))

	if !marketplacePattern.MatchString(marketplace) {
		return nil, apperr.Validation("unknown marketplace %q", marketplace)
	}

	stored := payload
	if !json.Valid(payload) {
		stored, _ = json.Marshal(string(payload))
	}
	entry, err := s.WebhookDAO.Received(ctx, marketplace, strings.TrimSpace(first(unwrap(payload), pathExternalID).String()), stored)
	if err != nil {
		log.L.Error("store webhook payload", zap.String("marketplace", marketplace), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	result := &types.WebhookResult{Ref: utils.GenHashID(s.Config.Webhook.RefSalt, entry.ID)}

	order, skipped, duplicate, err := s.ingest(ctx, marketplace, payload)
	status := models.WebhookSucceeded
	var orderID *uint64
	var errMsg string
	switch {
	case err != nil:
		status = models.WebhookFailed
		errMsg = apperr.From(err).Message
	case duplicate:
		status = models.WebhookDuplicate
	}
	if order != nil {
		orderID = &order.ID
		result.OrderID = order.ID
		result.OrderSn = order.OrderSn
	}
	result.Duplicate = duplicate
	result.SkippedSkus = skipped

	var skippedJSON datatypes.JSON
	if len(skipped) > 0 {
		skippedJSON, _ = json.Marshal(skipped)
	}
	if ferr := s.WebhookDAO.Finish(ctx, entry.ID, status, orderID, errMsg, skippedJSON); ferr != nil {
		log.L.Error("update webhook log", zap.Uint64("webhook_id", entry.ID), zap.Error(ferr))
	}
	metrics.WebhookDeliveries.WithLabelValues(marketplace, string(status)).Inc()

	fields := []zap.Field{
		zap.String("marketplace", marketplace),
		zap.String("ref", result.Ref),
		zap.String("status", string(status)),
		zap.String("order_sn", result.OrderSn),
		zap.Strings("skipped_skus", skipped),
	}
	if err != nil {
		log.L.Warn("webhook failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	log.L.Info("webhook processed", fields...)
	return result, nil
}

func (s *IngestionService) ingest(ctx context.Context, marketplace string, payload []byte) (*models.Order, []string, bool, error) {
	ext, err := Normalize(payload)
	if err != nil {
		return nil, nil, false, err
	}

	channel, err := s.ChannelDAO.FirstOrCreate(ctx, marketplace, channelName(marketplace))
	if err != nil {
		return nil, nil, false, apperr.Internal(err)
	}
	if existing, err := s.OrderDAO.FindByExternal(ctx, channel.ID, ext.ExternalID); err == nil {
		return existing, nil, true, nil
	} else if !dao.IsNotFound(err) {
		return nil, nil, false, apperr.Internal(err)
	}

	token := uuid.NewString()
	acquired, err := s.Guard.Acquire(ctx, marketplace, ext.ExternalID, token, s.Config.Webhook.LockTTL())
	if err != nil {
		// redis 不可用时依赖唯一索引
		log.L.Warn("webhook guard unavailable", zap.Error(err))
	} else if !acquired {
		return nil, nil, false, apperr.Conflict("order %s is already being processed", ext.ExternalID)
	} else {
		defer func() {
			if err := s.Guard.Release(context.WithoutCancel(ctx), marketplace, ext.ExternalID, token); err != nil {
				log.L.Warn("release webhook guard", zap.Error(err))
			}
		}()
	}

	lines, skipped, err := s.mapSkus(ctx, marketplace, ext)
	if err != nil {
		return nil, skipped, false, err
	}

	cust, err := s.Customer.Upsert(ctx, &ext.Customer)
	if err != nil {
		return nil, skipped, false, err
	}

	payment := models.PaymentPaid
	if ext.PaymentMethod == models.PaymentCOD {
		payment = models.PaymentPending
	}
	externalID := ext.ExternalID
	order, err := s.Orders.CreateOrder(ctx, &CreateOrderInput{
		Actor:         workflow.System,
		CustomerID:    cust.ID,
		ChannelID:     channel.ID,
		Lines:         lines,
		Discount:      ext.Discount,
		ShippingFee:   ext.ShippingFee,
		PaymentMethod: ext.PaymentMethod,
		Shipping:      types.ShippingInfo{
			Name:       ext.Customer.Name,
			Phone:      ext.Customer.Phone,
			Address:    ext.Customer.Address,
			City:       ext.Customer.City,
			PostalCode: ext.Customer.PostalCode,
		},
		Notes:           ext.Notes,
		ExternalOrderID: &externalID,
		InitialStatus:   models.OrderConfirmed,
		InitialPayment:  payment,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			if existing, ferr := s.OrderDAO.FindByExternal(ctx, channel.ID, ext.ExternalID); ferr == nil {
				return existing, skipped, true, nil
			}
		}
		return nil, skipped, false, err
	}
	if err := s.ChannelDAO.Touch(ctx, channel.ID); err != nil {
		log.L.Warn("touch channel", zap.Uint64("channel_id", channel.ID), zap.Error(err))
	}
	return order, skipped, false, nil
}

// mapSkus 未匹配的 SKU 跳过并告警，全部未匹配时报错
func (s *IngestionService) mapSkus(ctx context.Context, marketplace string, ext *ExternalOrder) ([]OrderLine, []string, error) {
	skus := make([]string, 0, len(ext.Items))
	for _, it := range ext.Items {
		if it.Sku != "" {
			skus = append(skus, it.Sku)
		}
	}
	products, err := s.ProductDAO.FindBySkus(ctx, skus)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	bySku := make(map[string]uint64, len(products))
	for _, p := range products {
		bySku[p.Sku] = p.ID
	}

	var lines []OrderLine
	var skipped []string
	for _, it := range ext.Items {
		id, ok := bySku[it.Sku]
		if !ok {
			skipped = append(skipped, it.Sku)
			log.L.Warn("unmapped sku skipped",
				zap.String("marketplace", marketplace),
				zap.String("external_order_id", ext.ExternalID),
				zap.String("sku", it.Sku),
			)
			continue
		}
		line := OrderLine{ProductID: id, Quantity: it.Quantity}
		if it.Price.IsPositive() {
			price := it.Price
			line.Price = &price
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, skipped, apperr.Validation("none of the order items match a known SKU")
	}
	return lines, skipped, nil
}
