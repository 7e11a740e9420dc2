package config

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 下单相关配置
type Order struct {
	// SnPrefix 订单号前缀
	SnPrefix string `json:"sn_prefix" yaml:"sn_prefix"`
	// TaxRate 区域税率，默认 0.06
	TaxRate string `json:"tax_rate" yaml:"tax_rate"`
	// LowStockThreshold 新建商品未指定时的默认低库存阈值
	LowStockThreshold int `json:"low_stock_threshold" yaml:"low_stock_threshold"`
	// DefaultChannel 内部下单默认渠道类型
	DefaultChannel string `json:"default_channel" yaml:"default_channel"`
}

func (o *Order) applyDefaults() {
	if o.SnPrefix == "" {
		o.SnPrefix = "ORD"
	}
	if o.TaxRate == "" {
		o.TaxRate = "0.06"
	}
	if o.LowStockThreshold == 0 {
		o.LowStockThreshold = 5
	}
	if o.DefaultChannel == "" {
		o.DefaultChannel = "website"
	}
}

func (o *Order) Tax() decimal.Decimal {
	rate, err := decimal.NewFromString(o.TaxRate)
	if err != nil {
		return decimal.RequireFromString("0.06")
	}
	return rate
}

// Webhook 外部渠道回调配置
type Webhook struct {
	// Secret 校验 X-Webhook-Secret 头
	Secret string `json:"secret" yaml:"secret"`
	// IdempotencyTTL 同一外部订单投递的并发锁时长（秒）
	IdempotencyTTL int `json:"idempotency_ttl" yaml:"idempotency_ttl"`
	// RefSalt 回执编号 hashids 盐
	RefSalt string `json:"ref_salt" yaml:"ref_salt"`
}

func (w *Webhook) applyDefaults() {
	if w.IdempotencyTTL == 0 {
		w.IdempotencyTTL = 60
	}
	if w.RefSalt == "" {
		w.RefSalt = "omnisell-webhook"
	}
}

func (w *Webhook) LockTTL() time.Duration {
	return time.Duration(w.IdempotencyTTL) * time.Second
}
