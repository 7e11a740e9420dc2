package workflow

import (
	"Omnisell/models"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CommissionAmount percentage 按订单总额百分比，fixed 为固定金额；结果保留两位
func CommissionAmount(cfg *models.CommissionConfig, orderTotal decimal.Decimal) decimal.Decimal {
	if cfg == nil {
		return decimal.Zero
	}
	switch cfg.Type {
	case models.CommissionPercentage:
		return orderTotal.Mul(cfg.Value).Div(hundred).Round(2)
	case models.CommissionFixed:
		return cfg.Value.Round(2)
	}
	return decimal.Zero
}

// SelectEffective 选出 at 时刻生效的配置；多条重叠时取 EffectiveFrom 最晚的一条，ambiguous 为 true
func SelectEffective(configs []models.CommissionConfig, at time.Time) (cfg *models.CommissionConfig, ambiguous bool) {
	matched := 0
	for i := range configs {
		c := &configs[i]
		if !c.EffectiveAt(at) {
			continue
		}
		matched++
		if cfg == nil || c.EffectiveFrom.After(cfg.EffectiveFrom) ||
			(c.EffectiveFrom.Equal(cfg.EffectiveFrom) && c.ID > cfg.ID) {
			cfg = c
		}
	}
	return cfg, matched > 1
}

var commissionTransitions = map[models.CommissionStatus][]models.CommissionStatus{
	models.CommissionPending:  {models.CommissionApproved, models.CommissionRejected},
	models.CommissionApproved: {models.CommissionPaid, models.CommissionRejected},
}

func CanMoveCommission(from, to models.CommissionStatus) bool {
	for _, next := range commissionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
