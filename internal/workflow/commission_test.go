package workflow

import (
	"Omnisell/models"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommissionAmount(t *testing.T) {
	pct := &models.CommissionConfig{Type: models.CommissionPercentage, Value: d("5")}
	fixed := &models.CommissionConfig{Type: models.CommissionFixed, Value: d("25")}

	assert.Equal(t, "11.10", CommissionAmount(pct, d("222")).StringFixed(2))
	assert.Equal(t, "25.00", CommissionAmount(fixed, d("222")).StringFixed(2))
	assert.True(t, CommissionAmount(nil, d("222")).IsZero())
	// 四舍五入到分
	assert.Equal(t, "0.53", CommissionAmount(pct, d("10.5")).StringFixed(2))
}

func TestSelectEffective(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	yesterday := now.Add(-time.Hour)
	expired := now.Add(-time.Minute)

	configs := []models.CommissionConfig{
		{ID: 1, Type: models.CommissionPercentage, Value: d("3"), EffectiveFrom: past.Add(-48 * time.Hour), EffectiveUntil: &expired, IsActive: true},
		{ID: 2, Type: models.CommissionPercentage, Value: d("4"), EffectiveFrom: past, IsActive: false},
		{ID: 3, Type: models.CommissionPercentage, Value: d("5"), EffectiveFrom: past, IsActive: true},
		{ID: 4, Type: models.CommissionFixed, Value: d("9"), EffectiveFrom: now.Add(time.Hour), IsActive: true},
	}

	cfg, ambiguous := SelectEffective(configs, now)
	require.NotNil(t, cfg)
	assert.Equal(t, uint64(3), cfg.ID)
	assert.False(t, ambiguous)

	// until 当天包含边界
	cfg, _ = SelectEffective(configs[:1], expired)
	require.NotNil(t, cfg)
	assert.Equal(t, uint64(1), cfg.ID)

	configs = append(configs, models.CommissionConfig{ID: 5, Type: models.CommissionFixed, Value: d("2"), EffectiveFrom: yesterday, IsActive: true})
	cfg, ambiguous = SelectEffective(configs, now)
	require.NotNil(t, cfg)
	assert.Equal(t, uint64(5), cfg.ID)
	assert.True(t, ambiguous)

	cfg, _ = SelectEffective(nil, now)
	assert.Nil(t, cfg)
	assert.True(t, CommissionAmount(cfg, decimal.NewFromInt(100)).IsZero())
}

func TestCanMoveCommission(t *testing.T) {
	assert.True(t, CanMoveCommission(models.CommissionPending, models.CommissionApproved))
	assert.True(t, CanMoveCommission(models.CommissionApproved, models.CommissionPaid))
	assert.True(t, CanMoveCommission(models.CommissionApproved, models.CommissionRejected))
	assert.False(t, CanMoveCommission(models.CommissionPending, models.CommissionPaid))
	assert.False(t, CanMoveCommission(models.CommissionPaid, models.CommissionRejected))
	assert.False(t, CanMoveCommission(models.CommissionRejected, models.CommissionApproved))
}
