package customer_test

import (
	"Omnisell/internal/module/customer"
	"Omnisell/pkg/apperr"
	"Omnisell/pkg/testkit"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) customer.Service {
	db := testkit.NewDB(t)
	return customer.NewService(customer.NewRepository(db))
}

func TestUpsert_Idempotent(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, err := svc.Upsert(ctx, &customer.UpsertInput{Name: "Siti", Email: "Siti@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "siti@example.com", first.Email)

	again, err := svc.Upsert(ctx, &customer.UpsertInput{Name: "Siti Aminah", Email: "siti@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	// 已存在时不覆盖资料
	assert.Equal(t, "Siti", again.Name)
}

func TestUpsert_DefaultsNameFromEmail(t *testing.T) {
	svc := newService(t)

	c, err := svc.Upsert(context.Background(), &customer.UpsertInput{Email: "budi@shop.id"})
	require.NoError(t, err)
	assert.Equal(t, "budi", c.Name)
}

func TestUpsert_InvalidEmail(t *testing.T) {
	svc := newService(t)

	_, err := svc.Upsert(context.Background(), &customer.UpsertInput{Email: "not-an-email"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRecordOrder(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	c, err := svc.Upsert(ctx, &customer.UpsertInput{Email: "a@b.co"})
	require.NoError(t, err)

	require.NoError(t, svc.RecordOrder(ctx, c.ID, decimal.RequireFromString("222")))
	require.NoError(t, svc.RecordOrder(ctx, c.ID, decimal.RequireFromString("10.5")))

	got, err := svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalOrders)
	assert.True(t, got.TotalSpent.Equal(decimal.RequireFromString("232.5")), got.TotalSpent.String())

	assert.ErrorIs(t, svc.RecordOrder(ctx, 9999, decimal.NewFromInt(1)), apperr.ErrNotFound)
}

func TestGetCustomer_NotFound(t *testing.T) {
	svc := newService(t)

	_, err := svc.GetCustomer(context.Background(), 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
