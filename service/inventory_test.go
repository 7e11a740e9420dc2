package service

import (
	"Omnisell/models"
	"Omnisell/pkg/apperr"
	"Omnisell/pkg/notify"
	"Omnisell/types"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct_SkuSequencePerPrefix(t *testing.T) {
	f := newFixture(t)
	req := func(prefix string) *types.CreateProductRequest {
		return &types.CreateProductRequest{
			CategoryPrefix: prefix,
			ProductName:    "Item " + prefix,
			Price:          decimal.NewFromInt(10),
			Cost:           decimal.NewFromInt(4),
		}
	}

	a, err := f.inventory.CreateProduct(f.ctx, req("kop"), admin)
	require.NoError(t, err)
	b, err := f.inventory.CreateProduct(f.ctx, req("KOP"), staff)
	require.NoError(t, err)
	c, err := f.inventory.CreateProduct(f.ctx, req("TEH"), admin)
	require.NoError(t, err)

	assert.Equal(t, "KOP-0001", a.Sku)
	assert.Equal(t, "KOP-0002", b.Sku)
	assert.Equal(t, "TEH-0001", c.Sku)
	assert.Equal(t, models.ProductOutOfStock, a.Status)

	_, err = f.inventory.CreateProduct(f.ctx, req("K1"), admin)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.inventory.CreateProduct(f.ctx, req("KOP"), affiliate)
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)
}

func TestCreateProduct_OpeningStockRecorded(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Opening", "10", 12)
	assert.Equal(t, models.ProductActive, p.Status)
	assert.Equal(t, 12, p.StockQuantity)

	ledger, err := f.inventory.Ledger(f.ctx, p.ID, &types.LedgerRequest{})
	require.NoError(t, err)
	require.Len(t, ledger.List, 1)
	assert.Equal(t, string(models.InventoryPurchase), ledger.List[0].Type)
	assert.Equal(t, 12, ledger.List[0].Quantity)
}

func TestAddStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Restock", "10", 0)

	got, err := f.inventory.AddStock(f.ctx, p.ID, 8, staff, "supplier delivery")
	require.NoError(t, err)
	assert.Equal(t, 8, got.StockQuantity)
	assert.Equal(t, models.ProductActive, got.Status)

	_, err = f.inventory.AddStock(f.ctx, p.ID, 0, staff, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.inventory.AddStock(f.ctx, 999, 1, staff, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.inventory.AddStock(f.ctx, p.ID, 1, affiliate, "")
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)
	assert.Equal(t, 8, f.stock(t, p.ID))
}

func TestAdjustStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Stocktake", "10", 10)

	got, err := f.inventory.AdjustStock(f.ctx, p.ID, 3, admin, "damaged")
	require.NoError(t, err)
	assert.Equal(t, 3, got.StockQuantity)
	assert.Len(t, f.events(notify.EventLowStock), 1)

	ledger, err := f.inventory.Ledger(f.ctx, p.ID, &types.LedgerRequest{})
	require.NoError(t, err)
	require.Len(t, ledger.List, 2)
	assert.Equal(t, string(models.InventoryAdjustment), ledger.List[0].Type)
	assert.Equal(t, -7, ledger.List[0].Quantity)
	assert.Equal(t, 3, ledger.List[0].StockAfter)

	// 数量不变时不记流水
	_, err = f.inventory.AdjustStock(f.ctx, p.ID, 3, admin, "recount")
	require.NoError(t, err)
	ledger, err = f.inventory.Ledger(f.ctx, p.ID, &types.LedgerRequest{})
	require.NoError(t, err)
	assert.Len(t, ledger.List, 2)

	_, err = f.inventory.AdjustStock(f.ctx, p.ID, -1, admin, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	got, err = f.inventory.AdjustStock(f.ctx, p.ID, 0, admin, "lost")
	require.NoError(t, err)
	assert.Equal(t, models.ProductOutOfStock, got.Status)
}

func TestDeductStock_RequiresTransaction(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Bare", "10", 5)

	_, err := f.inventory.DeductStock(f.ctx, &StockMove{ProductID: p.ID, Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrInternal)
	_, err = f.inventory.RestoreStock(f.ctx, &StockMove{ProductID: p.ID, Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrInternal)
	assert.Equal(t, 5, f.stock(t, p.ID))
}

func TestLedger_Pagination(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Paged", "10", 1)
	for i := 0; i < 4; i++ {
		_, err := f.inventory.AddStock(f.ctx, p.ID, 1, admin, "")
		require.NoError(t, err)
	}

	first, err := f.inventory.Ledger(f.ctx, p.ID, &types.LedgerRequest{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, first.List, 3)
	assert.True(t, first.HasMore)
	assert.Equal(t, 5, first.List[0].StockAfter)

	second, err := f.inventory.Ledger(f.ctx, p.ID, &types.LedgerRequest{Limit: 3, Cursor: first.NextCursor})
	require.NoError(t, err)
	assert.Len(t, second.List, 2)
	assert.False(t, second.HasMore)

	_, err = f.inventory.Ledger(f.ctx, 999, &types.LedgerRequest{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestReconcile_ReportsDrift(t *testing.T) {
	f := newFixture(t)
	ok := f.product(t, "Clean", "10", 5)
	bad := f.product(t, "Drifted", "10", 5)

	// 绕过服务直接改库存，模拟手工改库
	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", bad.ID).Update("stock_quantity", 9).Error)

	drifts, err := f.inventory.Reconcile(f.ctx)
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, bad.ID, drifts[0].ProductID)
	assert.Equal(t, 9, drifts[0].Stock)
	assert.Equal(t, 5, drifts[0].LedgerTotal)
	assert.NotEqual(t, ok.ID, drifts[0].ProductID)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t)
	sold := f.product(t, "Sold", "10", 5)
	unused := f.product(t, "Unused", "10", 0)
	cid := f.customer(t, "delete@example.com")

	_, err := f.orders.CreateOrder(f.ctx, f.order(admin, cid, OrderLine{ProductID: sold.ID, Quantity: 1}))
	require.NoError(t, err)

	err = f.inventory.DeleteProduct(f.ctx, sold.ID, admin)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	err = f.inventory.DeleteProduct(f.ctx, unused.ID, staff)
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)

	require.NoError(t, f.inventory.DeleteProduct(f.ctx, unused.ID, admin))
	err = f.inventory.DeleteProduct(f.ctx, unused.ID, admin)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, f.inventory.ArchiveProduct(f.ctx, sold.ID, admin))
	got, err := f.inventory.ProductDAO.FindByID(f.ctx, sold.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductInactive, got.Status)
}
