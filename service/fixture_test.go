package service

import (
	"Omnisell/config"
	"Omnisell/dao"
	"Omnisell/dao/cache"
	"Omnisell/internal/module/customer"
	"Omnisell/internal/workflow"
	"Omnisell/models"
	"Omnisell/pkg/notify"
	"Omnisell/pkg/testkit"
	"Omnisell/types"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	admin      = workflow.Actor{ID: 1, Role: workflow.RoleAdmin}
	staff      = workflow.Actor{ID: 7, Role: workflow.RoleStaff}
	otherStaff = workflow.Actor{ID: 8, Role: workflow.RoleStaff}
	affiliate  = workflow.Actor{ID: 9, Role: workflow.RoleAffiliate}
)

type fixture struct {
	ctx        context.Context
	db         *gorm.DB
	conf       *config.Config
	notifier   *notify.Dispatcher
	sink       *testkit.RecordingSink
	redis      *miniredis.Miniredis
	customers  customer.Service
	inventory  *InventoryService
	commission *CommissionService
	orders     *OrderService
	ingestion  *IngestionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testkit.NewDB(t)
	conf, err := config.Parse([]byte("webhook:\n  ref_salt: test\n"))
	require.NoError(t, err)
	notifier, sink := testkit.NewDispatcher()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	productDAO := dao.NewProduct(db)
	orderDAO := dao.NewOrder(db)
	channelDAO := dao.NewChannel(db)
	customers := customer.NewService(customer.NewRepository(db))

	inventory := &InventoryService{
		Config:       conf,
		DB:           db,
		ProductDAO:   productDAO,
		InventoryDAO: dao.NewInventoryTx(db),
		Notifier:     notifier,
	}
	commission := &CommissionService{
		DB:        db,
		ConfigDAO: dao.NewCommissionConfig(db),
		TxDAO:     dao.NewCommissionTx(db),
		OrderDAO:  orderDAO,
		Notifier:  notifier,
	}
	orders := &OrderService{
		Config:     conf,
		DB:         db,
		OrderDAO:   orderDAO,
		ProductDAO: productDAO,
		ChannelDAO: channelDAO,
		Inventory:  inventory,
		Commission: commission,
		Customer:   customers,
		Notifier:   notifier,
	}
	ingestion := &IngestionService{
		Config:     conf,
		WebhookDAO: dao.NewWebhookLog(db),
		ChannelDAO: channelDAO,
		ProductDAO: productDAO,
		OrderDAO:   orderDAO,
		Guard:      cache.NewWebhookGuard(rdb),
		Customer:   customers,
		Orders:     orders,
	}

	return &fixture{
		ctx:        context.Background(),
		db:         db,
		conf:       conf,
		notifier:   notifier,
		sink:       sink,
		redis:      mr,
		customers:  customers,
		inventory:  inventory,
		commission: commission,
		orders:     orders,
		ingestion:  ingestion,
	}
}

func (f *fixture) product(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	p, err := f.inventory.CreateProduct(f.ctx, &types.CreateProductRequest{
		CategoryPrefix: "TS",
		ProductName:    name,
		Price:          decimal.RequireFromString(price),
		Cost:           decimal.RequireFromString(price).Div(decimal.NewFromInt(2)),
		Stock:          stock,
	}, admin)
	require.NoError(t, err)
	return p
}

func (f *fixture) customer(t *testing.T, email string) uint64 {
	t.Helper()
	c, err := f.customers.Upsert(f.ctx, &customer.UpsertInput{Name: "Buyer", Email: email})
	require.NoError(t, err)
	return c.ID
}

func (f *fixture) rate(t *testing.T, userID uint64, typ, value string) {
	t.Helper()
	_, err := f.commission.SetConfig(f.ctx, &types.SetCommissionConfigRequest{
		UserID: userID,
		Type:   typ,
		Value:  decimal.RequireFromString(value),
	}, admin)
	require.NoError(t, err)
}

func (f *fixture) stock(t *testing.T, productID uint64) int {
	t.Helper()
	p, err := f.inventory.ProductDAO.FindByID(f.ctx, productID)
	require.NoError(t, err)
	return p.StockQuantity
}

func (f *fixture) commissions(t *testing.T, orderID uint64) []models.CommissionTransaction {
	t.Helper()
	rows, err := f.commission.TxDAO.ListByOrder(f.ctx, orderID)
	require.NoError(t, err)
	return rows
}

func (f *fixture) order(actor workflow.Actor, customerID uint64, lines ...OrderLine) *CreateOrderInput {
	return &CreateOrderInput{
		Actor:         actor,
		CustomerID:    customerID,
		Lines:         lines,
		ShippingFee:   decimal.NewFromInt(10),
		PaymentMethod: "bank_transfer",
		Shipping:      types.ShippingInfo{Name: "Buyer", Address: "Jl. Sudirman 1", City: "Jakarta"},
	}
}

// events 等待异步投递完成后返回
func (f *fixture) events(typ notify.EventType) []notify.Event {
	f.notifier.Wait()
	return f.sink.OfType(typ)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
