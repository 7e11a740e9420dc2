package service

import (
	"Omnisell/config"
	"Omnisell/dao"
	"Omnisell/internal/workflow"
	"Omnisell/models"
	"Omnisell/pkg/apperr"
	"Omnisell/pkg/database"
	"Omnisell/pkg/log"
	"Omnisell/pkg/metrics"
	"Omnisell/pkg/notify"
	"Omnisell/types"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	refOrder  = "order"
	refManual = "manual"
)

// StockMove 一次库存变动，ReferenceID 指向触发它的订单
type StockMove struct {
	ProductID     uint64
	Quantity      int
	Type          models.InventoryTxType
	ReferenceType string
	ReferenceID   *uint64
	ActorID       uint64
	Note          string
}

type InventoryService struct {
	Config       *config.Config
	DB           *gorm.DB
	ProductDAO   *dao.Product
	InventoryDAO *dao.InventoryTx
	Notifier     *notify.Dispatcher
}

var _ IInventoryService = (*InventoryService)(nil)

type IInventoryService interface {
	// DeductStock 扣减库存，必须在调用方事务内执行
	DeductStock(ctx context.Context, move *StockMove) (*models.Product, error)
	// RestoreStock 回补库存，必须在调用方事务内执行
	RestoreStock(ctx context.Context, move *StockMove) (*models.Product, error)
	AddStock(ctx context.Context, productID uint64, quantity int, actor workflow.Actor, note string) (*models.Product, error)
	AdjustStock(ctx context.Context, productID uint64, newQuantity int, actor workflow.Actor, note string) (*models.Product, error)
	CreateProduct(ctx context.Context, req *types.CreateProductRequest, actor workflow.Actor) (*models.Product, error)
	ArchiveProduct(ctx context.Context, productID uint64, actor workflow.Actor) error
	DeleteProduct(ctx context.Context, productID uint64, actor workflow.Actor) error
	Ledger(ctx context.Context, productID uint64, req *types.LedgerRequest) (*types.LedgerResponse, error)
	Reconcile(ctx context.Context) ([]types.StockDrift, error)
}

func (s *InventoryService) lock(ctx context.Context, productID uint64) (*models.Product, error) {
	p, err := s.ProductDAO.LockByID(ctx, productID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, apperr.NotFound("product", productID)
		}
		return nil, apperr.Internal(err)
	}
	return p, nil
}

// apply 写库存与流水，调用方已持有行锁
func (s *InventoryService) apply(ctx context.Context, p *models.Product, delta int, move *StockMove) error {
	stock := p.StockQuantity + delta
	status := p.Status
	switch {
	case stock == 0 && status == models.ProductActive:
		status = models.ProductOutOfStock
	case stock > 0 && status == models.ProductOutOfStock:
		status = models.ProductActive
	}

	if err := s.ProductDAO.UpdateStock(ctx, p.ID, stock, status); err != nil {
		return apperr.Internal(err)
	}
	err := s.InventoryDAO.Create(ctx, &models.InventoryTransaction{
		ProductID:     p.ID,
		Type:          move.Type,
		Quantity:      delta,
		StockAfter:    stock,
		ReferenceType: move.ReferenceType,
		ReferenceID:   move.ReferenceID,
		ActorID:       move.ActorID,
		Note:          move.Note,
	})
	if err != nil {
		return apperr.Internal(err)
	}

	p.StockQuantity = stock
	p.Status = status
	metrics.StockMovements.WithLabelValues(string(move.Type)).Inc()

	if delta < 0 && p.IsLowStock() {
		s.lowStock(ctx, p)
	}
	return nil
}

func (s *InventoryService) lowStock(ctx context.Context, p *models.Product) {
	metrics.LowStock.Inc()
	e := notify.NewEvent(notify.EventLowStock)
	e.ProductID = p.ID
	e.Data = map[string]any{
		"sku":       p.Sku,
		"name":      p.ProductName,
		"stock":     p.StockQuantity,
		"threshold": p.LowStockThreshold,
	}
	if !notify.Record(ctx, e) {
		log.L.Warn("low stock event outside unit of work", zap.Uint64("product_id", p.ID))
	}
}

func (s *InventoryService) DeductStock(ctx context.Context, move *StockMove) (*models.Product, error) {
	if !database.InTx(ctx) {
		return nil, apperr.Internal(errors.New("deduct stock requires an enclosing transaction"))
	}
	if move.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	p, err := s.lock(ctx, move.ProductID)
	if err != nil {
		return nil, err
	}
	if p.StockQuantity < move.Quantity {
		return nil, apperr.InsufficientStock(p.ProductName, p.StockQuantity, move.Quantity)
	}
	if move.Type == "" {
		move.Type = models.InventorySale
	}
	if err := s.apply(ctx, p, -move.Quantity, move); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *InventoryService) RestoreStock(ctx context.Context, move *StockMove) (*models.Product, error) {
	if !database.InTx(ctx) {
		return nil, apperr.Internal(errors.New("restore stock requires an enclosing transaction"))
	}
	if move.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	p, err := s.lock(ctx, move.ProductID)
	if err != nil {
		return nil, err
	}
	if move.Type == "" {
		move.Type = models.InventoryReturn
	}
	if err := s.apply(ctx, p, move.Quantity, move); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *InventoryService) AddStock(ctx context.Context, productID uint64, quantity int, actor workflow.Actor, note string) (*models.Product, error) {
	if !workflow.CanManageInventory(actor) {
		return nil, apperr.AccessDenied("only admin or staff can change stock")
	}
	if quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	var out *models.Product
	err := s.Notifier.Within(ctx, func(ctx context.Context) error {
		return database.Transaction(ctx, s.DB, func(ctx context.Context) error {
			p, err := s.lock(ctx, productID)
			if err != nil {
				return err
			}
			err = s.apply(ctx, p, quantity, &StockMove{
				Type:          models.InventoryPurchase,
				ReferenceType: refManual,
				ActorID:       actor.ID,
				Note:          note,
			})
			out = p
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *InventoryService) AdjustStock(ctx context.Context, productID uint64, newQuantity int, actor workflow.Actor, note string) (*models.Product, error) {
	if !workflow.CanManageInventory(actor) {
		return nil, apperr.AccessDenied("only admin or staff can change stock")
	}
	if newQuantity < 0 {
		return nil, apperr.Validation("stock quantity must not be negative")
	}

	var out *models.Product
	err := s.Notifier.Within(ctx, func(ctx context.Context) error {
		return database.Transaction(ctx, s.DB, func(ctx context.Context) error {
			p, err := s.lock(ctx, productID)
			if err != nil {
				return err
			}
			out = p
			delta := newQuantity - p.StockQuantity
			if delta == 0 {
				return nil
			}
			return s.apply(ctx, p, delta, &StockMove{
				Type:          models.InventoryAdjustment,
				ReferenceType: refManual,
				ActorID:       actor.ID,
				Note:          note,
			})
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

var prefixPattern = regexp.MustCompile(`^[A-Z]{2,6}$`)

func (s *InventoryService) CreateProduct(ctx context.Context, req *types.CreateProductRequest, actor workflow.Actor) (*models.Product, error) {
	if !workflow.CanManageInventory(actor) {
		return nil, apperr.AccessDenied("only admin or staff can create products")
	}
	prefix := strings.ToUpper(strings.TrimSpace(req.CategoryPrefix))
	if !prefixPattern.MatchString(prefix) {
		return nil, apperr.Validation("category prefix must be 2-6 letters")
	}
	name := strings.TrimSpace(req.ProductName)
	if name == "" {
		return nil, apperr.Validation("product name is required")
	}
	if req.Price.IsNegative() || req.Cost.IsNegative() {
		return nil, apperr.Validation("price and cost must not be negative")
	}
	if req.Stock < 0 {
		return nil, apperr.Validation("stock must not be negative")
	}
	threshold := s.Config.Order.LowStockThreshold
	if req.LowStockThreshold != nil {
		if *req.LowStockThreshold < 0 {
			return nil, apperr.Validation("low stock threshold must not be negative")
		}
		threshold = *req.LowStockThreshold
	}

	p := &models.Product{
		CategoryPrefix:    prefix,
		ProductName:       name,
		Price:             req.Price.Round(2),
		Cost:              req.Cost.Round(2),
		LowStockThreshold: threshold,
		Status:            models.ProductOutOfStock,
	}
	err := database.Transaction(ctx, s.DB, func(ctx context.Context) error {
		seq, err := s.ProductDAO.NextSkuSeq(ctx, prefix)
		if err != nil {
			return apperr.Internal(err)
		}
		p.Sku = fmt.Sprintf("%s-%04d", prefix, seq)
		if err := s.ProductDAO.Create(ctx, p); err != nil {
			return apperr.Internal(err)
		}
		if req.Stock == 0 {
			return nil
		}
		// 期初库存记一笔入库，保证流水合计与库存一致
		return s.apply(ctx, p, req.Stock, &StockMove{
			Type:          models.InventoryPurchase,
			ReferenceType: refManual,
			ActorID:       actor.ID,
			Note:          "opening stock",
		})
	})
	if err != nil {
		return nil, err
	}
	log.L.Info("product created", zap.String("sku", p.Sku), zap.Int("stock", p.StockQuantity))
	return p, nil
}

func (s *InventoryService) ArchiveProduct(ctx context.Context, productID uint64, actor workflow.Actor) error {
	if !workflow.CanManageInventory(actor) {
		return apperr.AccessDenied("only admin or staff can archive products")
	}
	return database.Transaction(ctx, s.DB, func(ctx context.Context) error {
		if _, err := s.lock(ctx, productID); err != nil {
			return err
		}
		if err := s.ProductDAO.SetStatus(ctx, productID, models.ProductInactive); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}

// DeleteProduct 被订单明细引用的商品只能下架，不能物理删除
func (s *InventoryService) DeleteProduct(ctx context.Context, productID uint64, actor workflow.Actor) error {
	if !actor.IsAdmin() {
		return apperr.AccessDenied("only admin can delete products")
	}
	return database.Transaction(ctx, s.DB, func(ctx context.Context) error {
		p, err := s.lock(ctx, productID)
		if err != nil {
			return err
		}
		referenced, err := s.ProductDAO.IsReferenced(ctx, productID)
		if err != nil {
			return apperr.Internal(err)
		}
		if referenced {
			return apperr.Conflict("product %s is referenced by orders; archive it instead", p.ProductName)
		}
		if err := s.ProductDAO.Delete(ctx, productID); err != nil {
			return apperr.Internal(err)
		}
		log.L.Info("product deleted", zap.Uint64("product_id", productID), zap.String("sku", p.Sku))
		return nil
	})
}

func (s *InventoryService) Ledger(ctx context.Context, productID uint64, req *types.LedgerRequest) (*types.LedgerResponse, error) {
	if _, err := s.ProductDAO.FindByID(ctx, productID); err != nil {
		if dao.IsNotFound(err) {
			return nil, apperr.NotFound("product", productID)
		}
		return nil, apperr.Internal(err)
	}
	limit := pageLimit(req.Limit)
	rows, err := s.InventoryDAO.ListByProduct(ctx, productID, req.Cursor, limit+1)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	resp := &types.LedgerResponse{List: make([]types.LedgerEntry, 0, len(rows))}
	if len(rows) > limit {
		resp.HasMore = true
		rows = rows[:limit]
	}
	for i := range rows {
		resp.List = append(resp.List, types.NewLedgerEntry(&rows[i]))
	}
	if len(rows) > 0 {
		resp.NextCursor = rows[len(rows)-1].ID
	}
	return resp, nil
}

// Reconcile 对比每个商品的库存与流水合计
func (s *InventoryService) Reconcile(ctx context.Context) ([]types.StockDrift, error) {
	sums, err := s.InventoryDAO.SumByProduct(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	drifts := make([]types.StockDrift, 0)
	err = s.ProductDAO.EachBatch(ctx, 500, func(rows []models.Product) error {
		for _, p := range rows {
			if total := sums[p.ID]; total != p.StockQuantity {
				drifts = append(drifts, types.StockDrift{
					ProductID:   p.ID,
					Sku:         p.Sku,
					Stock:       p.StockQuantity,
					LedgerTotal: total,
				})
				log.L.Warn("stock drift",
					zap.String("sku", p.Sku),
					zap.Int("stock", p.StockQuantity),
					zap.Int("ledger_total", total),
				)
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return drifts, nil
}

func pageLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > 100:
		return 100
	}
	return limit
}

func ptrUint64(v uint64) *uint64 { return &v }
