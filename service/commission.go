package service

import (
	"Omnisell/dao"
	"Omnisell/internal/workflow"
	"Omnisell/models"
	"Omnisell/pkg/apperr"
	"Omnisell/pkg/database"
	"Omnisell/pkg/log"
	"Omnisell/pkg/notify"
	"Omnisell/types"
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CommissionService struct {
	DB        *gorm.DB
	ConfigDAO *dao.CommissionConfig
	TxDAO     *dao.CommissionTx
	OrderDAO  *dao.Order
	Notifier  *notify.Dispatcher
}

var _ ICommissionService = (*CommissionService)(nil)

type ICommissionService interface {
	// ResolveConfig at 时刻生效的配置，没有时返回 nil
	ResolveConfig(ctx context.Context, earnerID uint64, at time.Time) (*models.CommissionConfig, error)
	CalculateAmount(ctx context.Context, earnerID uint64, orderTotal decimal.Decimal, at time.Time) (decimal.Decimal, error)
	// CreateForOrder 金额为 0 时不落库，返回 nil；同一 (订单, 收益人, 类型) 重复调用返回已有记录
	CreateForOrder(ctx context.Context, orderID, earnerID uint64, typ models.CommissionType, orderTotal decimal.Decimal) (*models.CommissionTransaction, error)
	ApproveForOrder(ctx context.Context, orderID, approverID uint64) ([]models.CommissionTransaction, error)
	RejectForOrder(ctx context.Context, orderID uint64) ([]models.CommissionTransaction, error)
	MarkPaid(ctx context.Context, commissionID uint64, actor workflow.Actor) (*models.CommissionTransaction, error)
	ApproveOrder(ctx context.Context, orderID uint64, actor workflow.Actor) ([]models.CommissionTransaction, error)
	SetConfig(ctx context.Context, req *types.SetCommissionConfigRequest, actor workflow.Actor) (*models.CommissionConfig, error)
	List(ctx context.Context, req *types.ListCommissionsRequest, actor workflow.Actor) (*types.ListCommissionsResponse, error)
}

func (s *CommissionService) ResolveConfig(ctx context.Context, earnerID uint64, at time.Time) (*models.CommissionConfig, error) {
	configs, err := s.ConfigDAO.ActiveForUser(ctx, earnerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	cfg, ambiguous := workflow.SelectEffective(configs, at)
	if ambiguous {
		log.L.Warn("overlapping commission configs",
			zap.Uint64("user_id", earnerID),
			zap.Uint64("selected", cfg.ID),
		)
	}
	return cfg, nil
}

func (s *CommissionService) CalculateAmount(ctx context.Context, earnerID uint64, orderTotal decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	cfg, err := s.ResolveConfig(ctx, earnerID, at)
	if err != nil {
		return decimal.Zero, err
	}
	return workflow.CommissionAmount(cfg, orderTotal), nil
}

func (s *CommissionService) CreateForOrder(ctx context.Context, orderID, earnerID uint64, typ models.CommissionType, orderTotal decimal.Decimal) (*models.CommissionTransaction, error) {
	var out *models.CommissionTransaction
	err := database.Transaction(ctx, s.DB, func(ctx context.Context) error {
		cfg, err := s.ResolveConfig(ctx, earnerID, time.Now())
		if err != nil {
			return err
		}
		amount := workflow.CommissionAmount(cfg, orderTotal)
		if amount.IsZero() {
			return nil
		}

		row, created, err := s.TxDAO.Insert(ctx, &models.CommissionTransaction{
			UserID:         earnerID,
			OrderID:        orderID,
			CommissionType: typ,
			RuleType:       cfg.Type,
			RuleValue:      cfg.Value,
			OrderTotal:     orderTotal,
			Amount:         amount,
			Status:         models.CommissionPending,
		})
		if err != nil {
			return apperr.Internal(err)
		}
		out = row
		if !created {
			log.L.Warn("commission already exists",
				zap.Uint64("order_id", orderID),
				zap.Uint64("user_id", earnerID),
				zap.String("type", string(typ)),
			)
			return nil
		}
		return s.syncOrderTotals(ctx, orderID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// syncOrderTotals 订单上的冗余佣金列与流水同事务写入
func (s *CommissionService) syncOrderTotals(ctx context.Context, orderID uint64) error {
	rows, err := s.TxDAO.ListByOrder(ctx, orderID)
	if err != nil {
		return apperr.Internal(err)
	}
	staff, affiliate := decimal.Zero, decimal.Zero
	for _, r := range rows {
		switch r.CommissionType {
		case models.CommissionStaff:
			staff = staff.Add(r.Amount)
		case models.CommissionAffiliate:
			affiliate = affiliate.Add(r.Amount)
		}
	}
	err = s.OrderDAO.UpdateColumns(ctx, orderID, map[string]any{
		"staff_commission":     staff,
		"affiliate_commission": affiliate,
	})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *CommissionService) ApproveForOrder(ctx context.Context, orderID, approverID uint64) ([]models.CommissionTransaction, error) {
	var out []models.CommissionTransaction
	err := database.Transaction(ctx, s.DB, func(ctx context.Context) error {
		rows, err := s.TxDAO.LockByOrder(ctx, orderID, models.CommissionPending)
		if err != nil {
			return apperr.Internal(err)
		}
		if len(rows) == 0 {
			return nil
		}

		now := time.Now()
		ids := make([]uint64, 0, len(rows))
		for i := range rows {
			ids = append(ids, rows[i].ID)
			rows[i].Status = models.CommissionApproved
			rows[i].ApprovedBy = ptrUint64(approverID)
			rows[i].ApprovedAt = &now
		}
		err = s.TxDAO.MoveStatus(ctx, ids, map[string]any{
			"status":      models.CommissionApproved,
			"approved_by": approverID,
			"approved_at": now,
		})
		if err != nil {
			return apperr.Internal(err)
		}

		sn := s.orderSn(ctx, orderID)
		for _, r := range rows {
			e := notify.NewEvent(notify.EventCommissionApproved)
			e.OrderID = orderID
			e.OrderSn = sn
			e.UserID = r.UserID
			e.Amount = r.Amount
			e.Data = map[string]any{"commission_id": r.ID, "commission_type": r.CommissionType}
			notify.Record(ctx, e)
		}
		out = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RejectForOrder 已支付的佣金不受影响
func (s *CommissionService) RejectForOrder(ctx context.Context, orderID uint64) ([]models.CommissionTransaction, error) {
	var out []models.CommissionTransaction
	err := database.Transaction(ctx, s.DB, func(ctx context.Context) error {
		rows, err := s.TxDAO.LockByOrder(ctx, orderID, models.CommissionPending, models.CommissionApproved)
		if err != nil {
			return apperr.Internal(err)
		}
		if len(rows) == 0 {
			return nil
		}

		now := time.Now()
		ids := make([]uint64, 0, len(rows))
		for i := range rows {
			ids = append(ids, rows[i].ID)
			rows[i].Status = models.CommissionRejected
			rows[i].RejectedAt = &now
		}
		err = s.TxDAO.MoveStatus(ctx, ids, map[string]any{
			"status":      models.CommissionRejected,
			"rejected_at": now,
		})
		if err != nil {
			return apperr.Internal(err)
		}
		out = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CommissionService) MarkPaid(ctx context.Context, commissionID uint64, actor workflow.Actor) (*models.CommissionTransaction, error) {
	if !workflow.CanManageCommissions(actor) {
		return nil, apperr.AccessDenied("only admin can pay commissions")
	}

	var out *models.CommissionTransaction
	err := s.Notifier.Within(ctx, func(ctx context.Context) error {
		return database.Transaction(ctx, s.DB, func(ctx context.Context) error {
			row, err := s.TxDAO.LockByID(ctx, commissionID)
			if err != nil {
				if dao.IsNotFound(err) {
					return apperr.NotFound("commission", commissionID)
				}
				return apperr.Internal(err)
			}
			if !workflow.CanMoveCommission(row.Status, models.CommissionPaid) {
				return apperr.InvalidTransition(string(row.Status), string(models.CommissionPaid))
			}

			now := time.Now()
			err = s.TxDAO.MoveStatus(ctx, []uint64{row.ID}, map[string]any{
				"status":  models.CommissionPaid,
				"paid_by": actor.ID,
				"paid_at": now,
			})
			if err != nil {
				return apperr.Internal(err)
			}
			row.Status = models.CommissionPaid
			row.PaidBy = ptrUint64(actor.ID)
			row.PaidAt = &now

			e := notify.NewEvent(notify.EventCommissionPaid)
			e.OrderID = row.OrderID
			e.OrderSn = s.orderSn(ctx, row.OrderID)
			e.UserID = row.UserID
			e.Amount = row.Amount
			e.Data = map[string]any{"commission_id": row.ID, "paid_by": actor.ID}
			notify.Record(ctx, e)

			out = row
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveOrder 管理员手工审批订单佣金
func (s *CommissionService) ApproveOrder(ctx context.Context, orderID uint64, actor workflow.Actor) ([]models.CommissionTransaction, error) {
	if !workflow.CanManageCommissions(actor) {
		return nil, apperr.AccessDenied("only admin can approve commissions")
	}
	if _, err := s.OrderDAO.FindByID(ctx, orderID); err != nil {
		if dao.IsNotFound(err) {
			return nil, apperr.NotFound("order", orderID)
		}
		return nil, apperr.Internal(err)
	}

	var out []models.CommissionTransaction
	err := s.Notifier.Within(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.ApproveForOrder(ctx, orderID, actor.ID)
		return err
	})
	return out, err
}

// SetConfig 新增配置，与之重叠的旧配置截止到新配置生效前，完全被覆盖的直接停用
func (s *CommissionService) SetConfig(ctx context.Context, req *types.SetCommissionConfigRequest, actor workflow.Actor) (*models.CommissionConfig, error) {
	if !workflow.CanManageCommissions(actor) {
		return nil, apperr.AccessDenied("only admin can manage commission configs")
	}
	typ := models.CommissionRuleType(req.Type)
	if typ != models.CommissionPercentage && typ != models.CommissionFixed {
		return nil, apperr.Validation("unknown commission type %q", req.Type)
	}
	if req.Value.IsNegative() || req.Value.IsZero() {
		return nil, apperr.Validation("commission value must be positive")
	}
	if typ == models.CommissionPercentage && req.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, apperr.Validation("percentage must not exceed 100")
	}
	from := time.Now()
	if req.EffectiveFrom != nil {
		from = *req.EffectiveFrom
	}
	if req.EffectiveUntil != nil && req.EffectiveUntil.Before(from) {
		return nil, apperr.Validation("effective_until must not be before effective_from")
	}

	cfg := &models.CommissionConfig{
		UserID:         req.UserID,
		Type:           typ,
		Value:          req.Value.Round(2),
		EffectiveFrom:  from,
		EffectiveUntil: req.EffectiveUntil,
		IsActive:       true,
		CreatedBy:      actor.ID,
	}
	err := database.Transaction(ctx, s.DB, func(ctx context.Context) error {
		existing, err := s.ConfigDAO.LockActiveForUser(ctx, req.UserID)
		if err != nil {
			return apperr.Internal(err)
		}
		for _, old := range existing {
			if !overlaps(&old, from, req.EffectiveUntil) {
				continue
			}
			if !old.EffectiveFrom.Before(from) {
				err = s.ConfigDAO.Deactivate(ctx, old.ID)
			} else {
				err = s.ConfigDAO.CloseAt(ctx, old.ID, from.Add(-time.Second))
			}
			if err != nil {
				return apperr.Internal(err)
			}
		}
		if err := s.ConfigDAO.Create(ctx, cfg); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func overlaps(c *models.CommissionConfig, from time.Time, until *time.Time) bool {
	if c.EffectiveUntil != nil && c.EffectiveUntil.Before(from) {
		return false
	}
	if until != nil && c.EffectiveFrom.After(*until) {
		return false
	}
	return true
}

// List 非管理员只能看自己的佣金
func (s *CommissionService) List(ctx context.Context, req *types.ListCommissionsRequest, actor workflow.Actor) (*types.ListCommissionsResponse, error) {
	f := dao.CommissionFilter{
		UserID:  req.UserID,
		OrderID: req.OrderID,
		Status:  models.CommissionStatus(req.Status),
		Cursor:  req.Cursor,
	}
	if !actor.IsAdmin() {
		f.UserID = actor.ID
	}
	limit := pageLimit(req.Limit)
	f.Limit = limit + 1

	rows, err := s.TxDAO.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	resp := &types.ListCommissionsResponse{List: make([]types.Commission, 0, len(rows))}
	if len(rows) > limit {
		resp.HasMore = true
		rows = rows[:limit]
	}
	for i := range rows {
		resp.List = append(resp.List, types.NewCommission(&rows[i]))
	}
	if len(rows) > 0 {
		resp.NextCursor = rows[len(rows)-1].ID
	}
	return resp, nil
}

func (s *CommissionService) orderSn(ctx context.Context, orderID uint64) string {
	o, err := s.OrderDAO.FindByID(ctx, orderID)
	if err != nil {
		return ""
	}
	return o.OrderSn
}
