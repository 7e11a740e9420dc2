package service

import (
	"Omnisell/config"
	"Omnisell/dao"
	"Omnisell/internal/module/customer"
	"Omnisell/internal/workflow"
	"Omnisell/models"
	"Omnisell/pkg/apperr"
	"Omnisell/pkg/database"
	"Omnisell/pkg/log"
	"Omnisell/pkg/metrics"
	"Omnisell/pkg/notify"
	"Omnisell/pkg/snowflake"
	"Omnisell/types"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderLine 下单行，Price 为空时取商品售价
type OrderLine struct {
	ProductID uint64
	Quantity  int
	Price     *decimal.Decimal
}

// CreateOrderInput 内部下单与外部推单共用
type CreateOrderInput struct {
	Actor           workflow.Actor
	CustomerID      uint64
	ChannelID       uint64
	Lines           []OrderLine
	Discount        decimal.Decimal
	ShippingFee     decimal.Decimal
	PaymentMethod   string
	Shipping        types.ShippingInfo
	AffiliateID     *uint64
	Notes           string
	ExternalOrderID *string
	// 外部订单由平台确认，初始状态不同于内部订单
	InitialStatus  models.OrderStatus
	InitialPayment models.PaymentStatus
}

type OrderService struct {
	Config     *config.Config
	DB         *gorm.DB
	OrderDAO   *dao.Order
	ProductDAO *dao.Product
	ChannelDAO *dao.Channel
	Inventory  IInventoryService
	Commission ICommissionService
	Customer   customer.Service
	Notifier   *notify.Dispatcher
}

var _ IOrderService = (*OrderService)(nil)

type IOrderService interface {
	CreateOrder(ctx context.Context, in *CreateOrderInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uint64, req *types.UpdateOrderStatusRequest, actor workflow.Actor) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID uint64, status models.PaymentStatus, actor workflow.Actor) (*models.Order, error)
	GetOrder(ctx context.Context, orderID uint64, actor workflow.Actor) (*models.Order, error)
	ListOrders(ctx context.Context, req *types.ListOrdersRequest, actor workflow.Actor) (*types.ListOrdersResponse, error)
}

// mergeLines 同一商品合并为一行，保证一次下单不会重复锁同一商品
func mergeLines(lines []OrderLine) ([]OrderLine, error) {
	out := make([]OrderLine, 0, len(lines))
	index := make(map[uint64]int, len(lines))
	for _, l := range lines {
		if l.ProductID == 0 {
			return nil, apperr.Validation("product_id is required")
		}
		if l.Quantity <= 0 {
			return nil, apperr.Validation("quantity must be positive")
		}
		if i, ok := index[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, in *CreateOrderInput) (*models.Order, error) {
	if !workflow.CanCreateOrder(in.Actor) {
		return nil, apperr.AccessDenied("affiliates cannot create orders")
	}
	if len(in.Lines) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}
	lines, err := mergeLines(in.Lines)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return nil, apperr.Validation("payment method is required")
	}
	status := in.InitialStatus
	if status == "" {
		status = models.OrderPending
	}
	payment := in.InitialPayment
	if payment == "" {
		payment = models.PaymentPending
	}

	var order *models.Order
	var channelType string
	err = s.Notifier.Within(ctx, func(ctx context.Context) error {
		return database.Transaction(ctx, s.DB, func(ctx context.Context) error {
			if _, err := s.Customer.GetCustomer(ctx, in.CustomerID); err != nil {
				return err
			}
			channel, err := s.resolveChannel(ctx, in.ChannelID)
			if err != nil {
				return err
			}
			channelType = channel.Type

			// 1. 按明细顺序逐个锁商品并校验
			items := make([]models.OrderItem, 0, len(lines))
			priced := make([]workflow.Line, 0, len(lines))
			for _, l := range lines {
				p, err := s.ProductDAO.LockByID(ctx, l.ProductID)
				if err != nil {
					if dao.IsNotFound(err) {
						return apperr.NotFound("product", l.ProductID)
					}
					return apperr.Internal(err)
				}
				// 仅 active 可售，out_of_stock 与 inactive 都视为不可售
				if p.Status != models.ProductActive {
					return apperr.ProductUnavailable(p.ProductName)
				}
				if p.StockQuantity < l.Quantity {
					return apperr.InsufficientStock(p.ProductName, p.StockQuantity, l.Quantity)
				}

				price := p.Price
				if l.Price != nil && l.Price.IsPositive() {
					price = l.Price.Round(2)
				}
				line := workflow.Line{Price: price, Cost: p.Cost, Quantity: l.Quantity}
				priced = append(priced, line)
				items = append(items, models.OrderItem{
					ProductID:   p.ID,
					ProductName: p.ProductName,
					ProductSku:  p.Sku,
					Price:       price,
					Cost:        p.Cost,
					Quantity:    l.Quantity,
					Subtotal:    line.Subtotal(),
					Profit:      line.Profit(),
				})
			}

			// 2. 计价
			totals, err := workflow.ComputeTotals(priced, in.Discount, in.ShippingFee, s.Config.Order.Tax())
			if err != nil {
				return err
			}

			// 3. 订单与明细
			now := time.Now()
			order = &models.Order{
				OrderSn:             snowflake.GenOrderSn(s.Config.Order.SnPrefix),
				CustomerID:          in.CustomerID,
				ChannelID:           channel.ID,
				ExternalOrderID:     in.ExternalOrderID,
				AffiliateID:         in.AffiliateID,
				Subtotal:            totals.Subtotal,
				Discount:            totals.Discount,
				ShippingFee:         totals.ShippingFee,
				Tax:                 totals.Tax,
				Total:               totals.Total,
				TotalProfit:         totals.Profit,
				StaffCommission:     decimal.Zero,
				AffiliateCommission: decimal.Zero,
				Status:              status,
				PaymentStatus:       payment,
				PaymentMethod:       strings.ToLower(strings.TrimSpace(in.PaymentMethod)),
				ShippingName:        in.Shipping.Name,
				ShippingPhone:       in.Shipping.Phone,
				ShippingAddress:     in.Shipping.Address,
				ShippingCity:        in.Shipping.City,
				ShippingPostalCode:  in.Shipping.PostalCode,
				Notes:               in.Notes,
				CreatedBy:           in.Actor.ID,
				Items:               items,
			}
			if in.Actor.Role == workflow.RoleStaff {
				order.StaffID = ptrUint64(in.Actor.ID)
			}
			workflow.Stamp(order, status, now)
			if payment == models.PaymentPaid {
				order.PaidAt = &now
			}
			if err := s.OrderDAO.CreateWithItems(ctx, order); err != nil {
				if dao.IsDuplicate(err) {
					return apperr.Conflict("order already exists").Wrap(err)
				}
				return apperr.Internal(err)
			}

			// 4. 扣库存
			for _, it := range order.Items {
				_, err := s.Inventory.DeductStock(ctx, &StockMove{
					ProductID:     it.ProductID,
					Quantity:      it.Quantity,
					Type:          models.InventorySale,
					ReferenceType: refOrder,
					ReferenceID:   ptrUint64(order.ID),
					ActorID:       in.Actor.ID,
					Note:          fmt.Sprintf("order %s", order.OrderSn),
				})
				if err != nil {
					return err
				}
			}

			// 5. 佣金
			if order.StaffID != nil {
				if _, err := s.Commission.CreateForOrder(ctx, order.ID, *order.StaffID, models.CommissionStaff, order.Total); err != nil {
					return err
				}
			}
			if order.AffiliateID != nil {
				if _, err := s.Commission.CreateForOrder(ctx, order.ID, *order.AffiliateID, models.CommissionAffiliate, order.Total); err != nil {
					return err
				}
			}
			if payment == models.PaymentPaid {
				if _, err := s.Commission.ApproveForOrder(ctx, order.ID, in.Actor.ID); err != nil {
					return err
				}
			}

			// 6. 客户累计
			if err := s.Customer.RecordOrder(ctx, in.CustomerID, order.Total); err != nil {
				return err
			}

			order, err = s.OrderDAO.FindWithItems(ctx, order.ID)
			if err != nil {
				return apperr.Internal(err)
			}

			e := notify.NewEvent(notify.EventOrderCreated)
			e.OrderID = order.ID
			e.OrderSn = order.OrderSn
			e.Amount = order.Total
			e.UserID = in.Actor.ID
			e.Data = map[string]any{
				"customer_id": order.CustomerID,
				"channel":     channel.Type,
				"status":      order.Status,
				"items":       len(order.Items),
			}
			notify.Record(ctx, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCreated.WithLabelValues(channelType).Inc()
	log.L.Info("order created",
		zap.String("order_sn", order.OrderSn),
		zap.Uint64("order_id", order.ID),
		zap.String("total", order.Total.StringFixed(2)),
		zap.String("channel", channelType),
	)
	return order, nil
}

func (s *OrderService) resolveChannel(ctx context.Context, channelID uint64) (*models.SalesChannel, error) {
	if channelID == 0 {
		typ := s.Config.Order.DefaultChannel
		ch, err := s.ChannelDAO.FirstOrCreate(ctx, typ, channelName(typ))
		if err != nil {
			return nil, apperr.Internal(err)
		}
		return ch, nil
	}
	ch, err := s.ChannelDAO.FindByID(ctx, channelID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, apperr.NotFound("sales channel", channelID)
		}
		return nil, apperr.Internal(err)
	}
	if !ch.IsActive {
		return nil, apperr.Validation("sales channel %s is inactive", ch.Name)
	}
	return ch, nil
}

func channelName(typ string) string {
	if typ == "" {
		return typ
	}
	return strings.ToUpper(typ[:1]) + typ[1:]
}

func (s *OrderService) lockOrder(ctx context.Context, orderID uint64) (*models.Order, error) {
	o, err := s.OrderDAO.LockByID(ctx, orderID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, apperr.NotFound("order", orderID)
		}
		return nil, apperr.Internal(err)
	}
	return o, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint64, req *types.UpdateOrderStatusRequest, actor workflow.Actor) (*models.Order, error) {
	to := models.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !workflow.ValidOrderStatus(to) {
		return nil, apperr.Validation("unknown order status %q", req.Status)
	}

	var order *models.Order
	var from models.OrderStatus
	err := s.Notifier.Within(ctx, func(ctx context.Context) error {
		return database.Transaction(ctx, s.DB, func(ctx context.Context) error {
			o, err := s.lockOrder(ctx, orderID)
			if err != nil {
				return err
			}
			if !workflow.CanTransition(actor, o, to) {
				return apperr.AccessDenied("you cannot update this order")
			}
			if err := workflow.CheckTransition(o.Status, to); err != nil {
				return err
			}
			from = o.Status

			if workflow.ReversesOrder(to) {
				if err := s.reverse(ctx, o, to, actor); err != nil {
					return err
				}
				o.CancelReason = req.Reason
			}
			if to == models.OrderShipped {
				if req.TrackingNumber != "" {
					o.TrackingNumber = req.TrackingNumber
				}
				if req.Courier != "" {
					o.Courier = req.Courier
				}
			}
			if req.Notes != "" {
				o.Notes = req.Notes
			}
			workflow.Stamp(o, to, time.Now())
			o.Status = to
			if err := s.OrderDAO.Save(ctx, o); err != nil {
				return apperr.Internal(err)
			}

			e := notify.NewEvent(notify.EventOrderStatusChanged)
			e.OrderID = o.ID
			e.OrderSn = o.OrderSn
			e.Amount = o.Total
			e.UserID = actor.ID
			e.Data = map[string]any{"from": from, "to": to}
			notify.Record(ctx, e)

			order, err = s.OrderDAO.FindWithItems(ctx, o.ID)
			if err != nil {
				return apperr.Internal(err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues("status", string(to)).Inc()
	log.L.Info("order status changed",
		zap.String("order_sn", order.OrderSn),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Uint64("actor", actor.ID),
	)
	return order, nil
}

// reverse 取消或退款：逐行回补库存，作废未支付佣金
func (s *OrderService) reverse(ctx context.Context, o *models.Order, to models.OrderStatus, actor workflow.Actor) error {
	items, err := s.OrderDAO.Items(ctx, o.ID)
	if err != nil {
		return apperr.Internal(err)
	}
	for _, it := range items {
		_, err := s.Inventory.RestoreStock(ctx, &StockMove{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			Type:          models.InventoryReturn,
			ReferenceType: refOrder,
			ReferenceID:   ptrUint64(o.ID),
			ActorID:       actor.ID,
			Note:          fmt.Sprintf("order %s %s", o.OrderSn, to),
		})
		if err != nil {
			return err
		}
	}
	_, err = s.Commission.RejectForOrder(ctx, o.ID)
	return err
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID uint64, status models.PaymentStatus, actor workflow.Actor) (*models.Order, error) {
	status = models.PaymentStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if !workflow.ValidPaymentStatus(status) {
		return nil, apperr.Validation("unknown payment status %q", status)
	}

	var order *models.Order
	var from models.PaymentStatus
	err := s.Notifier.Within(ctx, func(ctx context.Context) error {
		return database.Transaction(ctx, s.DB, func(ctx context.Context) error {
			o, err := s.lockOrder(ctx, orderID)
			if err != nil {
				return err
			}
			if !workflow.CanUpdatePayment(actor, o) {
				return apperr.AccessDenied("you cannot update payment of this order")
			}
			if err := workflow.CheckPaymentTransition(o.PaymentStatus, status); err != nil {
				return err
			}
			from = o.PaymentStatus

			switch status {
			case models.PaymentPaid:
				now := time.Now()
				o.PaidAt = &now
				if _, err := s.Commission.ApproveForOrder(ctx, o.ID, actor.ID); err != nil {
					return err
				}
			case models.PaymentRefunded:
				if _, err := s.Commission.RejectForOrder(ctx, o.ID); err != nil {
					return err
				}
			}
			o.PaymentStatus = status
			if err := s.OrderDAO.Save(ctx, o); err != nil {
				return apperr.Internal(err)
			}

			e := notify.NewEvent(notify.EventPaymentStatusChange)
			e.OrderID = o.ID
			e.OrderSn = o.OrderSn
			e.Amount = o.Total
			e.UserID = actor.ID
			e.Data = map[string]any{"from": from, "to": status}
			notify.Record(ctx, e)

			order, err = s.OrderDAO.FindWithItems(ctx, o.ID)
			if err != nil {
				return apperr.Internal(err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues("payment", string(status)).Inc()
	log.L.Info("payment status changed",
		zap.String("order_sn", order.OrderSn),
		zap.String("from", string(from)),
		zap.String("to", string(status)),
		zap.Uint64("actor", actor.ID),
	)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint64, actor workflow.Actor) (*models.Order, error) {
	o, err := s.OrderDAO.FindWithItems(ctx, orderID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, apperr.NotFound("order", orderID)
		}
		return nil, apperr.Internal(err)
	}
	if !workflow.CanView(actor, o) {
		return nil, apperr.AccessDenied("you cannot view this order")
	}
	return o, nil
}

// ListOrders staff 只看自己负责的订单，affiliate 只看给自己记佣的订单
func (s *OrderService) ListOrders(ctx context.Context, req *types.ListOrdersRequest, actor workflow.Actor) (*types.ListOrdersResponse, error) {
	f := dao.OrderFilter{
		Status:        models.OrderStatus(req.Status),
		PaymentStatus: models.PaymentStatus(req.PaymentStatus),
		CustomerID:    req.CustomerID,
		ChannelID:     req.ChannelID,
		Cursor:        req.Cursor,
	}
	switch actor.Role {
	case workflow.RoleAdmin:
	case workflow.RoleStaff:
		f.StaffID = ptrUint64(actor.ID)
	case workflow.RoleAffiliate:
		f.AffiliateID = ptrUint64(actor.ID)
	default:
		return nil, apperr.AccessDenied("")
	}
	limit := pageLimit(req.Limit)
	f.Limit = limit + 1

	rows, err := s.OrderDAO.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	resp := &types.ListOrdersResponse{List: make([]*types.Order, 0, len(rows))}
	if len(rows) > limit {
		resp.HasMore = true
		rows = rows[:limit]
	}
	for i := range rows {
		resp.List = append(resp.List, types.NewOrder(&rows[i]))
	}
	if len(rows) > 0 {
		resp.NextCursor = rows[len(rows)-1].ID
	}
	return resp, nil
}
