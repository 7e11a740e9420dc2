package handler

import (
	"Omnisell/config"
	"Omnisell/middleware"
	"Omnisell/models"
	"Omnisell/pkg/context"
	"Omnisell/pkg/response"
	"Omnisell/service"
	"Omnisell/types"

	"github.com/gin-gonic/gin"
)

type Order struct {
	Config       *config.Config
	OrderService service.IOrderService
}

func (o *Order) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(o.Config.Jwt.Secret), o.Config.Jwt.Expire())
	order := r.Group("/v1/orders")
	order.Use(authorize)
	order.POST("", context.Wrap(o.CreateOrder))
	order.GET("", context.Wrap(o.ListOrders))
	order.GET("/:id", context.Wrap(o.GetOrder))
	order.PUT("/:id/status", context.Wrap(o.UpdateStatus))
	order.PUT("/:id/payment-status", context.Wrap(o.UpdatePaymentStatus))
}

func (o *Order) CreateOrder(c *gin.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req types.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return bindError(err)
	}

	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, service.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	order, err := o.OrderService.CreateOrder(c.Request.Context(), &service.CreateOrderInput{
		Actor:         actor,
		CustomerID:    req.CustomerID,
		ChannelID:     req.ChannelID,
		Lines:         lines,
		Discount:      req.Discount,
		ShippingFee:   req.ShippingFee,
		PaymentMethod: req.PaymentMethod,
		Shipping:      req.Shipping,
		AffiliateID:   req.AffiliateID,
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}
	response.Created(c, types.NewOrder(order))
	return nil
}

func (o *Order) ListOrders(c *gin.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req types.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return bindError(err)
	}
	resp, err := o.OrderService.ListOrders(c.Request.Context(), &req, actor)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (o *Order) GetOrder(c *gin.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	order, err := o.OrderService.GetOrder(c.Request.Context(), id, actor)
	if err != nil {
		return err
	}
	response.Success(c, types.NewOrder(order))
	return nil
}

func (o *Order) UpdateStatus(c *gin.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return bindError(err)
	}
	order, err := o.OrderService.UpdateStatus(c.Request.Context(), id, &req, actor)
	if err != nil {
		return err
	}
	response.Success(c, types.NewOrder(order))
	return nil
}

func (o *Order) UpdatePaymentStatus(c *gin.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return bindError(err)
	}
	order, err := o.OrderService.UpdatePaymentStatus(c.Request.Context(), id, models.PaymentStatus(req.PaymentStatus), actor)
	if err != nil {
		return err
	}
	response.Success(c, types.NewOrder(order))
	return nil
}
