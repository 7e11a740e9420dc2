package handler

import (
	"Omnisell/config"
	"Omnisell/middleware"
	"Omnisell/pkg/context"
	"Omnisell/pkg/response"
	"Omnisell/service"
	"Omnisell/types"

	"github.com/gin-gonic/gin"
)

type Commission struct {
	Config            *config.Config
	CommissionService service.ICommissionService
}

func (h *Commission) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret), h.Config.Jwt.Expire())
	commissions := r.Group("/v1/commissions")
	commissions.Use(authorize)
	commissions.GET("", context.Wrap(h.List))
	commissions.POST("/configs", context.Wrap(h.SetConfig))
	commissions.POST("/:id/pay", context.Wrap(h.MarkPaid))
	commissions.POST("/orders/:orderId/approve", context.Wrap(h.ApproveOrder))
}

func (h *Commission) List(c *gin.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req types.ListCommissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return bindError(err)
	}
	resp, err := h.CommissionService.List(c.Request.Context(), &req, actor)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Commission) SetConfig(c *gin.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req types.SetCommissionConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return bindError(err)
	}
	cfg, err := h.CommissionService.SetConfig(c.Request.Context(), &req, actor)
	if err != nil {
		return err
	}
	response.Created(c, cfg)
	return nil
}

func (h *Commission) MarkPaid(c *gin.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	row, err := h.CommissionService.MarkPaid(c.Request.Context(), id, actor)
	if err != nil {
		return err
	}
	response.Success(c, types.NewCommission(row))
	return nil
}

func (h *Commission) ApproveOrder(c *gin.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	orderID, err := paramID(c, "orderId")
	if err != nil {
		return err
	}
	rows, err := h.CommissionService.ApproveOrder(c.Request.Context(), orderID, actor)
	if err != nil {
		return err
	}
	list := make([]types.Commission, 0, len(rows))
	for i := range rows {
		list = append(list, types.NewCommission(&rows[i]))
	}
	response.Success(c, list)
	return nil
}
