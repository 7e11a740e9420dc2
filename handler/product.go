package handler

import (
	"Omnisell/config"
	"Omnisell/internal/workflow"
	"Omnisell/middleware"
	"Omnisell/pkg/apperr"
	"Omnisell/pkg/context"
	"Omnisell/pkg/response"
	"Omnisell/service"
	"Omnisell/types"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	Config           *config.Config
	InventoryService service.IInventoryService
}

func (p *ProductHandler) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(p.Config.Jwt.Secret), p.Config.Jwt.Expire())
	products := r.Group("/v1/products")
	products.Use(authorize)
	products.POST("", context.Wrap(p.CreateProduct))
	products.DELETE("/:id", context.Wrap(p.DeleteProduct))
	products.POST("/:id/archive", context.Wrap(p.ArchiveProduct))
	products.POST("/:id/stock", context.Wrap(p.AddStock))   // 入库
	products.PUT("/:id/stock", context.Wrap(p.AdjustStock)) // 盘点
	products.GET("/:id/ledger", context.Wrap(p.Ledger))
}

func (p *ProductHandler) CreateProduct(c *gin.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req types.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return bindError(err)
	}
	product, err := p.InventoryService.CreateProduct(c.Request.Context(), &req, actor)
	if err != nil {
		return err
	}
	response.Created(c, types.NewProduct(product))
	return nil
}

func (p *ProductHandler) DeleteProduct(c *gin.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := p.InventoryService.DeleteProduct(c.Request.Context(), id, actor); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (p *ProductHandler) ArchiveProduct(c *gin.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := p.InventoryService.ArchiveProduct(c.Request.Context(), id, actor); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (p *ProductHandler) AddStock(c *gin.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return bindError(err)
	}
	product, err := p.InventoryService.AddStock(c.Request.Context(), id, req.Quantity, actor, req.Note)
	if err != nil {
		return err
	}
	response.Success(c, types.NewProduct(product))
	return nil
}

func (p *ProductHandler) AdjustStock(c *gin.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return bindError(err)
	}
	product, err := p.InventoryService.AdjustStock(c.Request.Context(), id, *req.NewQuantity, actor, req.Note)
	if err != nil {
		return err
	}
	response.Success(c, types.NewProduct(product))
	return nil
}

func (p *ProductHandler) Ledger(c *gin.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	if !workflow.CanManageInventory(actor) {
		return apperr.AccessDenied("only admin or staff can view the stock ledger")
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.LedgerRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return bindError(err)
	}
	resp, err := p.InventoryService.Ledger(c.Request.Context(), id, &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
