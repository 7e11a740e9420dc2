package customer

import (
	"Omnisell/config"
	"Omnisell/internal/workflow"
	"Omnisell/middleware"
	"Omnisell/pkg/apperr"
	"Omnisell/pkg/context"
	"Omnisell/pkg/response"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler 客户模块的 HTTP 处理器
type Handler struct {
	Config *config.Config
	svc    Service
}

// NewHandler 构造函数
func NewHandler(conf *config.Config, svc Service) *Handler {
	return &Handler{Config: conf, svc: svc}
}

// RegisterRouter 注册路由
func (h *Handler) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret), h.Config.Jwt.Expire())
	customers := r.Group("/v1/customers")
	customers.Use(authorize)
	customers.GET("/:id", context.Wrap(h.GetCustomer))
}

// GetCustomer 客户资料只对内部人员开放
func (h *Handler) GetCustomer(c *gin.Context) error {
	actor, err := context.GetActor(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}
	if actor.Role != workflow.RoleAdmin && actor.Role != workflow.RoleStaff {
		return apperr.AccessDenied("customer records are restricted to staff")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.Validation("invalid customer id %q", c.Param("id"))
	}

	cust, err := h.svc.GetCustomer(c.Request.Context(), id)
	if err != nil {
		return err
	}
	response.Success(c, toResponse(cust))
	return nil
}
