package context

import (
	"Omnisell/internal/workflow"
	"Omnisell/pkg/apperr"
	"Omnisell/pkg/log"
	"Omnisell/pkg/response"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

type HandlerFunc func(*gin.Context) error

func Wrap(h func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {

			// 如果已经写过响应，直接返回
			if c.Writer.Written() {
				return
			}
			// 参数错误
			var be *response.BizError
			if errors.As(err, &be) {
				response.Fail(c, be.Code, be.Msg)
				return
			}

			ae := apperr.From(err)
			if ae.Kind == apperr.KindInternal {
				log.L.Error("request failed",
					zap.String("method", c.Request.Method),
					zap.String("path", c.FullPath()),
					zap.Error(err),
				)
				response.FailWith(c, http.StatusInternalServerError, string(ae.Kind), ae.Message, nil)
				return
			}
			response.FailWith(c, ae.HTTPStatus(), string(ae.Kind), ae.Message, ae.Details)
		}
	}
}

// GetActor 读取鉴权中间件写入的当前操作人
func GetActor(c *gin.Context) (workflow.Actor, error) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return workflow.Actor{}, apperr.AccessDenied("missing authenticated user")
	}
	uid, ok := v.(uint64)
	if !ok {
		return workflow.Actor{}, apperr.AccessDenied("invalid authenticated user")
	}
	role, _ := c.Get(CtxRole)
	r, _ := role.(string)
	return workflow.Actor{ID: uid, Role: workflow.Role(r)}, nil
}
