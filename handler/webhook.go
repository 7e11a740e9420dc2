package handler

import (
	"Omnisell/config"
	"Omnisell/middleware"
	"Omnisell/pkg/apperr"
	"Omnisell/pkg/context"
	"Omnisell/pkg/response"
	"Omnisell/service"
	"io"

	"github.com/gin-gonic/gin"
)

// maxWebhookBody 平台推单报文上限
const maxWebhookBody = 1 << 20

type Webhook struct {
	Config           *config.Config
	IngestionService service.IIngestionService
}

func (h *Webhook) RegisterRouter(r gin.IRouter) {
	webhooks := r.Group("/v1/webhooks")
	webhooks.Use(middleware.WebhookSecret(h.Config.Webhook.Secret))
	webhooks.POST("/:marketplace", context.Wrap(h.Receive))
}

func (h *Webhook) Receive(c *gin.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
	if err != nil {
		return apperr.Validation("read body: %s", err.Error())
	}
	if len(body) > maxWebhookBody {
		return apperr.Validation("payload too large")
	}
	res, err := h.IngestionService.Ingest(c.Request.Context(), c.Param("marketplace"), body)
	if err != nil {
		return err
	}
	if res.Duplicate {
		response.Success(c, res)
		return nil
	}
	response.Created(c, res)
	return nil
}
