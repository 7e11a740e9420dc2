package middleware

import (
	"Omnisell/pkg/response"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const WebhookSecretHeader = "X-Webhook-Secret"

// WebhookSecret 平台回调共享密钥校验，secret 为空时拒绝所有请求
func WebhookSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(WebhookSecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			response.Abort(c, http.StatusUnauthorized, "invalid webhook secret")
			return
		}
		c.Next()
	}
}
