package middleware

import (
	"Omnisell/internal/workflow"
	"Omnisell/pkg/context"
	"net/http"
	"strings"
	"time"

	"Omnisell/pkg/jwt"
	"Omnisell/pkg/response"

	"github.com/gin-gonic/gin"
)

// refreshBuffer 剩余有效期不足时在响应头下发新 token
const refreshBuffer = 5 * time.Minute

func Auth(secret []byte, expire time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, "malformed Authorization header")
			return
		}

		claims, err := jwt.ParseToken(secret, jwt.TokenAccess, parts[1])
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, err.Error())
			return
		}
		if !workflow.Role(claims.Role).Valid() {
			response.Abort(c, http.StatusForbidden, "unknown role")
			return
		}
		if jwt.ShouldRotateToken(claims, refreshBuffer) {
			newToken, err := jwt.GenerateToken(secret, claims.UserID, claims.Role, jwt.TokenAccess, expire)
			if err == nil {
				c.Header("X-New-Access-Token", newToken)
			}
		}
		c.Set(context.CtxUserID, claims.UserID)
		c.Set(context.CtxRole, claims.Role)

		c.Next()
	}
}
