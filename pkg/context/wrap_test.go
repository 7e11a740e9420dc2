package context

import (
	"Omnisell/internal/workflow"
	"Omnisell/pkg/apperr"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetActor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		_, err := GetActor(c)
		assert.ErrorIs(t, err, apperr.ErrAccessDenied)
	})
	t.Run("wrong type", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(CtxUserID, "7")
		_, err := GetActor(c)
		assert.ErrorIs(t, err, apperr.ErrAccessDenied)
	})
	t.Run("ok", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(CtxUserID, uint64(7))
		c.Set(CtxRole, "staff")
		actor, err := GetActor(c)
		require.NoError(t, err)
		assert.Equal(t, workflow.Actor{ID: 7, Role: workflow.RoleStaff}, actor)
	})
}

func TestWrap_MissingActorIsForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Wrap(func(c *gin.Context) error {
		_, err := GetActor(c)
		return err
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body struct {
		Data struct {
			Kind string `json:"kind"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(apperr.KindAccessDenied), body.Data.Kind)
}
