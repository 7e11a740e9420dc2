package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code: 0,
		Msg:  "success",
		Data: data,
	})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{
		Code: 0,
		Msg:  "success",
		Data: data,
	})
}

// Fail 按 httpStatus 返回错误，code 与 http 状态码一致
func Fail(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, Response{
		Code: httpStatus,
		Msg:  msg,
	})
}

// FailWith 带错误类型和附加信息的失败响应
func FailWith(c *gin.Context, httpStatus int, kind string, msg string, details map[string]any) {
	c.JSON(httpStatus, Response{
		Code: httpStatus,
		Msg:  msg,
		Data: ErrorBody{Kind: kind, Details: details},
	})
}

type ErrorBody struct {
	Kind    string         `json:"kind"`
	Details map[string]any `json:"details,omitempty"`
}

func Abort(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Code: httpStatus,
		Msg:  msg,
		Data: nil,
	})
}
