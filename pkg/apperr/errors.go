// Package apperr 订单、库存、佣金服务返回的业务错误类型。
// 调用方用 Is / KindOf 区分业务规则失败与系统故障。
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindNotFound           Kind = "NOT_FOUND"
	KindAccessDenied       Kind = "ACCESS_DENIED"
	KindInsufficientStock  Kind = "INSUFFICIENT_STOCK"
	KindProductUnavailable Kind = "PRODUCT_UNAVAILABLE"
	KindInvalidTransition  Kind = "INVALID_STATUS_TRANSITION"
	KindConflict           Kind = "CONFLICT"
	KindInternal           Kind = "INTERNAL_ERROR"
)

// Error 业务错误，Message 可直接展示给调用方
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 按 Kind 比较，便于 errors.Is(err, apperr.ErrNotFound) 这类判断
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// HTTPStatus 映射到 HTTP 状态码
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAccessDenied:
		return http.StatusForbidden
	case KindInsufficientStock, KindProductUnavailable, KindInvalidTransition:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// 供 errors.Is 判断的哨兵错误
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrAccessDenied       = &Error{Kind: KindAccessDenied}
	ErrInsufficientStock  = &Error{Kind: KindInsufficientStock}
	ErrProductUnavailable = &Error{Kind: KindProductUnavailable}
	ErrInvalidTransition  = &Error{Kind: KindInvalidTransition}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrInternal           = &Error{Kind: KindInternal}
)

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(resource string, id any) *Error {
	return (&Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %v not found", resource, id)}).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

func AccessDenied(message string) *Error {
	if message == "" {
		message = "access denied"
	}
	return &Error{Kind: KindAccessDenied, Message: message}
}

func InsufficientStock(productName string, available, requested int) *Error {
	return (&Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("insufficient stock for %s: available %d, requested %d", productName, available, requested),
	}).WithDetail("product", productName).
		WithDetail("available", available).
		WithDetail("requested", requested)
}

func ProductUnavailable(productName string) *Error {
	return (&Error{
		Kind:    KindProductUnavailable,
		Message: fmt.Sprintf("product %s is not available for sale", productName),
	}).WithDetail("product", productName)
}

func InvalidTransition(from, to string) *Error {
	return (&Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("cannot change status from %s to %s", from, to),
	}).WithDetail("from", from).
		WithDetail("to", to)
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Internal 包装非预期错误，Message 固定，不向外暴露内部细节
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "operation failed", Err: err}
}

// From 把任意 error 转为 *Error，非业务错误一律视为 Internal
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return From(err).Kind
}
