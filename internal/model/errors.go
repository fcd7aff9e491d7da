package model

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindNotLoggedIn     ErrorKind = "NOT_LOGGED_IN"
	KindForbidden       ErrorKind = "FORBIDDEN"
	KindUnauthorized    ErrorKind = "UNAUTHORIZED"
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindConflict        ErrorKind = "CONFLICT"
	KindAlreadyLoggedIn ErrorKind = "ALREADY_LOGGED_IN"
	KindInvalid         ErrorKind = "INVALID"
	KindInternal        ErrorKind = "INTERNAL"
)

// AppError 业务错误，Kind 决定 HTTP 状态码
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus 错误类型到状态码的映射
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindNotLoggedIn, KindForbidden, KindAlreadyLoggedIn:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func NewNotLoggedInError() *AppError {
	return &AppError{Kind: KindNotLoggedIn, Message: "not logged in"}
}

// NewForbiddenError subject 为调用者描述，resource 为目标资源
func NewForbiddenError(subject, resource string) *AppError {
	return &AppError{Kind: KindForbidden, Message: fmt.Sprintf("%s cannot access %s", subject, resource)}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s %v not found", resource, id)}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func NewAlreadyLoggedInError() *AppError {
	return &AppError{Kind: KindAlreadyLoggedIn, Message: "already logged in"}
}

func NewInvalidError(message string) *AppError {
	return &AppError{Kind: KindInvalid, Message: message}
}

func NewInternalError(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal error", Err: err}
}

// AsAppError 非 AppError 一律视为内部错误
func AsAppError(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return NewInternalError(err)
}

// IsKind 判断错误链上是否为指定类型
func IsKind(err error, kind ErrorKind) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Kind == kind
}
