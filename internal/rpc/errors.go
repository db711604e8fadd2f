package rpc

import (
	"errors"
	"net/http"

	"pos-service/internal/service"

	"gorm.io/gorm"
)

type Code string

const (
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeBadRequest   Code = "BAD_REQUEST"
	CodeInternal     Code = "INTERNAL_SERVER_ERROR"
)

const (
	msgInvalidToken = "Invalid or expired token"
	msgAuthRequired = "Authentication required"
	msgForbidden    = "You do not have permission to perform this action"
	msgInternal     = "Internal server error"
)

// Error описывает ошибку в том виде, в каком её видит клиент.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return string(e.Code) + ": " + e.Message }

func NewError(code Code, msg string) *Error { return &Error{Code: code, Message: msg} }

func HTTPStatus(c Code) int {
	switch c {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// toRPCError сводит ошибку к таксономии; internal=true для всего непредусмотренного.
func toRPCError(err error) (rpcErr *Error, internal bool) {
	var re *Error
	if errors.As(err, &re) {
		return re, re.Code == CodeInternal
	}

	switch {
	case errors.Is(err, service.ErrTokenExpired), errors.Is(err, service.ErrInvalidToken):
		return NewError(CodeUnauthorized, msgInvalidToken), false
	case errors.Is(err, service.ErrUnauthorized):
		return NewError(CodeUnauthorized, msgAuthRequired), false
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInactiveUser):
		return NewError(CodeUnauthorized, err.Error()), false
	case errors.Is(err, service.ErrForbidden):
		return NewError(CodeForbidden, msgForbidden), false
	case errors.Is(err, service.ErrNotFound):
		return NewError(CodeNotFound, err.Error()), false
	case errors.Is(err, service.ErrAlreadyExists):
		return NewError(CodeConflict, err.Error()), false
	case errors.Is(err, service.ErrInsufficientStock), errors.Is(err, service.ErrBadRequest):
		return NewError(CodeBadRequest, err.Error()), false
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return NewError(CodeConflict, "resource already exists"), false
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return NewError(CodeBadRequest, "referenced resource does not exist"), false
	default:
		return NewError(CodeInternal, msgInternal), true
	}
}
