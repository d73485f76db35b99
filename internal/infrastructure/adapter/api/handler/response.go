package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/carwash-market/coin-ledger/internal/domain/error"
	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/dto"
)

// StatusCode maps a domain error to its HTTP status
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domainerr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domainerr.ErrForbidden), errors.Is(err, domainerr.ErrUserBanned):
		return http.StatusForbidden
	case domainerr.IsNotFoundError(err):
		return http.StatusNotFound
	case errors.Is(err, domainerr.ErrDuplicateUser),
		errors.Is(err, domainerr.ErrDuplicateVendor),
		errors.Is(err, domainerr.ErrDuplicateCategory),
		errors.Is(err, domainerr.ErrConcurrencyConflict):
		return http.StatusConflict
	case domainerr.IsBusinessRuleError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainerr.ErrValidation),
		errors.Is(err, domainerr.ErrInvalidRequest),
		errors.Is(err, domainerr.ErrInvalidAmount),
		errors.Is(err, domainerr.ErrInvalidDescription),
		errors.Is(err, domainerr.ErrInvalidUserID):
		return http.StatusBadRequest
	case errors.Is(err, domainerr.ErrDatabaseConnection):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type logFielder interface {
	LogFields() map[string]any
}

// respondError writes the {code, message} body for err. Messages of
// server-side failures are not exposed.
func respondError(c *gin.Context, logger coreport.Logger, err error) {
	status := StatusCode(err)
	message := err.Error()

	if status >= http.StatusInternalServerError {
		fields := map[string]any{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}
		var detailed logFielder
		if errors.As(err, &detailed) {
			for k, v := range detailed.LogFields() {
				fields[k] = v
			}
		}
		logger.Error("Request failed", fields)
		message = "Internal server error"
		if status == http.StatusServiceUnavailable {
			message = "Service temporarily unavailable"
		}
	}

	_ = c.Error(err).SetType(gin.ErrorTypePrivate)
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: message,
	})
}

// respondBindError answers a request whose body failed to bind
func respondBindError(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    domainerr.CodeValidation,
		Message: "Invalid request format: " + err.Error(),
	})
}
