package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"

	"rentals-api/config"
	"rentals-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// ErrorHandler normalizes every error attached to the gin context into a
// uniform JSON response. Operational errors keep their message; anything
// else is logged and reported as a generic 500. In development the raw
// error and a stack trace are included.
func ErrorHandler(cfg *config.Config, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		appErr := normalizeError(last.Err)

		if cfg.IsDevelopment() {
			c.JSON(appErr.StatusCode, gin.H{
				"status":  statusLabel(appErr.StatusCode),
				"message": appErr.Message,
				"error":   last.Err.Error(),
				"stack":   string(debug.Stack()),
			})
			return
		}

		if appErr.Operational {
			c.JSON(appErr.StatusCode, gin.H{
				"status":  statusLabel(appErr.StatusCode),
				"message": appErr.Message,
			})
			return
		}

		logger.Error("unhandled error",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", last.Err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Something went very wrong!",
		})
	}
}

// normalizeError maps known persistence and token error categories onto
// the operational taxonomy; anything unrecognized becomes a non-operational
// internal error.
func normalizeError(err error) *utils.AppError {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return utils.NewConflictError("Duplicate value. Please use another value!")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.NewNotFoundError("Resource not found")
	case errors.Is(err, jwt.ErrTokenExpired):
		return utils.NewAuthError("Your token has expired! Please log in again.")
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrSignatureInvalid),
		errors.Is(err, jwt.ErrTokenNotValidYet):
		return utils.NewAuthError("Invalid token. Please log in again!")
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return utils.NewValidationError("Invalid identifier: " + numErr.Num)
	}

	return utils.NewInternalError(err)
}

// statusLabel mirrors the response contract: "fail" for client errors,
// "error" for server errors.
func statusLabel(code int) string {
	if code >= 400 && code < 500 {
		return "fail"
	}
	return "error"
}
