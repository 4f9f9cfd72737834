package utils

import (
	"net/http"

	"growthyari/faults"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// JSONFault maps a fault kind to an HTTP status and sends the structured error.
// Callers need the kind to distinguish "someone else booked this" (conflict)
// from "your request was malformed" (validation).
func JSONFault(c *gin.Context, err error) {
	kind := faults.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case faults.KindValidation:
		status = http.StatusBadRequest
	case faults.KindNotFound:
		status = http.StatusNotFound
	case faults.KindConflict:
		status = http.StatusConflict
	case faults.KindPolicy:
		status = http.StatusForbidden
	case faults.KindInvalidState:
		status = http.StatusUnprocessableEntity
	}

	Logger := GetLogger()
	Logger.Warn("request fault", zap.String("kind", string(kind)), zap.Error(err))
	c.JSON(status, ErrorResponse{Message: err.Error(), Kind: string(kind)})
}
