package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/platform/logger"
)

// FieldError is one entry of a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the body of the error envelope.
type APIError struct {
	Message string       `json:"message"`
	Code    string       `json:"code,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

// ErrorEnvelope wraps every error response as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

const (
	codeInvalidRequestBody = "INVALID_REQUEST_BODY"
	codeInternal           = "INTERNAL_ERROR"
)

// RespondError aborts the request with an error envelope.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondOK writes payload with status 200.
func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// statusFor maps an error kind onto an HTTP status.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidArgument, domain.KindValidationFailed:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidState, domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondDomainError writes the envelope for an error returned by a use
// case. Unclassified errors are logged and reported without their text.
func respondDomainError(c *gin.Context, log *logger.Logger, err error) {
	var failed *domain.ValidationFailedError
	if errors.As(err, &failed) {
		details := make([]FieldError, 0, len(failed.Errors))
		for _, v := range failed.Errors {
			details = append(details, FieldError{Field: v.Field, Message: v.Message})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorEnvelope{
			Error: APIError{
				Message: "sale validation failed",
				Code:    string(domain.ErrCodeValidationFailed),
				Details: details,
			},
		})
		return
	}

	var de *domain.DomainError
	if errors.As(err, &de) {
		status := statusFor(de.Kind)
		// Stored data that fails reconstruction is a server fault.
		if de.Code == domain.ErrCodeSaleCorrupted {
			status = http.StatusInternalServerError
		}
		if status == http.StatusInternalServerError {
			log.Error("unexpected domain error", "error", err, "path", c.FullPath())
		}
		c.AbortWithStatusJSON(status, ErrorEnvelope{
			Error: APIError{
				Message: de.Message,
				Code:    string(de.Code),
			},
		})
		return
	}

	log.Error("request failed", "error", err, "path", c.FullPath())
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorEnvelope{
		Error: APIError{
			Message: "internal server error",
			Code:    codeInternal,
		},
	})
}
