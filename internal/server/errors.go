package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	discountdomain "github.com/snusnumrick/dojoflow/internal/discount/domain"
	"github.com/snusnumrick/dojoflow/internal/discount/engine"
	enrollmentdomain "github.com/snusnumrick/dojoflow/internal/enrollment/domain"
	familydomain "github.com/snusnumrick/dojoflow/internal/family/domain"
	invoicedomain "github.com/snusnumrick/dojoflow/internal/invoice/domain"
	paymentdomain "github.com/snusnumrick/dojoflow/internal/payment/domain"
	programdomain "github.com/snusnumrick/dojoflow/internal/program/domain"
	taxdomain "github.com/snusnumrick/dojoflow/internal/tax/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Code: err.Error(), Message: "invalid value"},
			},
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, familydomain.ErrInvalidName),
		errors.Is(err, familydomain.ErrInvalidEmail),
		errors.Is(err, familydomain.ErrInvalidBirthDate),
		errors.Is(err, familydomain.ErrInvalidID),
		errors.Is(err, programdomain.ErrInvalidName),
		errors.Is(err, programdomain.ErrInvalidFee),
		errors.Is(err, programdomain.ErrInvalidAgeRange),
		errors.Is(err, programdomain.ErrInvalidFrequency),
		errors.Is(err, programdomain.ErrInvalidID),
		errors.Is(err, taxdomain.ErrInvalidName),
		errors.Is(err, taxdomain.ErrInvalidTaxRate),
		errors.Is(err, taxdomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidInvoiceID),
		errors.Is(err, invoicedomain.ErrInvalidItem),
		errors.Is(err, invoicedomain.ErrUnknownTaxRate),
		errors.Is(err, invoicedomain.ErrInvoiceEmpty),
		errors.Is(err, paymentdomain.ErrInvalidPaymentID),
		errors.Is(err, paymentdomain.ErrInvalidMethod),
		errors.Is(err, paymentdomain.ErrInvalidAmount),
		errors.Is(err, discountdomain.ErrInvalidCode),
		errors.Is(err, engine.ErrInvalidKind),
		errors.Is(err, enrollmentdomain.ErrInvalidEnrollmentID):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, invoicedomain.ErrInvoiceNotDraft),
		errors.Is(err, invoicedomain.ErrInvoiceNotOpen),
		errors.Is(err, paymentdomain.ErrOverpayment),
		errors.Is(err, paymentdomain.ErrInvoiceNotOpen),
		errors.Is(err, discountdomain.ErrDuplicateCode),
		errors.Is(err, engine.ErrCodeInactive),
		errors.Is(err, engine.ErrCodeNotStarted),
		errors.Is(err, engine.ErrCodeExpired),
		errors.Is(err, engine.ErrUsageLimitReached),
		errors.Is(err, engine.ErrMinimumSpendUnmet),
		errors.Is(err, enrollmentdomain.ErrAlreadyEnrolled),
		errors.Is(err, enrollmentdomain.ErrNotEligible),
		errors.Is(err, enrollmentdomain.ErrEnrollmentNotOpen):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, familydomain.ErrNotFound),
		errors.Is(err, programdomain.ErrNotFound),
		errors.Is(err, taxdomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, invoicedomain.ErrItemNotFound),
		errors.Is(err, paymentdomain.ErrPaymentNotFound),
		errors.Is(err, discountdomain.ErrCodeNotFound),
		errors.Is(err, enrollmentdomain.ErrEnrollmentNotFound),
		errors.Is(err, enrollmentdomain.ErrStudentNotFound),
		errors.Is(err, enrollmentdomain.ErrClassNotFound),
		errors.Is(err, enrollmentdomain.ErrProgramNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
