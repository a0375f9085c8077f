package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	housingdomain "github.com/smallbiznis/housing/internal/housing/domain"
	"github.com/smallbiznis/housing/internal/inference"
	"github.com/smallbiznis/housing/internal/ratelimit"
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

var (
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
		c.AbortWithStatusJSON(status, payload)
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

// bindError turns a JSON binding failure into field-level validation errors.
func bindError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		out := &ValidationErrors{Errors: make([]ValidationError, 0, len(fieldErrs))}
		for _, fe := range fieldErrs {
			out.Errors = append(out.Errors, ValidationError{
				Field:   fe.Field(),
				Code:    fe.Tag(),
				Message: fieldErrorMessage(fe),
			})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "request"
		}
		return newValidationError(field, "invalid_type", "must be "+typeErr.Type.String())
	}

	return invalidRequestError()
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "invalid value"
	}
}

func mapError(err error) (int, Envelope) {
	if err == nil {
		return http.StatusInternalServerError, failure(msgInternalError)
	}

	if vErr := asValidationErrors(err); vErr != nil {
		env := failure(msgValidationError)
		env.Errors = vErr.Errors
		return http.StatusBadRequest, env
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		env := failure(msgValidationError)
		env.Errors = []ValidationError{
			{
				Field:   validationErrorField(code),
				Code:    code,
				Message: validationErrorMessage(code),
			},
		}
		return http.StatusBadRequest, env
	}

	switch {
	case isNotFoundError(err):
		return http.StatusNotFound, failure(msgNotFound)
	case errors.Is(err, ratelimit.ErrTooManyRequests):
		return http.StatusTooManyRequests, failure(msgTooManyRequests)
	default:
		return http.StatusInternalServerError, failure(msgInternalError)
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
		errors.Is(err, housingdomain.ErrInvalidID),
		errors.Is(err, housingdomain.ErrInvalidRooms):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, housingdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, housingdomain.ErrInvalidID):
		return housingdomain.ErrInvalidID.Error()
	case errors.Is(err, housingdomain.ErrInvalidRooms):
		return housingdomain.ErrInvalidRooms.Error()
	default:
		return "invalid_request"
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	return strings.TrimPrefix(code, "invalid_")
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "invalid_id":
		return "id must be an integer"
	case "invalid_rooms":
		return "rooms must be between 1 and 1000"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog reports the error type and code for request logs.
func classifyErrorForLog(err error) (string, string) {
	status, _ := mapError(err)
	switch {
	case status == http.StatusBadRequest:
		code := validationErrorCode(err)
		if vErr := asValidationErrors(err); vErr != nil && len(vErr.Errors) > 0 {
			code = vErr.Errors[0].Code
		}
		return "validation_error", code
	case status == http.StatusNotFound:
		return "not_found", "not_found"
	case status == http.StatusTooManyRequests:
		return "rate_limited", "too_many_requests"
	case errors.Is(err, inference.ErrPrediction):
		return "internal_error", "prediction_failed"
	case errors.Is(err, inference.ErrInvalidArtifact):
		return "internal_error", "invalid_model_artifact"
	default:
		return "internal_error", "internal_error"
	}
}
