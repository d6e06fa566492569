package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerdesk/ledger/shared/i18n"
	"github.com/ledgerdesk/ledger/shared/utils"
)

var validate = newValidator()

// newValidator reports fields by their JSON name so details match the body
// the client sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	// Byte length, not runes: bcrypt rejects longer input.
	_ = v.RegisterValidation("password_bytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= utils.MaxPasswordBytes
	})
	return v
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type BadRequestErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Details []ValidationError `json:"details"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ValidateRequest runs the struct's validate tags and returns nil when the
// request is valid.
func ValidateRequest(obj any) []ValidationError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []ValidationError{{Message: err.Error(), Type: "invalid"}}
	}

	out := make([]ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
			Type:    fe.Tag(),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "password_bytes":
		return fmt.Sprintf("Ensure this field has no more than %d bytes.", utils.MaxPasswordBytes)
	case "min":
		return "Ensure this field has at least " + fe.Param() + " characters."
	default:
		return "Invalid value."
	}
}

func RespondWithValidationError(c *gin.Context, validationErrors []ValidationError) {
	c.JSON(http.StatusBadRequest, BadRequestErrorResponse{
		Success: false,
		Message: i18n.T(c, i18n.MsgValidationFailed),
		Details: validationErrors,
	})
}

func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{
		Success: false,
		Message: message,
	})
}
