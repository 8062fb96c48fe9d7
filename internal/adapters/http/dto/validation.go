package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// jsonTagParts is the number of parts when splitting a JSON tag by comma.
const jsonTagParts = 2

// Validation errors.
var (
	// ErrValidation indicates a validation failure occurred.
	ErrValidation = errors.New("validation failed")

	// ErrBinding indicates JSON or query binding failed.
	ErrBinding = errors.New("binding failed")
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the singleton validator instance.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		// Report JSON (or form) names so messages match what the client sent.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "" {
				tag = fld.Tag.Get("form")
			}

			name := strings.SplitN(tag, ",", jsonTagParts)[0]
			if name == "-" {
				return ""
			}

			return name
		})

		_ = validate.RegisterValidation("notblank", validateNotBlank)
	})

	return validate
}

// Validate validates a struct using the validator instance.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// BindAndValidate binds the JSON body to v and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// BindQueryAndValidate binds query parameters to v and validates it.
func BindQueryAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// ValidationErrors extracts field-level messages from a validator error.
func ValidationErrors(err error) map[string]string {
	fieldErrors := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			fieldErrors[fieldErr.Field()] = validationMessage(fieldErr)
		}
	}

	return fieldErrors
}

// RespondWithBindError writes a 400 for a BindAndValidate failure, with
// field details when the failure came from struct validation.
func RespondWithBindError(c *gin.Context, err error) {
	if details := ValidationErrors(err); len(details) > 0 {
		c.JSON(HTTPStatusFromCode(ErrorCodeValidation), NewErrorResponseWithDetails(
			ErrorCodeValidation,
			"request validation failed",
			details,
		).WithTraceID(GetTraceID(c)))

		return
	}

	RespondWithErrorCode(c, ErrorCodeBadRequest, "malformed request body")
}

// validationMessages maps validation tags to message templates.
var validationMessages = map[string]string{
	"required": "this field is required",
	"notblank": "must not be blank",
	"gte":      "must be greater than or equal to {param}",
	"lte":      "must be less than or equal to {param}",
}

func validationMessage(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	if tag == "min" || tag == "max" {
		return minMaxMessage(tag, param, fe.Type().Kind())
	}

	if msg, ok := validationMessages[tag]; ok {
		return strings.ReplaceAll(msg, "{param}", param)
	}

	return "failed validation: " + tag
}

func minMaxMessage(tag, param string, kind reflect.Kind) string {
	suffix := ""
	if kind == reflect.String {
		suffix = " characters"
	}

	if tag == "min" {
		return "must be at least " + param + suffix
	}

	return "must be at most " + param + suffix
}

// validateNotBlank rejects strings that are empty after trimming whitespace.
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
