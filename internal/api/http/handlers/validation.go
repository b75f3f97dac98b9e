package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/didnumber-service/internal/service"
	apperrors "github.com/spec-kit/didnumber-service/pkg/util"
)

// newValidator reports fields by their JSON names and knows the didvalue rule.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("didvalue", func(fl validator.FieldLevel) bool {
		return service.ValidDidValue(strings.TrimSpace(fl.Field().String()))
	})
	return v
}

// bindJSON parses the request body into dst and validates it.
func bindJSON(c *fiber.Ctx, v *validator.Validate, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := v.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var missing, invalid []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		invalid = append(invalid, describeField(fe))
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields: "+strings.Join(missing, ", "),
			map[string]any{"fields": missing})
	}
	return apperrors.NewValidationError(strings.Join(invalid, "; "), nil)
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "didvalue":
		return fmt.Sprintf("%s must be a phone number of at most %d characters", fe.Field(), service.MaxDidValueLength)
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
