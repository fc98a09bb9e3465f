package validator

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/promptshare/prompt-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// ValidationError represents a business validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates a struct against business rules
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	var errors ValidationErrors

	err := bv.validate.Struct(s)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			errors = append(errors, ValidationError{
				Field:   err.Field(),
				Message: bv.getErrorMessage(err),
				Value:   err.Value(),
				Rule:    err.Tag(),
			})
		}
	}

	return errors
}

// ValidatePromptCreate validates prompt creation business rules
func (bv *BusinessValidator) ValidatePromptCreate(req *PromptCreateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidatePromptUpdate validates prompt update business rules
func (bv *BusinessValidator) ValidatePromptUpdate(req *PromptUpdateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateProfileUpdate validates the self-service profile update
func (bv *BusinessValidator) ValidateProfileUpdate(req *ProfileUpdateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateRoleAssign validates the privileged role change. An expiry on
// normal/admin is meaningless and rejected outright rather than stored.
func (bv *BusinessValidator) ValidateRoleAssign(req *RoleAssignRequest) ValidationErrors {
	errors := bv.Validate(req)

	if req.ExpiresAt != nil && !req.Role.Expirable() {
		errors = append(errors, ValidationError{
			Field:   "expires_at",
			Message: "expiration applies only to vip and svip roles",
			Value:   req.ExpiresAt,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Title validation (1-200 characters after trimming)
	bv.validate.RegisterValidation("prompt_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 200
	})

	// Description validation (max 1000 characters)
	bv.validate.RegisterValidation("prompt_description", func(fl validator.FieldLevel) bool {
		desc := fl.Field().String()
		return len(desc) <= 1000
	})

	// Category must be one of the fixed enum values; never coerced
	bv.validate.RegisterValidation("prompt_category", func(fl validator.FieldLevel) bool {
		return models.PromptCategory(fl.Field().String()).IsValid()
	})

	// Role must be one of the fixed enum values
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).IsValid()
	})

	// Expiration must be in the future when present
	bv.validate.RegisterValidation("future_date", func(fl validator.FieldLevel) bool {
		field := fl.Field()

		if field.Kind() == reflect.Ptr && field.IsNil() {
			return true // Optional field
		}

		var when time.Time
		if field.Kind() == reflect.Ptr {
			when = field.Elem().Interface().(time.Time)
		} else {
			when = field.Interface().(time.Time)
		}

		return when.After(time.Now())
	})
}

// getErrorMessage produces a readable message for one field error
func (bv *BusinessValidator) getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "prompt_title":
		return "must be between 1 and 200 characters"
	case "prompt_description":
		return "must be at most 1000 characters"
	case "prompt_category":
		return "must be one of: Coding, Writing, Art, Productivity, Other"
	case "user_role":
		return "must be one of: normal, vip, svip, admin"
	case "future_date":
		return "must be in the future"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}
