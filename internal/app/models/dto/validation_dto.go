package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// formatFieldError renders one binding violation as a readable message.
func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "datetime":
		return e.Field() + " must match the format " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

// HandleValidationError converts a request binding error into an
// ErrorDetail. Validator errors report the first offending field; other
// errors (malformed JSON, wrong types) keep their own message.
func HandleValidationError(err error) *ErrorDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		detail := NewErrorDetail(ErrorCodeValidationFailed, formatFieldError(verrs[0]))
		detail = detail.WithField(verrs[0].Field())

		if len(verrs) > 1 {
			messages := make([]string, 0, len(verrs))
			for _, e := range verrs {
				messages = append(messages, formatFieldError(e))
			}
			detail = detail.WithDetails(messages)
		}
		return detail
	}

	return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())
}
