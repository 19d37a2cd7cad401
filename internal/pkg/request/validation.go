package request

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// HalfHourTag validates that an int is a positive multiple of 30 (minutes).
const HalfHourTag = "halfhour"

var registerOnce sync.Once

// RegisterValidations installs the custom binding rules on gin's validator.
// It is safe to call more than once.
func RegisterValidations() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation(HalfHourTag, func(fl validator.FieldLevel) bool {
				n := fl.Field().Int()
				return n > 0 && n%30 == 0
			})
		}
	})
}

// FieldError is a single failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Describe turns a binding error into something a client can act on.
func Describe(err error) any {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	out := make([]FieldError, 0, len(ve))
	for _, fe := range ve {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case HalfHourTag:
		return fe.Field() + " must be a positive multiple of 30"
	default:
		return fe.Field() + " is invalid"
	}
}
