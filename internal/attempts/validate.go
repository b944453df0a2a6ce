package attempts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StartInput describes a request to begin a test session.
type StartInput struct {
	StudentID string `validate:"required,max=128"`
	Subject   string `validate:"required,oneof=math physics chemistry"`
	Level     string `validate:"required,oneof=easy medium hard"`
}

// ErrInvalidInput is wrapped by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the input and returns a single error listing every
// offending field.
func (in StartInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
