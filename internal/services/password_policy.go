package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const MinPasswordLength = 4

var inputValidator = validator.New(validator.WithRequiredStructEnabled())

type passwordPolicyInput struct {
	Password string `validate:"min=4"`
}

// ValidatePassword enforces the only password rule: at least four
// characters. bcrypt's 72-byte ceiling is checked at hashing time.
func ValidatePassword(password string) error {
	return validateInput(passwordPolicyInput{Password: password})
}

func validateInput(input any) error {
	err := inputValidator.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	reasons := make([]string, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		reason := fmt.Sprintf("%s failed %s", strings.ToLower(fieldErr.Field()), fieldErr.Tag())
		if fieldErr.Param() != "" {
			reason += "=" + fieldErr.Param()
		}
		reasons = append(reasons, reason)
	}
	return validationError(strings.Join(reasons, "; "))
}
