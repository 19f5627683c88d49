package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrStorageFault          = errors.New("storage fault")
	ErrCredentialUnavailable = errors.New("credential store unavailable")
)

func storageFault(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageFault, operation, err)
}

func validationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}
