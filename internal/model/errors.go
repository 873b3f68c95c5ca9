package model

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is returned when a session cannot be created from its configuration.
	ErrConfig = errors.New("invalid session config")

	// ErrInvalidState is returned when a session operation is called out of order.
	ErrInvalidState = errors.New("invalid session state")
)

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
