package transform

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrepresentable is returned when the source lacks a value the target
	// schema requires.
	ErrUnrepresentable = errors.New("cannot represent")
	// ErrNotImplemented is returned for source shapes with no mapping.
	ErrNotImplemented = errors.New("mapping not implemented")
)

func unrepresentable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnrepresentable, fmt.Sprintf(format, args...))
}

func notImplemented(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotImplemented, fmt.Sprintf(format, args...))
}
