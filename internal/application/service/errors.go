package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnrecognizedType   = errors.New("unrecognized target type")
	ErrSelectorTimeout    = errors.New("selector wait timed out")
	ErrInvalidInputLength = errors.New("invalid input length")
	ErrInvalidArgument    = errors.New("invalid argument")
)

type UnrecognizedTypeError struct {
	Type string
}

func (e *UnrecognizedTypeError) Error() string {
	return "could not recognize type: " + e.Type
}

func (e *UnrecognizedTypeError) Is(target error) bool {
	return target == ErrUnrecognizedType
}

// SelectorTimeoutError replaces whatever the wait returned. The message is
// fixed; the underlying failure stays reachable through Unwrap.
type SelectorTimeoutError struct {
	Selector string
	Err      error
}

func (e *SelectorTimeoutError) Error() string {
	return "Timeout exceed for element " + Quote(e.Selector)
}

func (e *SelectorTimeoutError) Unwrap() error {
	return e.Err
}

func (e *SelectorTimeoutError) Is(target error) bool {
	return target == ErrSelectorTimeout
}

type InvalidInputLengthError struct {
	Length int
}

func (e *InvalidInputLengthError) Error() string {
	return fmt.Sprintf("Invalid input length: %d", e.Length)
}

func (e *InvalidInputLengthError) Is(target error) bool {
	return target == ErrInvalidInputLength
}

// Quote wraps v in single quotes for error messages. Nothing is escaped.
func Quote(v any) string {
	return fmt.Sprintf("'%v'", v)
}
