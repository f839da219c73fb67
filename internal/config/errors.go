package config

import "fmt"

// Error is a fatal configuration error. Startup must abort when one is
// returned; the refresh loop never starts on a partial configuration.
type Error struct {
	Field   string // offending field or variable, when known
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config: %s", e.Message)
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

func NewError(field, message string) error {
	return &Error{
		Field:   field,
		Message: message,
	}
}
