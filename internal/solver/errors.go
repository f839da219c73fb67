package solver

import "fmt"

const maxSnippetLen = 512

// Error represents a failed solver operation
type Error struct {
	Backend string // backend that performed the operation
	Op      string // solver command that failed
	Message string // human-readable error message
	Err     error  // original error, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Backend, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Backend, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(backend, op, message string, err error) error {
	return &Error{
		Backend: backend,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// snippet keeps raw solver bodies loggable without flooding the log.
func snippet(body []byte) string {
	if len(body) > maxSnippetLen {
		return string(body[:maxSnippetLen]) + "..."
	}
	return string(body)
}
