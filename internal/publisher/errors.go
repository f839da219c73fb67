package publisher

import "fmt"

const maxSnippetLen = 512

// Error represents a failed publish attempt
type Error struct {
	Status int    // HTTP status, 0 when the request never completed
	Body   string // truncated response body
	Err    error  // original error, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("publish failed: %v", e.Err)
	}
	return fmt.Sprintf("publish failed: endpoint returned HTTP %d: %s", e.Status, e.Body)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(status int, body string, err error) error {
	return &Error{
		Status: status,
		Body:   body,
		Err:    err,
	}
}

func snippet(body []byte) string {
	if len(body) > maxSnippetLen {
		return string(body[:maxSnippetLen]) + "..."
	}
	return string(body)
}
