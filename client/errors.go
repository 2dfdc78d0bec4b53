package client

import "fmt"

// APIError is the single failure shape every gateway operation returns.
// The backend historically signalled failure two ways: a non-2xx status,
// or a 2xx body carrying an `error` field. Both are folded into this type;
// callers never need to distinguish which path produced it.
type APIError struct {
	// Status is the HTTP status code of the response, 0 when the failure
	// happened before a response arrived.
	Status int
	// Message is the backend's error message when the body carried one,
	// otherwise a generic status description.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error: status %d", e.Status)
}

// newStatusError builds an APIError for a non-2xx response. The message
// keeps the wording UI layers already display.
func newStatusError(status int) *APIError {
	return &APIError{Status: status, Message: fmt.Sprintf("HTTP error: status %d", status)}
}
