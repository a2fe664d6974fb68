package crawler

import (
	"errors"
	"fmt"
)

// Error kinds reported by the fetcher. Match them with errors.Is.
var (
	// ErrTransport covers connection failures, timeouts and malformed responses.
	ErrTransport = errors.New("transport error")
	// ErrAPI covers well-formed responses that report a failure.
	ErrAPI = errors.New("api error")
	// ErrTrailingData is wrapped when a response body holds more than one JSON value.
	ErrTrailingData = errors.New("unexpected data after JSON value")
)

// TransportError is returned when the API could not be reached or answered
// with something that is not the expected JSON document.
type TransportError struct {
	Err     error
	Message string
	Status  int
}

func (e *TransportError) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrTransport, msg, e.Err)
	}

	return fmt.Sprintf("%s: %s", ErrTransport, msg)
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is returned when the API answered but reported a failure.
// Message is the server's own message when it sent one.
type APIError struct {
	Message string
	Status  int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAPI, e.Message)
}

// Is reports whether target is ErrAPI.
func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}
