package api

import "errors"

// ErrorKind categorizes client errors for handling.
type ErrorKind int

const (
	ErrKindUnknown ErrorKind = iota
	ErrKindConnection
	ErrKindTimeout
	ErrKindInvalidResponse
)

// ClientError represents a failure to complete a request: the server was
// unreachable, the request timed out, or the response could not be decoded.
type ClientError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// APIError represents a request the server received and rejected, carrying
// the description from the response body.
type APIError struct {
	Status      int
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return "request rejected by server"
}

// ErrTimeout is returned when a request exceeds the client timeout.
var ErrTimeout = &ClientError{Kind: ErrKindTimeout, Message: "request timed out"}

// IsRejected reports whether err is a server-side rejection, as opposed to a
// transport or decoding failure.
func IsRejected(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsTimeout reports whether err is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Kind == ErrKindTimeout
	}
	return false
}

// Description returns the server-provided description for a rejection, or
// the plain error text for any other failure.
func Description(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Description != "" {
		return apiErr.Description
	}
	return err.Error()
}
