package api

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrConnection       = errors.New("api: connection failure")
	ErrRejected         = errors.New("api: request rejected by server")
	ErrBadResponse      = errors.New("api: malformed response")
	ErrMissingSubReport = errors.New("api: response is missing an expected object")
)

// Error is a failed API call. It unwraps to one of the sentinel errors.
type Error struct {
	Sentinel error
	Endpoint string
	HTTP     int // HTTP status, zero if no response was received
	Code     int // non-zero server status code for rejections
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Endpoint, e.Sentinel)
	if e.HTTP > 0 && e.HTTP != 200 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.HTTP)
	}
	if e.Code != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Code)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Sentinel}
	}
	return []error{e.Sentinel, e.Err}
}

// IsConnection reports whether err is a transport failure. Transport
// failures are never retried.
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}
