package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnavailable marks a transport-level failure: the request never produced
// an HTTP response, so the remote outcome is unknown.
var ErrUnavailable = errors.New("remote ledger unavailable")

// ErrNotFound marks a referenced id the remote does not know.
var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx response. Message carries the server's structured
// error message when one was provided.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote ledger rejected request: HTTP %d", e.Status)
	}
	return fmt.Sprintf("remote ledger rejected request: HTTP %d: %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match a 404 rejection.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// DecodeError is a 2xx response whose payload could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode remote ledger response: %s", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
