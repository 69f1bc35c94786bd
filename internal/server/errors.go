package server

import (
	"fmt"
	"net/http"
)

// ErrBadRequest indicates a body that could not be read or parsed.
type ErrBadRequest struct {
	Message string
	Cause   error
}

func (e *ErrBadRequest) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bad request: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("bad request: %s", e.Message)
}

func (e *ErrBadRequest) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the HTTP status code for an error. Every failure,
// including unreadable or incomplete input, is reported as 500.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}
