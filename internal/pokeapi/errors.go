package pokeapi

import "fmt"

// Error represents a failed PokeAPI lookup.
type Error struct {
	Endpoint   string
	ID         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pokeapi %s/%s: %s: %v", e.Endpoint, e.ID, e.Message, e.Cause)
	}
	return fmt.Sprintf("pokeapi %s/%s: %s", e.Endpoint, e.ID, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NotFound reports whether the resource does not exist upstream.
func (e *Error) NotFound() bool {
	return e.StatusCode == 404
}

// statusError marks HTTP status failures inside the breaker so client errors
// can be excluded from the failure count.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP status %d", e.code)
}
