package llm

import "fmt"

// ConfigError reports a client that cannot be constructed.
type ConfigError struct {
	Provider Provider
	Message  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s client: %s", e.Provider, e.Message)
}

// CompletionError wraps a transport, auth or API failure from a provider.
type CompletionError struct {
	Provider Provider
	Model    string
	Cause    error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("%s completion with %s failed: %v", e.Provider, e.Model, e.Cause)
}

func (e *CompletionError) Unwrap() error {
	return e.Cause
}
