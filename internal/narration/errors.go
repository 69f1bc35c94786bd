package narration

import "fmt"

// GenerationError reports that the generation service could not be reached or
// returned an error. An empty completion is not a GenerationError.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("fortune generation failed: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
