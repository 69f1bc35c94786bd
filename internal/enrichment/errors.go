package enrichment

import "fmt"

// UpstreamFetchError reports that the data source was unreachable or returned
// data that could not be used. No partial attributes accompany it.
type UpstreamFetchError struct {
	CandidateID string
	Cause       error
}

func (e *UpstreamFetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to fetch attributes for %s: %v", e.CandidateID, e.Cause)
	}
	return fmt.Sprintf("failed to fetch attributes for %s", e.CandidateID)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Cause
}
