package personality

import "fmt"

// TableError reports a band table that fails validation.
type TableError struct {
	Key     string
	Message string
}

func (e *TableError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("band table error in %s: %s", e.Key, e.Message)
	}
	return fmt.Sprintf("band table error: %s", e.Message)
}
