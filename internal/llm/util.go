// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// joinParts concatenates multipart output.
func joinParts(parts []string) string {
	return strings.Join(parts, "")
}
