// Package types provides type definitions for structured data shared across the smile-fortune service.
package types

// CoreStats holds the four base stats surfaced to the user.
type CoreStats struct {
	HP      int `json:"hp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`
}

// EntityAttributes is the enriched view of one Pokemon. Values are never
// mutated once stored in the enrichment cache.
type EntityAttributes struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Image      string    `json:"image"`
	Types      []string  `json:"types"`
	Height     float64   `json:"height"` // meters
	Weight     float64   `json:"weight"` // kilograms
	FlavorText string    `json:"flavorText"`
	Stats      CoreStats `json:"stats"`
}

// Clone returns a deep copy so callers can't mutate cached slices.
func (e *EntityAttributes) Clone() *EntityAttributes {
	if e == nil {
		return nil
	}
	c := *e
	c.Types = append([]string(nil), e.Types...)
	return &c
}
