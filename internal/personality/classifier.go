package personality

import "fmt"

// Selection is the outcome of classifying one smile score.
type Selection struct {
	CandidateID string
	Band        Band
}

// Classifier resolves smile scores to bands and draws a candidate from the band.
// Band resolution is deterministic; candidate choice is delegated to the Picker.
type Classifier struct {
	bands  []Band
	picker Picker
}

// NewClassifier validates the band table and returns a Classifier.
// A nil bands slice uses the built-in table; a nil picker uses RandomPicker.
func NewClassifier(bands []Band, picker Picker) (*Classifier, error) {
	if bands == nil {
		bands = Bands()
	}
	if err := ValidateBands(bands); err != nil {
		return nil, err
	}
	if picker == nil {
		picker = NewRandomPicker()
	}
	return &Classifier{bands: bands, picker: picker}, nil
}

// MustNewClassifier is NewClassifier that panics on an invalid table.
func MustNewClassifier(bands []Band, picker Picker) *Classifier {
	c, err := NewClassifier(bands, picker)
	if err != nil {
		panic(fmt.Sprintf("invalid band table: %v", err))
	}
	return c
}

// Resolve returns the band for a score in [0,1]. The score is scaled to a
// percentage and compared against thresholds from highest to lowest; the first
// threshold met wins. Out-of-range input is not rejected: values above 1 land in
// the top band, negatives (and NaN) in the lowest.
func (c *Classifier) Resolve(smileScore float64) Band {
	pct := smileScore * 100
	for _, b := range c.bands {
		if pct >= b.Lower {
			return b
		}
	}
	return c.bands[len(c.bands)-1]
}

// Select resolves the band and picks one of its candidates uniformly.
func (c *Classifier) Select(smileScore float64) Selection {
	band := c.Resolve(smileScore)
	idx := c.picker.Intn(len(band.Candidates))
	return Selection{
		CandidateID: band.Candidates[idx],
		Band:        band,
	}
}

// Bands returns the classifier's table, highest band first.
func (c *Classifier) Bands() []Band {
	return c.bands
}

// ValidateBands checks that the table is ordered by descending threshold, covers
// [0,100] without gaps or overlaps, and that every band has candidates.
func ValidateBands(bands []Band) error {
	if len(bands) == 0 {
		return &TableError{Message: "band table is empty"}
	}
	if top := bands[0]; top.Upper != 100 {
		return &TableError{Key: top.Key, Message: fmt.Sprintf("top band must end at 100, ends at %g", top.Upper)}
	}
	if bottom := bands[len(bands)-1]; bottom.Lower != 0 {
		return &TableError{Key: bottom.Key, Message: fmt.Sprintf("lowest band must start at 0, starts at %g", bottom.Lower)}
	}

	seen := make(map[string]bool, len(bands))
	for i, b := range bands {
		if b.Key == "" {
			return &TableError{Message: fmt.Sprintf("band %d has no key", i)}
		}
		if seen[b.Key] {
			return &TableError{Key: b.Key, Message: "duplicate band key"}
		}
		seen[b.Key] = true

		if b.Lower >= b.Upper {
			return &TableError{Key: b.Key, Message: fmt.Sprintf("empty range [%g, %g)", b.Lower, b.Upper)}
		}
		if len(b.Candidates) == 0 {
			return &TableError{Key: b.Key, Message: "no candidates"}
		}
		for _, id := range b.Candidates {
			if id == "" {
				return &TableError{Key: b.Key, Message: "blank candidate id"}
			}
		}
		if b.Description == "" {
			return &TableError{Key: b.Key, Message: "missing description"}
		}
		if i > 0 && bands[i-1].Lower != b.Upper {
			return &TableError{
				Key:     b.Key,
				Message: fmt.Sprintf("not contiguous with %s: upper %g, expected %g", bands[i-1].Key, b.Upper, bands[i-1].Lower),
			}
		}
	}
	return nil
}
