package personality

import (
	"math/rand/v2"
	"sync"
)

// Picker chooses an index in [0, n). Implementations must be safe for concurrent use.
type Picker interface {
	Intn(n int) int
}

// RandomPicker draws uniformly from the runtime's unseeded source, so repeated
// calls for the same band may return different candidates.
type RandomPicker struct{}

// NewRandomPicker returns a RandomPicker.
func NewRandomPicker() RandomPicker {
	return RandomPicker{}
}

// Intn returns a uniform index in [0, n).
func (RandomPicker) Intn(n int) int {
	return rand.IntN(n)
}

// SequencePicker replays a fixed list of indices, wrapping each value into range.
// It cycles when exhausted. Useful for tests and the CLI's --index flag.
type SequencePicker struct {
	mu   sync.Mutex
	seq  []int
	next int
}

// NewSequencePicker returns a picker that yields seq in order.
func NewSequencePicker(seq ...int) *SequencePicker {
	if len(seq) == 0 {
		seq = []int{0}
	}
	return &SequencePicker{seq: seq}
}

// Intn returns the next index of the sequence modulo n.
func (p *SequencePicker) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := p.seq[p.next%len(p.seq)]
	p.next++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
