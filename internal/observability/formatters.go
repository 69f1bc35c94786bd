// Package observability provides boxed, human-readable output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/width"

	"github.com/jonathan/smile-fortune/internal/personality"
	"github.com/jonathan/smile-fortune/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes, in terminal columns
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Lines are padded
// and truncated by display width, so full-width text stays aligned.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	inner := boxWidth - 4

	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(title, inner), inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSelection outputs the band a score resolved to and the drawn candidate.
func (p *Printer) PrintSelection(score float64, sel personality.Selection) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:      %g\n", score))
	sb.WriteString(fmt.Sprintf("Band:       %s [%g, %g)\n", sel.Band.Key, sel.Band.Lower, sel.Band.Upper))
	sb.WriteString(fmt.Sprintf("Emotion:    %s\n", sel.Band.Description))
	sb.WriteString(fmt.Sprintf("Candidate:  %s", sel.CandidateID))

	p.printBox("PERSONALITY BAND", sb.String())
}

// PrintEntity outputs the enriched attributes of one Pokemon.
func (p *Printer) PrintEntity(e *types.EntityAttributes) {
	if e == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("#%d  %s\n", e.ID, e.Name))
	if len(e.Types) > 0 {
		sb.WriteString(fmt.Sprintf("Types:   %s\n", strings.Join(e.Types, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Size:    %.1f m / %.1f kg\n", e.Height, e.Weight))
	sb.WriteString(fmt.Sprintf("Stats:   HP %d  ATK %d  DEF %d  SPD %d\n", e.Stats.HP, e.Stats.Attack, e.Stats.Defense, e.Stats.Speed))
	if e.Image != "" {
		sb.WriteString(fmt.Sprintf("Image:   %s\n", e.Image))
	}
	if e.FlavorText != "" {
		sb.WriteString("\n")
		sb.WriteString(wrap(e.FlavorText, boxWidth-4))
	}

	p.printBox("POKEMON", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBands outputs the band table with a few candidates per band.
func (p *Printer) PrintBands(bands []personality.Band) {
	var sb strings.Builder
	for i, b := range bands {
		sb.WriteString(fmt.Sprintf("%-10s [%3g, %3g)  %s\n", b.Key, b.Lower, b.Upper, b.Description))

		count := min(len(b.Candidates), maxItemsToShow)
		sb.WriteString(fmt.Sprintf("  %s", strings.Join(b.Candidates[:count], ", ")))
		if len(b.Candidates) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf(" ... and %d more", len(b.Candidates)-maxItemsToShow))
		}
		sb.WriteString("\n")
		if i < len(bands)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("PERSONALITY BANDS (%d)", len(bands)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFortune outputs a complete fortune result.
func (p *Printer) PrintFortune(r *types.FortuneResult) {
	if r == nil {
		return
	}

	p.PrintEntity(&r.Entity)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Smile:    %g (%s)\n", r.SmileScore, r.BandKey))
	sb.WriteString(fmt.Sprintf("Emotion:  %s\n\n", r.BandDescription))
	sb.WriteString(wrap(r.Narrative, boxWidth-4))

	p.printBox("FORTUNE", strings.TrimSuffix(sb.String(), "\n"))
}

// displayWidth counts terminal columns; East Asian wide and full-width runes take two.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// truncate cuts s to at most cols columns, marking the cut with "...".
func truncate(s string, cols int) string {
	if displayWidth(s) <= cols {
		return s
	}
	limit := cols - 3
	var sb strings.Builder
	used := 0
	for _, r := range s {
		w := runeWidth(r)
		if used+w > limit {
			break
		}
		sb.WriteRune(r)
		used += w
	}
	sb.WriteString("...")
	return sb.String()
}

func pad(s string, cols int) string {
	if n := displayWidth(s); n < cols {
		return s + strings.Repeat(" ", cols-n)
	}
	return s
}

// wrap breaks text into lines of at most cols columns. Existing newlines are kept.
func wrap(text string, cols int) string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var line strings.Builder
		used := 0
		for _, r := range para {
			w := runeWidth(r)
			if used+w > cols {
				lines = append(lines, line.String())
				line.Reset()
				used = 0
			}
			line.WriteRune(r)
			used += w
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
