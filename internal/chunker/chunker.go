// Package chunker groups translation units into request batches bounded by
// unit count and character budget.
package chunker

import (
	"unicode/utf8"

	"github.com/pricofy/document-translator/internal/document"
)

const (
	// DefaultMaxBatchSize is the maximum number of strings per API request.
	DefaultMaxBatchSize = 50

	// DefaultMaxBatchChars is the maximum number of characters per API request.
	DefaultMaxBatchChars = 10000
)

// Limits bounds a single batch. Zero or negative fields fall back to the defaults.
type Limits struct {
	MaxUnits int
	MaxChars int
}

// DefaultLimits returns the remote service's published limits.
func DefaultLimits() Limits {
	return Limits{MaxUnits: DefaultMaxBatchSize, MaxChars: DefaultMaxBatchChars}
}

func (l Limits) normalize() Limits {
	if l.MaxUnits <= 0 {
		l.MaxUnits = DefaultMaxBatchSize
	}
	if l.MaxChars <= 0 {
		l.MaxChars = DefaultMaxBatchChars
	}
	return l
}

// Batch is a group of units sent in one remote call.
type Batch struct {
	Units     []document.Unit
	CharCount int
}

// Texts returns the batch's source strings in order.
func (b Batch) Texts() []string {
	texts := make([]string, len(b.Units))
	for i, u := range b.Units {
		texts[i] = u.Text
	}
	return texts
}

// CountChars counts Unicode code points, matching the service's accounting.
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}

// ByLimits packs units greedily in input order.
// Each unit is kept whole: a unit larger than MaxChars gets a batch of its own.
func ByLimits(units []document.Unit, limits Limits) []Batch {
	if len(units) == 0 {
		return nil
	}
	limits = limits.normalize()

	var batches []Batch
	var current Batch

	for _, unit := range units {
		chars := CountChars(unit.Text)

		// Close the current batch if this unit would overflow it
		if len(current.Units) > 0 &&
			(len(current.Units)+1 > limits.MaxUnits || current.CharCount+chars > limits.MaxChars) {
			batches = append(batches, current)
			current = Batch{}
		}

		current.Units = append(current.Units, unit)
		current.CharCount += chars
	}

	// Flush remaining batch
	if len(current.Units) > 0 {
		batches = append(batches, current)
	}

	return batches
}
