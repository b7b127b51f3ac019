// Package pick draws values from weighted and uniform distributions.
package pick

import (
	"errors"
	"fmt"
)

// ErrDegenerateWeights is returned when a weight table cannot always
// produce a value: it is empty, holds a non-positive weight, or its
// weights sum to less than 1 without an explicit fallback entry.
var ErrDegenerateWeights = errors.New("degenerate weight configuration")

// weightEpsilon absorbs float rounding in sums like 0.4+0.2+0.2+0.1+0.1.
const weightEpsilon = 1e-9

// Source is the part of *math/rand.Rand the pickers need.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// Entry is one weighted choice.
type Entry[T any] struct {
	Weight float64
	Value  T
}

// WeightedPick draws r in [0,1) and returns the first entry whose
// cumulative weight exceeds r. When the weights sum to less than r the
// last entry is returned. Panics on an empty slice.
func WeightedPick[T any](src Source, entries []Entry[T]) T {
	if len(entries) == 0 {
		panic("pick: WeightedPick on empty entries")
	}
	r := src.Float64()
	cumulative := 0.0
	for _, e := range entries {
		cumulative += e.Weight
		if cumulative > r {
			return e.Value
		}
	}
	return entries[len(entries)-1].Value
}

// UniformPick returns one of values with equal probability.
// Panics on an empty slice.
func UniformPick[T any](src Source, values []T) T {
	if len(values) == 0 {
		panic("pick: UniformPick on empty values")
	}
	return values[src.Intn(len(values))]
}

// Table is a validated weight table. Its weights always cover [0,1),
// so every draw lands on a real entry.
type Table[T any] struct {
	entries []Entry[T]
}

// NewTable validates entries whose weights must sum to at least 1.
func NewTable[T any](entries ...Entry[T]) (*Table[T], error) {
	total, err := checkWeights(entries)
	if err != nil {
		return nil, err
	}
	if total+weightEpsilon < 1 {
		return nil, fmt.Errorf("%w: weights sum to %.3f with no fallback entry", ErrDegenerateWeights, total)
	}
	return &Table[T]{entries: append([]Entry[T](nil), entries...)}, nil
}

// NewTableWithRemainder appends remainder as an explicit fallback entry
// carrying whatever weight the other entries leave below 1.
func NewTableWithRemainder[T any](remainder T, entries ...Entry[T]) (*Table[T], error) {
	total, err := checkWeights(entries)
	if err != nil {
		return nil, err
	}
	rest := 1 - total
	if rest <= weightEpsilon {
		return nil, fmt.Errorf("%w: weights sum to %.3f, remainder entry unreachable", ErrDegenerateWeights, total)
	}
	out := append([]Entry[T](nil), entries...)
	out = append(out, Entry[T]{Weight: rest, Value: remainder})
	return &Table[T]{entries: out}, nil
}

func checkWeights[T any](entries []Entry[T]) (float64, error) {
	if len(entries) == 0 {
		return 0, fmt.Errorf("%w: no entries", ErrDegenerateWeights)
	}
	total := 0.0
	for i, e := range entries {
		if !(e.Weight > 0) {
			return 0, fmt.Errorf("%w: entry %d has weight %v", ErrDegenerateWeights, i, e.Weight)
		}
		total += e.Weight
	}
	return total, nil
}

// Pick draws one value.
func (t *Table[T]) Pick(src Source) T {
	return WeightedPick(src, t.entries)
}

// Entries returns a copy of the table, fallback entry included.
func (t *Table[T]) Entries() []Entry[T] {
	return append([]Entry[T](nil), t.entries...)
}
