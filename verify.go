package gups

import (
	"fmt"
	"strings"
)

// Verification is the outcome of replaying the update sequence.
type Verification struct {
	Errors    uint64  `json:"errors"`
	Tolerance float64 `json:"tolerance"`
	Passed    bool    `json:"passed"`
}

// Verify replays updates steps of the sequence from its canonical start on a
// single goroutine, applying the same XOR update. Because each update is its
// own inverse, a table built from exactly those updates returns to
// table[i] = i. Cells that do not are counted as errors; the run passes when
// fewer than ErrorTolerance of the cells are wrong.
//
// Verify modifies the table.
func Verify(table *Table, updates uint64) Verification {
	words := table.Words()
	if words == nil {
		return Verification{}
	}
	mask := table.Mask()

	s := NewStream(0)
	for i := uint64(0); i < updates; i++ {
		v := s.Next()
		words[v&mask] ^= v
	}

	v := Verification{
		Errors:    table.Errors(),
		Tolerance: ErrorTolerance * float64(table.Len()),
	}
	v.Passed = float64(v.Errors) < v.Tolerance
	return v
}

// String renders the verification summary.
func (v Verification) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Summary: %d errors were found.\n", v.Errors))
	if v.Passed {
		sb.WriteString("Passed.\n")
	} else {
		sb.WriteString(fmt.Sprintf("Failed: should have < %g errors.\n", v.Tolerance))
	}
	return sb.String()
}
