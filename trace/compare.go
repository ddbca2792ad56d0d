package trace

import (
	"fmt"
	"strings"

	"github.com/sarchlab/fwftsim/fifo"
)

// Mismatch describes one output record where a device under test disagrees
// with the reference model.
type Mismatch struct {
	// Index is the position in the expected-output sequence. Index 0 is the
	// power-up record.
	Index int

	Expected fifo.ObservedOutput
	Actual   fifo.ObservedOutput

	// Missing is set when one of the sequences ends before the other. Only
	// the record present is meaningful.
	Missing bool
}

func (m Mismatch) String() string {
	if m.Missing {
		return fmt.Sprintf("record %d: sequences differ in length", m.Index)
	}

	var fields []string
	if m.Expected.DataOut != m.Actual.DataOut {
		fields = append(fields, fmt.Sprintf("dout got %#x want %#x",
			m.Actual.DataOut, m.Expected.DataOut))
	}
	if m.Expected.Empty != m.Actual.Empty {
		fields = append(fields, fmt.Sprintf("empty got %d want %d",
			fifo.Bit(m.Actual.Empty), fifo.Bit(m.Expected.Empty)))
	}
	if m.Expected.Full != m.Actual.Full {
		fields = append(fields, fmt.Sprintf("full got %d want %d",
			fifo.Bit(m.Actual.Full), fifo.Bit(m.Expected.Full)))
	}
	return fmt.Sprintf("record %d: %s", m.Index, strings.Join(fields, ", "))
}

// Compare checks the outputs observed on a device under test against the
// reference outputs, record by record.
func Compare(expected, actual []fifo.ObservedOutput) []Mismatch {
	var mismatches []Mismatch

	n := min(len(expected), len(actual))
	for i := 0; i < n; i++ {
		if expected[i] != actual[i] {
			mismatches = append(mismatches, Mismatch{
				Index:    i,
				Expected: expected[i],
				Actual:   actual[i],
			})
		}
	}

	if len(expected) != len(actual) {
		m := Mismatch{Index: n, Missing: true}
		if n < len(expected) {
			m.Expected = expected[n]
		} else {
			m.Actual = actual[n]
		}
		mismatches = append(mismatches, m)
	}

	return mismatches
}
