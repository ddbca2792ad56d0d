// Package vecfile reads and writes the column-text vector files consumed by
// the hardware test bench.
//
// A stimulus file has one line per cycle with the columns
//
//	reset din we re
//
// and an expected-output file has one line per record with the columns
//
//	dout empty full
//
// Data words are written as zero-padded binary of the configured width and
// single-bit signals as 0 or 1. Lines starting with '#' are comments.
package vecfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sarchlab/fwftsim/fifo"
)

const (
	// StimulusHeader is the first line of a stimulus file.
	StimulusHeader = "# Columns: reset, din, we, re"
	// ExpectedHeader is the first line of an expected-output file.
	ExpectedHeader = "# Columns: dout, empty, full"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("vector file syntax error")

func formatWord(w fifo.Word, width int) string {
	s := strconv.FormatUint(uint64(w), 2)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

// WriteStimulus writes a stimulus file for words of the given width.
func WriteStimulus(w io.Writer, width int, stim []fifo.ControlInput) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, StimulusHeader)
	for _, in := range stim {
		fmt.Fprintf(bw, "%d %s %d %d\n",
			fifo.Bit(in.Reset), formatWord(in.DataIn, width),
			fifo.Bit(in.WriteEnable), fifo.Bit(in.ReadEnable))
	}
	return errors.Wrap(bw.Flush(), "failed to write stimulus")
}

// WriteExpected writes an expected-output file for words of the given
// width.
func WriteExpected(w io.Writer, width int, outs []fifo.ObservedOutput) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, ExpectedHeader)
	for _, out := range outs {
		fmt.Fprintf(bw, "%s %d %d\n",
			formatWord(out.DataOut, width), fifo.Bit(out.Empty), fifo.Bit(out.Full))
	}
	return errors.Wrap(bw.Flush(), "failed to write expected outputs")
}

// ReadStimulus parses a stimulus file.
func ReadStimulus(r io.Reader, width int) ([]fifo.ControlInput, error) {
	var stim []fifo.ControlInput
	err := scan(r, 4, func(p *lineParser) {
		stim = append(stim, fifo.ControlInput{
			Reset:       p.bit(0),
			DataIn:      p.word(1, width),
			WriteEnable: p.bit(2),
			ReadEnable:  p.bit(3),
		})
	})
	if err != nil {
		return nil, err
	}
	return stim, nil
}

// ReadExpected parses an expected-output file, such as one dumped by a
// simulation of the device under test.
func ReadExpected(r io.Reader, width int) ([]fifo.ObservedOutput, error) {
	var outs []fifo.ObservedOutput
	err := scan(r, 3, func(p *lineParser) {
		outs = append(outs, fifo.ObservedOutput{
			DataOut: p.word(0, width),
			Empty:   p.bit(1),
			Full:    p.bit(2),
		})
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

// lineParser converts the fields of one line, keeping the first error.
type lineParser struct {
	line   int
	fields []string
	err    error
}

func (p *lineParser) fail(format string, args ...interface{}) {
	if p.err == nil {
		p.err = errors.Wrapf(ErrSyntax, "line %d: "+format,
			append([]interface{}{p.line}, args...)...)
	}
}

func (p *lineParser) bit(i int) bool {
	switch p.fields[i] {
	case "0":
		return false
	case "1":
		return true
	}
	p.fail("column %d: %q is not a bit", i+1, p.fields[i])
	return false
}

func (p *lineParser) word(i, width int) fifo.Word {
	v, err := strconv.ParseUint(p.fields[i], 2, 64)
	if err != nil {
		p.fail("column %d: %q is not a binary word", i+1, p.fields[i])
		return 0
	}
	if fifo.Word(v) > fifo.MaxWord(width) {
		p.fail("column %d: %q does not fit in %d bits", i+1, p.fields[i], width)
		return 0
	}
	return fifo.Word(v)
}

func scan(r io.Reader, columns int, record func(p *lineParser)) error {
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		text := strings.TrimSpace(s.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		p := &lineParser{line: line, fields: strings.Fields(text)}
		if len(p.fields) != columns {
			p.fail("want %d columns, got %d", columns, len(p.fields))
			return p.err
		}
		record(p)
		if p.err != nil {
			return p.err
		}
	}
	return errors.Wrap(s.Err(), "failed to read vector file")
}
