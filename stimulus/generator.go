// Package stimulus produces reproducible per-cycle control inputs for the
// FIFO reference model.
package stimulus

import (
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/sarchlab/fwftsim/fifo"
)

// MaxWordWidth is the widest data word a generator can produce.
const MaxWordWidth = 64

// ErrInvalidConfig is wrapped by every stimulus configuration error.
var ErrInvalidConfig = errors.New("invalid stimulus configuration")

// Config describes one stimulus run.
type Config struct {
	// WordWidthBits is the width of the din port. Default: 8.
	WordWidthBits int

	// ResetHoldCycles is the number of leading cycles with reset asserted.
	// Default: 4.
	ResetHoldCycles int

	// Length is the number of cycles to generate. Default: 1024.
	Length int

	// Seed selects the pseudo-random sequence.
	Seed uint64
}

// DefaultConfig returns the configuration of the standard test bench run.
func DefaultConfig() Config {
	return Config{
		WordWidthBits:   8,
		ResetHoldCycles: 4,
		Length:          1024,
		Seed:            1,
	}
}

// Validate checks that the configuration describes a runnable sequence.
func (c Config) Validate() error {
	if c.WordWidthBits <= 0 || c.WordWidthBits > MaxWordWidth {
		return errors.Wrapf(ErrInvalidConfig,
			"word width must be in [1, %d], got %d", MaxWordWidth, c.WordWidthBits)
	}
	if c.Length <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "length must be > 0, got %d", c.Length)
	}
	if c.ResetHoldCycles < 0 {
		return errors.Wrapf(ErrInvalidConfig,
			"reset hold cycles must be >= 0, got %d", c.ResetHoldCycles)
	}
	return nil
}

// Generator emits control inputs one cycle at a time.
type Generator struct {
	config Config
	rng    *rand.Rand
	mask   fifo.Word
	cycle  int
}

// NewGenerator creates a generator positioned at cycle zero.
func NewGenerator(config Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Generator{
		config: config,
		rng:    rand.New(rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15)),
		mask:   fifo.MaxWord(config.WordWidthBits),
	}, nil
}

// Config returns the generator configuration.
func (g *Generator) Config() Config {
	return g.config
}

// Cycle returns the index of the cycle the next call to Next produces.
func (g *Generator) Cycle() int {
	return g.cycle
}

// Done reports whether the configured length has been produced.
func (g *Generator) Done() bool {
	return g.cycle >= g.config.Length
}

// Next returns the control input of the next cycle. Data and enables are
// drawn for every cycle, including reset cycles, so that the random stream
// does not depend on the reset hold length.
func (g *Generator) Next() fifo.ControlInput {
	in := fifo.ControlInput{
		Reset:       g.cycle < g.config.ResetHoldCycles,
		DataIn:      fifo.Word(g.rng.Uint64()) & g.mask,
		WriteEnable: g.rng.Uint64()&1 == 1,
		ReadEnable:  g.rng.Uint64()&1 == 1,
	}
	g.cycle++

	return in
}

// Generate returns the remaining cycles of the run.
func (g *Generator) Generate() []fifo.ControlInput {
	out := make([]fifo.ControlInput, 0, max(g.config.Length-g.cycle, 0))
	for !g.Done() {
		out = append(out, g.Next())
	}
	return out
}

// Generate produces the complete sequence described by config.
func Generate(config Config) ([]fifo.ControlInput, error) {
	g, err := NewGenerator(config)
	if err != nil {
		return nil, err
	}
	return g.Generate(), nil
}
