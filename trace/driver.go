// Package trace drives the FIFO reference model over a stimulus sequence and
// collects the aligned expected-output sequence.
package trace

import (
	"slices"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/sarchlab/fwftsim/config"
	"github.com/sarchlab/fwftsim/fifo"
	"github.com/sarchlab/fwftsim/stimulus"
)

// ErrEmptyStimulus is returned when a run is started with no cycles.
var ErrEmptyStimulus = errors.New("stimulus must contain at least one cycle")

// Trace is the golden artifact of one run.
type Trace struct {
	// Stimulus holds the control inputs, one per cycle.
	Stimulus []fifo.ControlInput

	// Expected holds the registered outputs. Expected[0] is the power-up
	// value and Expected[i+1] is the result of Stimulus[i], so
	// len(Expected) == len(Stimulus)+1.
	Expected []fifo.ObservedOutput

	// Stats summarizes what the model did during the run.
	Stats Statistics
}

// Cycles returns the number of stimulus cycles in the trace.
func (t *Trace) Cycles() int {
	return len(t.Stimulus)
}

// At returns stimulus i together with the output it produced.
func (t *Trace) At(i int) (fifo.ControlInput, fifo.ObservedOutput) {
	return t.Stimulus[i], t.Expected[i+1]
}

// DriverOption is a functional option for configuring the Driver.
type DriverOption func(*Driver)

// WithPolicy sets the read-gating policy of the models the driver builds.
func WithPolicy(p fifo.Policy) DriverOption {
	return func(d *Driver) {
		d.policy = p
	}
}

// WithLogger sets the logger. Per-event logs are emitted at V(2).
func WithLogger(logger logr.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithScoreboard enables an independent FIFO-ordering check on every run.
func WithScoreboard() DriverOption {
	return func(d *Driver) {
		d.useScoreboard = true
	}
}

// Driver runs the reference model. Each call to Run builds its own model,
// so a Driver holds no state across runs.
type Driver struct {
	capacity      int
	policy        fifo.Policy
	logger        logr.Logger
	useScoreboard bool
}

// NewDriver creates a driver for queues of the given capacity.
func NewDriver(capacity int, opts ...DriverOption) (*Driver, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(fifo.ErrInvalidCapacity, "got %d", capacity)
	}

	d := &Driver{
		capacity: capacity,
		logger:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// Capacity returns the capacity of the modeled queue.
func (d *Driver) Capacity() int {
	return d.capacity
}

// Run feeds every stimulus cycle to a fresh model, strictly in order. The
// returned trace holds its own copy of the stimulus.
func (d *Driver) Run(stim []fifo.ControlInput) (*Trace, error) {
	if len(stim) == 0 {
		return nil, ErrEmptyStimulus
	}

	model, err := fifo.New(d.capacity, fifo.WithPolicy(d.policy))
	if err != nil {
		return nil, err
	}

	counter := newStatsCounter(model)
	model.AcceptHook(counter)

	var sb *Scoreboard
	if d.useScoreboard {
		sb = NewScoreboard(d.capacity)
		model.AcceptHook(sb)
	}

	if d.logger.V(2).Enabled() {
		model.AcceptHook(NewEventLogger(d.logger.V(2)))
	}

	t := &Trace{
		Stimulus: slices.Clone(stim),
		Expected: make([]fifo.ObservedOutput, len(stim)+1),
	}
	t.Expected[0] = fifo.PowerUpOutput()

	for i, in := range stim {
		if sb != nil {
			sb.SetCycle(i)
		}
		t.Expected[i+1] = model.Step(in)
		counter.sample()
	}

	t.Stats = counter.stats
	d.logger.V(1).Info("run complete",
		"cycles", t.Stats.Cycles,
		"writes", t.Stats.Writes,
		"dropped", t.Stats.DroppedWrites,
		"reads", t.Stats.Reads,
		"blocked", t.Stats.BlockedReads,
		"maxOccupancy", t.Stats.MaxOccupancy)

	if sb != nil {
		if err := sb.Err(); err != nil {
			return t, err
		}
	}

	return t, nil
}

// RunConfig validates the configuration, generates its stimulus and runs
// it.
func RunConfig(c *config.Config, opts ...DriverOption) (*Trace, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	stim, err := stimulus.Generate(c.StimulusConfig())
	if err != nil {
		return nil, err
	}

	opts = append([]DriverOption{WithPolicy(c.FifoPolicy())}, opts...)
	d, err := NewDriver(c.Capacity, opts...)
	if err != nil {
		return nil, err
	}

	return d.Run(stim)
}
