package fifo

import (
	"log"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
)

// HookPosReset marks a reset cycle.
var HookPosReset = &sim.HookPos{Name: "FIFO Reset"}

// HookPosWrite marks a write accepted into the queue. The item is the word.
var HookPosWrite = &sim.HookPos{Name: "FIFO Write"}

// HookPosWriteDrop marks a write issued while the queue is full. The item is
// the dropped word.
var HookPosWriteDrop = &sim.HookPos{Name: "FIFO Write Drop"}

// HookPosRead marks an accepted read. The item is the word popped.
var HookPosRead = &sim.HookPos{Name: "FIFO Read"}

// HookPosReadBlock marks a read enable that the queue ignored.
var HookPosReadBlock = &sim.HookPos{Name: "FIFO Read Block"}

// ErrInvalidCapacity is returned when a model is built with capacity <= 0.
var ErrInvalidCapacity = errors.New("fifo capacity must be > 0")

// Option is a functional option for configuring the Model.
type Option func(*Model)

// WithPolicy sets the read-gating policy.
func WithPolicy(p Policy) Option {
	return func(m *Model) {
		m.policy = p
	}
}

// WithName sets the component name reported in hook contexts. The name must
// follow the akita naming convention.
func WithName(name string) Option {
	return func(m *Model) {
		m.name = name
	}
}

// Model is the behavioral model of a synchronous FWFT queue. It is driven by
// calling Step once per clock cycle and is not safe for concurrent use.
type Model struct {
	sim.HookableBase

	name   string
	policy Policy

	capacity int
	storage  []Word

	writeIndex int
	readIndex  int

	// occupancy is the only source of full/empty status. The two indices
	// coincide both when the queue is empty and when it is full.
	occupancy int
}

// New creates a model of a queue holding capacity words, in its reset state.
func New(capacity int, opts ...Option) (*Model, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", capacity)
	}

	m := &Model{
		name:     "Queue",
		capacity: capacity,
		storage:  make([]Word, capacity),
	}
	for _, opt := range opts {
		opt(m)
	}
	sim.NameMustBeValid(m.name)

	return m, nil
}

// Name returns the component name of the model.
func (m *Model) Name() string {
	return m.name
}

// Capacity returns the number of words the queue can hold.
func (m *Model) Capacity() int {
	return m.capacity
}

// Policy returns the read-gating policy.
func (m *Model) Policy() Policy {
	return m.policy
}

// Occupancy returns the number of words written but not yet read.
func (m *Model) Occupancy() int {
	return m.occupancy
}

// WriteIndex returns the slot the next accepted write will fill.
func (m *Model) WriteIndex() int {
	return m.writeIndex
}

// ReadIndex returns the slot holding the head word.
func (m *Model) ReadIndex() int {
	return m.readIndex
}

// Empty reports whether the queue holds no words.
func (m *Model) Empty() bool {
	return m.occupancy == 0
}

// Full reports whether the queue holds capacity words.
func (m *Model) Full() bool {
	return m.occupancy == m.capacity
}

// Peek returns the word currently at the read index. When the queue is
// empty this is whatever the slot last held.
func (m *Model) Peek() Word {
	return m.storage[m.readIndex]
}

// Reset returns the queue to its power-on state.
func (m *Model) Reset() {
	m.occupancy = 0
	m.writeIndex = 0
	m.readIndex = 0
	for i := range m.storage {
		m.storage[i] = 0
	}
}

// Step applies one rising clock edge with the given inputs and returns the
// output registers as they read after the edge.
func (m *Model) Step(in ControlInput) ObservedOutput {
	if in.Reset {
		m.Reset()
		m.invoke(HookPosReset, nil)
		m.mustBeConsistent()
		return PowerUpOutput()
	}

	// Read eligibility depends on the status before this cycle's write.
	wasEmpty := m.Empty()

	if in.WriteEnable {
		m.write(in.DataIn)
	}

	if in.ReadEnable {
		canRead := !wasEmpty
		if m.policy == PolicySameCycleFallThrough {
			canRead = !m.Empty()
		}
		m.read(canRead)
	}

	m.mustBeConsistent()

	return ObservedOutput{
		DataOut: m.Peek(),
		Empty:   m.Empty(),
		Full:    m.Full(),
	}
}

func (m *Model) write(data Word) {
	if m.Full() {
		m.invoke(HookPosWriteDrop, data)
		return
	}

	m.storage[m.writeIndex] = data
	m.writeIndex = (m.writeIndex + 1) % m.capacity
	m.occupancy++
	m.invoke(HookPosWrite, data)
}

func (m *Model) read(eligible bool) {
	if !eligible {
		m.invoke(HookPosReadBlock, nil)
		return
	}

	data := m.storage[m.readIndex]
	m.readIndex = (m.readIndex + 1) % m.capacity
	m.occupancy--
	m.invoke(HookPosRead, data)
}

func (m *Model) invoke(pos *sim.HookPos, item interface{}) {
	if m.NumHooks() == 0 {
		return
	}

	m.InvokeHook(sim.HookCtx{
		Domain: m,
		Pos:    pos,
		Item:   item,
	})
}

// mustBeConsistent panics if the transition function left the model in an
// unreachable state.
func (m *Model) mustBeConsistent() {
	if m.occupancy < 0 || m.occupancy > m.capacity {
		log.Panicf("%s: occupancy %d outside [0, %d]",
			m.name, m.occupancy, m.capacity)
	}
	if m.writeIndex < 0 || m.writeIndex >= m.capacity {
		log.Panicf("%s: write index %d outside [0, %d)",
			m.name, m.writeIndex, m.capacity)
	}
	if m.readIndex < 0 || m.readIndex >= m.capacity {
		log.Panicf("%s: read index %d outside [0, %d)",
			m.name, m.readIndex, m.capacity)
	}
}

// State is a copy of the internal state of a Model.
type State struct {
	Storage    []Word
	WriteIndex int
	ReadIndex  int
	Occupancy  int
}

// Snapshot returns a deep copy of the model state.
func (m *Model) Snapshot() State {
	return State{
		Storage:    append([]Word(nil), m.storage...),
		WriteIndex: m.writeIndex,
		ReadIndex:  m.readIndex,
		Occupancy:  m.occupancy,
	}
}
