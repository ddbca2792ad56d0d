// Package fifo provides the cycle-accurate reference model of a synchronous
// first-word-fall-through (FWFT) queue.
package fifo

// Word is a data word carried on the din and dout ports. Only the low
// word-width bits are meaningful.
type Word uint64

// ControlInput holds the values sampled on the input ports at one rising
// clock edge.
type ControlInput struct {
	// Reset is the synchronous reset. It overrides both enables.
	Reset bool

	// WriteEnable requests that DataIn is pushed into the queue.
	WriteEnable bool

	// DataIn is the word presented on the din port.
	DataIn Word

	// ReadEnable requests that the head word is popped.
	ReadEnable bool
}

// ObservedOutput holds the registered output ports as seen after a clock
// edge, one cycle after the inputs that produced them.
type ObservedOutput struct {
	// DataOut is the head of the queue (first word fall through).
	DataOut Word

	// Empty is high when the queue holds no words.
	Empty bool

	// Full is high when the queue holds capacity words.
	Full bool
}

// PowerUpOutput returns the value of the output registers at time zero,
// before any clock edge has been applied.
func PowerUpOutput() ObservedOutput {
	return ObservedOutput{DataOut: 0, Empty: true, Full: false}
}

// MaxWord returns the largest word representable in width bits.
func MaxWord(width int) Word {
	if width >= 64 {
		return ^Word(0)
	}
	return Word(1)<<uint(width) - 1
}

// Bit converts a boolean signal into its 0/1 port value.
func Bit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
