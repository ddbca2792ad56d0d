package trace

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/fwftsim/fifo"
)

// Statistics holds per-run event counts.
type Statistics struct {
	// Cycles is the number of stimulus cycles applied.
	Cycles uint64
	// ResetCycles is the number of cycles with reset asserted.
	ResetCycles uint64
	// Writes is the number of words accepted into the queue.
	Writes uint64
	// DroppedWrites is the number of writes issued while full.
	DroppedWrites uint64
	// Reads is the number of words popped.
	Reads uint64
	// BlockedReads is the number of read enables the queue ignored.
	BlockedReads uint64
	// MaxOccupancy is the highest occupancy observed after any cycle.
	MaxOccupancy int
}

// DropRate returns the fraction of write requests that were dropped.
func (s Statistics) DropRate() float64 {
	total := s.Writes + s.DroppedWrites
	if total == 0 {
		return 0
	}
	return float64(s.DroppedWrites) / float64(total)
}

// statsCounter is a hook that tallies model events.
type statsCounter struct {
	model *fifo.Model
	stats Statistics
}

func newStatsCounter(model *fifo.Model) *statsCounter {
	return &statsCounter{model: model}
}

// Func implements sim.Hook.
func (c *statsCounter) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case fifo.HookPosReset:
		c.stats.ResetCycles++
	case fifo.HookPosWrite:
		c.stats.Writes++
	case fifo.HookPosWriteDrop:
		c.stats.DroppedWrites++
	case fifo.HookPosRead:
		c.stats.Reads++
	case fifo.HookPosReadBlock:
		c.stats.BlockedReads++
	}
}

// sample closes the current cycle.
func (c *statsCounter) sample() {
	c.stats.Cycles++
	if occ := c.model.Occupancy(); occ > c.stats.MaxOccupancy {
		c.stats.MaxOccupancy = occ
	}
}
