package trace

import (
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/fwftsim/fifo"
)

// ErrOrdering is wrapped by scoreboard errors.
var ErrOrdering = errors.New("fifo ordering violated")

// Scoreboard checks first-in-first-out ordering of a model independently of
// its ring-buffer indices. It mirrors every accepted write into a shadow
// queue and expects every accepted read to pop the shadow head.
type Scoreboard struct {
	shadow sim.Buffer
	cycle  int
	errs   []error
}

// NewScoreboard creates a scoreboard for a queue of the given capacity.
func NewScoreboard(capacity int) *Scoreboard {
	return &Scoreboard{
		shadow: sim.NewBuffer("Scoreboard", capacity),
	}
}

// SetCycle sets the cycle number used in error messages.
func (s *Scoreboard) SetCycle(cycle int) {
	s.cycle = cycle
}

// Pending returns the number of words written but not yet read.
func (s *Scoreboard) Pending() int {
	return s.shadow.Size()
}

// Func implements sim.Hook.
func (s *Scoreboard) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case fifo.HookPosReset:
		s.shadow.Clear()
	case fifo.HookPosWrite:
		if !s.shadow.CanPush() {
			s.fail("write accepted with %d words pending", s.shadow.Size())
			return
		}
		s.shadow.Push(ctx.Item)
	case fifo.HookPosRead:
		want := s.shadow.Pop()
		if want == nil {
			s.fail("read accepted from an empty queue")
			return
		}
		if want.(fifo.Word) != ctx.Item.(fifo.Word) {
			s.fail("popped %#x, want %#x", ctx.Item, want)
		}
	}
}

func (s *Scoreboard) fail(format string, args ...interface{}) {
	s.errs = append(s.errs,
		errors.Wrapf(ErrOrdering, "cycle %d: "+format, append([]interface{}{s.cycle}, args...)...))
}

// Errors returns every violation seen so far.
func (s *Scoreboard) Errors() []error {
	return s.errs
}

// Err returns the first violation, or nil.
func (s *Scoreboard) Err() error {
	if len(s.errs) == 0 {
		return nil
	}
	return s.errs[0]
}
