package trace_test

import (
	"github.com/go-logr/logr/funcr"
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/fwftsim/config"
	"github.com/sarchlab/fwftsim/fifo"
	"github.com/sarchlab/fwftsim/stimulus"
	"github.com/sarchlab/fwftsim/trace"
)

var _ = Describe("Driver", func() {
	var d *trace.Driver

	BeforeEach(func() {
		var err error
		d, err = trace.NewDriver(16, trace.WithScoreboard())
		Expect(err).NotTo(HaveOccurred())
	})

	It("should reject a non-positive capacity", func() {
		_, err := trace.NewDriver(0)
		Expect(err).To(MatchError(fifo.ErrInvalidCapacity))
	})

	It("should reject an empty stimulus", func() {
		_, err := d.Run(nil)
		Expect(err).To(MatchError(trace.ErrEmptyStimulus))
	})

	It("should emit the power-up record first", func() {
		t, err := d.Run([]fifo.ControlInput{{Reset: true}})
		Expect(err).NotTo(HaveOccurred())

		Expect(t.Expected).To(HaveLen(2))
		Expect(t.Expected[0]).To(Equal(fifo.PowerUpOutput()))
		Expect(t.Cycles()).To(Equal(1))
	})

	It("should keep its own copy of the stimulus", func() {
		stim := []fifo.ControlInput{
			{WriteEnable: true, DataIn: 0x11},
			{ReadEnable: true},
		}

		t, err := d.Run(stim)
		Expect(err).NotTo(HaveOccurred())

		stim[0].DataIn = 0x99
		stim[1].ReadEnable = false

		in, out := t.At(0)
		Expect(in).To(Equal(fifo.ControlInput{WriteEnable: true, DataIn: 0x11}))
		Expect(out.DataOut).To(Equal(fifo.Word(0x11)))
		in, _ = t.At(1)
		Expect(in.ReadEnable).To(BeTrue())
	})

	It("should reproduce the 16-deep 8-bit reference scenario", func() {
		stim := []fifo.ControlInput{
			{Reset: true},
			{WriteEnable: true, DataIn: 0x2A},
			{ReadEnable: true},
		}

		t, err := d.Run(stim)
		Expect(err).NotTo(HaveOccurred())

		Expect(t.Expected).To(Equal([]fifo.ObservedOutput{
			{DataOut: 0, Empty: true, Full: false}, // power-up
			{DataOut: 0, Empty: true, Full: false}, // after reset
			{DataOut: 0x2A, Empty: false, Full: false},
			{DataOut: 0, Empty: true, Full: false},
		}))

		// During cycle 2 the word presented on dout is the one the read pops.
		_, out := t.At(1)
		Expect(out.DataOut).To(Equal(fifo.Word(0x2A)))
		Expect(t.Stats.Writes).To(Equal(uint64(1)))
		Expect(t.Stats.Reads).To(Equal(uint64(1)))
	})

	It("should align every output with the stimulus that produced it", func() {
		c := stimulus.DefaultConfig()
		c.Length = 300
		stim, err := stimulus.Generate(c)
		Expect(err).NotTo(HaveOccurred())

		t, err := d.Run(stim)
		Expect(err).NotTo(HaveOccurred())

		m, err := fifo.New(16)
		Expect(err).NotTo(HaveOccurred())
		for i := range stim {
			in, out := t.At(i)
			Expect(in).To(Equal(stim[i]))
			Expect(out).To(Equal(m.Step(stim[i])), "cycle %d", i)
		}
		Expect(t.Expected).To(HaveLen(301))
	})

	It("should deliver words in write order with one cycle of latency", func() {
		var stim []fifo.ControlInput
		for i := 0; i < 10; i++ {
			stim = append(stim, fifo.ControlInput{WriteEnable: true, DataIn: fifo.Word(i + 1)})
		}
		for i := 0; i < 10; i++ {
			stim = append(stim, fifo.ControlInput{ReadEnable: true})
		}

		t, err := d.Run(stim)
		Expect(err).NotTo(HaveOccurred())

		var seen []fifo.Word
		for i := 10; i < 20; i++ {
			// The word popped by stimulus i is visible in record i, the
			// output registered by the previous edge.
			seen = append(seen, t.Expected[i].DataOut)
		}
		Expect(cmp.Diff([]fifo.Word{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, seen)).To(BeEmpty())
		Expect(t.Expected[20].Empty).To(BeTrue())
	})

	It("should count drops and blocked reads", func() {
		small, err := trace.NewDriver(2)
		Expect(err).NotTo(HaveOccurred())

		t, err := small.Run([]fifo.ControlInput{
			{ReadEnable: true},
			{WriteEnable: true, DataIn: 1},
			{WriteEnable: true, DataIn: 2},
			{WriteEnable: true, DataIn: 3},
			{Reset: true},
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(t.Stats).To(Equal(trace.Statistics{
			Cycles:        5,
			ResetCycles:   1,
			Writes:        2,
			DroppedWrites: 1,
			BlockedReads:  1,
			MaxOccupancy:  2,
		}))
		Expect(t.Stats.DropRate()).To(BeNumerically("~", 1.0/3.0, 1e-9))
	})

	It("should honor the policy option", func() {
		ft, err := trace.NewDriver(4, trace.WithPolicy(fifo.PolicySameCycleFallThrough))
		Expect(err).NotTo(HaveOccurred())

		t, err := ft.Run([]fifo.ControlInput{
			{WriteEnable: true, DataIn: 9, ReadEnable: true},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Expected[1].Empty).To(BeTrue())
		Expect(t.Stats.Reads).To(Equal(uint64(1)))
	})

	It("should log events when verbose", func() {
		var lines []string
		logger := funcr.New(func(prefix, args string) {
			lines = append(lines, args)
		}, funcr.Options{Verbosity: 2})

		verbose, err := trace.NewDriver(4, trace.WithLogger(logger))
		Expect(err).NotTo(HaveOccurred())
		_, err = verbose.Run([]fifo.ControlInput{{WriteEnable: true, DataIn: 5}})
		Expect(err).NotTo(HaveOccurred())

		Expect(lines).To(ContainElement(ContainSubstring("FIFO Write")))
		Expect(lines).To(ContainElement(ContainSubstring("run complete")))
	})

	Describe("RunConfig", func() {
		It("should run the default configuration", func() {
			t, err := trace.RunConfig(config.DefaultConfig(), trace.WithScoreboard())
			Expect(err).NotTo(HaveOccurred())

			Expect(t.Cycles()).To(Equal(1024))
			Expect(t.Expected).To(HaveLen(1025))
			for i := 1; i <= 4; i++ {
				Expect(t.Expected[i]).To(Equal(fifo.PowerUpOutput()))
			}
			Expect(t.Stats.ResetCycles).To(Equal(uint64(4)))
			Expect(t.Stats.MaxOccupancy).To(BeNumerically("<=", 16))
		})

		It("should be reproducible", func() {
			a, err := trace.RunConfig(config.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			b, err := trace.RunConfig(config.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			Expect(cmp.Diff(a, b)).To(BeEmpty())
		})

		It("should reject an invalid configuration before running", func() {
			c := config.DefaultConfig()
			c.RunLength = 0
			_, err := trace.RunConfig(c)
			Expect(err).To(MatchError(config.ErrInvalid))
		})
	})
})

var _ = Describe("Scoreboard", func() {
	var (
		sb    *trace.Scoreboard
		model *fifo.Model
	)

	BeforeEach(func() {
		var err error
		model, err = fifo.New(2)
		Expect(err).NotTo(HaveOccurred())
		sb = trace.NewScoreboard(2)
		model.AcceptHook(sb)
	})

	It("should track pending words", func() {
		model.Step(fifo.ControlInput{WriteEnable: true, DataIn: 1})
		model.Step(fifo.ControlInput{WriteEnable: true, DataIn: 2})
		Expect(sb.Pending()).To(Equal(2))

		model.Step(fifo.ControlInput{ReadEnable: true})
		Expect(sb.Pending()).To(Equal(1))

		model.Step(fifo.ControlInput{Reset: true})
		Expect(sb.Pending()).To(Equal(0))
		Expect(sb.Err()).NotTo(HaveOccurred())
	})

	It("should flag a read that pops the wrong word", func() {
		model.Step(fifo.ControlInput{WriteEnable: true, DataIn: 1})
		sb.SetCycle(7)
		sb.Func(sim.HookCtx{Domain: model, Pos: fifo.HookPosRead, Item: fifo.Word(2)})

		Expect(sb.Err()).To(MatchError(trace.ErrOrdering))
		Expect(sb.Err().Error()).To(ContainSubstring("cycle 7"))
	})

	It("should flag a read from an empty shadow queue", func() {
		sb.Func(sim.HookCtx{Domain: model, Pos: fifo.HookPosRead, Item: fifo.Word(0)})
		Expect(sb.Errors()).To(HaveLen(1))
	})

	It("should flag a write beyond capacity", func() {
		for i := 0; i < 3; i++ {
			sb.Func(sim.HookCtx{Domain: model, Pos: fifo.HookPosWrite, Item: fifo.Word(i)})
		}
		Expect(sb.Errors()).To(HaveLen(1))
	})
})

var _ = Describe("Compare", func() {
	expected := []fifo.ObservedOutput{
		fifo.PowerUpOutput(),
		{DataOut: 3},
		{DataOut: 4, Full: true},
	}

	It("should accept identical sequences", func() {
		Expect(trace.Compare(expected, expected)).To(BeEmpty())
	})

	It("should report differing records", func() {
		actual := []fifo.ObservedOutput{
			fifo.PowerUpOutput(),
			{DataOut: 5, Empty: true},
			{DataOut: 4, Full: true},
		}

		mm := trace.Compare(expected, actual)
		Expect(mm).To(HaveLen(1))
		Expect(mm[0].Index).To(Equal(1))
		Expect(mm[0].String()).To(Equal("record 1: dout got 0x5 want 0x3, empty got 1 want 0"))
	})

	It("should report a short sequence", func() {
		mm := trace.Compare(expected, expected[:2])
		Expect(mm).To(HaveLen(1))
		Expect(mm[0].Missing).To(BeTrue())
		Expect(mm[0].Index).To(Equal(2))
		Expect(mm[0].Expected).To(Equal(expected[2]))
		Expect(mm[0].String()).To(ContainSubstring("length"))
	})
})
