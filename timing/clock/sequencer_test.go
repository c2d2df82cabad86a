package clock_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/sortbench/dut"
	"github.com/sarchlab/sortbench/timing/clock"
)

type recordingDevice struct {
	evals  []dut.Ports
	finals int
}

func (d *recordingDevice) Eval(in dut.Ports) { d.evals = append(d.evals, in) }
func (d *recordingDevice) Final()            { d.finals++ }

type observableDevice struct {
	recordingDevice
}

func (d *observableDevice) Outputs() []dut.Signal {
	return []dut.Signal{dut.Bit("io_busy", true)}
}

type sampleHook struct {
	samples []dut.Sample
	domains []sim.Hookable
}

func (h *sampleHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != clock.HookPosEval {
		return
	}
	h.samples = append(h.samples, ctx.Item.(dut.Sample))
	h.domains = append(h.domains, ctx.Domain)
}

var _ = Describe("Sequencer", func() {
	var (
		dev  *recordingDevice
		hook *sampleHook
		seq  *clock.Sequencer
	)

	BeforeEach(func() {
		dev = &recordingDevice{}
		hook = &sampleHook{}
		seq = clock.NewSequencer("TB", dev)
		seq.AcceptHook(hook)
	})

	It("should be named", func() {
		Expect(seq.Name()).To(Equal("TB"))
	})

	It("should evaluate then advance on Step", func() {
		seq.SetClock(true)
		seq.Step(1)

		Expect(dev.evals).To(HaveLen(1))
		Expect(dev.evals[0].Clock).To(BeTrue())
		Expect(hook.samples[0].Time).To(BeZero())
		Expect(seq.Clock().Time()).To(Equal(uint64(1)))
		Expect(seq.Steps()).To(Equal(uint64(1)))
		Expect(seq.Periods()).To(BeZero())
	})

	It("should run two edges per Tick", func() {
		seq.Tick(10, 10)

		Expect(dev.evals).To(HaveLen(2))
		Expect(dev.evals[0].Clock).To(BeTrue())
		Expect(dev.evals[1].Clock).To(BeFalse())
		Expect(hook.samples[0].Time).To(Equal(uint64(0)))
		Expect(hook.samples[1].Time).To(Equal(uint64(10)))
		Expect(seq.Clock().Time()).To(Equal(uint64(20)))
		Expect(seq.Clock().Level()).To(BeFalse())
		Expect(seq.Periods()).To(Equal(uint64(1)))
	})

	It("should honor asymmetric deltas", func() {
		seq.Tick(3, 7)
		seq.Tick(3, 7)

		times := []uint64{}
		for _, s := range hook.samples {
			times = append(times, s.Time)
		}
		Expect(times).To(Equal([]uint64{0, 3, 10, 13}))
	})

	It("should apply a vector after the first edge of a Cycle", func() {
		v := dut.InputVector{
			Ctrl: dut.WriteControl(),
			Data: [dut.Lanes]uint32{1, 2, 3, 4},
		}

		seq.Cycle(v, 10, 10)

		Expect(dev.evals[0].Vector()).To(Equal(dut.InputVector{}))
		Expect(dev.evals[1].Vector()).To(Equal(v))
		Expect(seq.Ports().Vector()).To(Equal(v))
	})

	It("should hold reset and control lanes across ticks", func() {
		seq.SetReset(true)
		seq.SetControl(dut.ResetControl())
		seq.Tick(1, 1)

		for _, in := range dev.evals {
			Expect(in.Reset).To(BeTrue())
			Expect(in.Ctrl).To(Equal(dut.ResetControl()))
		}
	})

	It("should report itself as the hook domain", func() {
		seq.Tick(1, 1)

		for _, d := range hook.domains {
			Expect(d).To(BeIdenticalTo(seq))
		}
	})

	It("should trace the input ports", func() {
		seq.Tick(1, 1)

		Expect(hook.samples[0].Signals).To(Equal(dut.Ports{Clock: true}.Signals()))
	})

	It("should trace device outputs when the device exposes them", func() {
		obs := &observableDevice{}
		seq = clock.NewSequencer("TB", obs)
		seq.AcceptHook(hook)

		seq.Step(1)

		s := hook.samples[0].Signals
		Expect(s[len(s)-1]).To(Equal(dut.Bit("io_busy", true)))
	})

	It("should never call Final", func() {
		seq.Tick(1, 1)
		Expect(dev.finals).To(BeZero())
	})
})
