package clock

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/sortbench/dut"
)

// HookPosEval marks a device evaluation. The hook item is a dut.Sample
// holding the time of the evaluation and every traced signal.
var HookPosEval = &sim.HookPos{Name: "Eval"}

// Sequencer drives a device through clock edges.
type Sequencer struct {
	sim.HookableBase

	name    string
	clk     Clock
	ports   dut.Ports
	dev     dut.Device
	steps   uint64
	periods uint64
}

// NewSequencer creates a Sequencer driving dev. The clock starts low at
// time zero and every port is cleared.
func NewSequencer(name string, dev dut.Device) *Sequencer {
	return &Sequencer{
		name: name,
		dev:  dev,
	}
}

// Name returns the name of the sequencer.
func (s *Sequencer) Name() string {
	return s.name
}

// Clock returns the clock driven by the sequencer.
func (s *Sequencer) Clock() *Clock {
	return &s.clk
}

// Ports returns a copy of the current port values.
func (s *Sequencer) Ports() dut.Ports {
	p := s.ports
	p.Clock = s.clk.Level()
	return p
}

// Steps returns the number of device evaluations so far.
func (s *Sequencer) Steps() uint64 {
	return s.steps
}

// Periods returns the number of full clock periods run by Tick and Cycle.
func (s *Sequencer) Periods() uint64 {
	return s.periods
}

// SetClock forces the clock level. Used outside of regular ticking, for
// example while resetting.
func (s *Sequencer) SetClock(level bool) {
	s.clk.Set(level)
}

// SetReset drives the reset port.
func (s *Sequencer) SetReset(active bool) {
	s.ports.Reset = active
}

// Apply commits an input vector to the ports.
func (s *Sequencer) Apply(v dut.InputVector) {
	s.ports.Apply(v)
}

// SetControl drives the control lanes, leaving the data lanes untouched.
func (s *Sequencer) SetControl(c dut.Control) {
	s.ports.Ctrl = c
}

// Step evaluates the device at the current time and then advances time by
// delta.
func (s *Sequencer) Step(delta uint64) {
	s.eval()
	s.clk.Advance(delta)
}

// Tick runs one full clock period made of two edges: toggle, evaluate,
// advance by highDelta, toggle, evaluate, advance by lowDelta.
func (s *Sequencer) Tick(highDelta, lowDelta uint64) {
	s.cycle(nil, highDelta, lowDelta)
}

// Cycle runs one clock period like Tick and commits v to the ports right
// after the first edge is evaluated. The vector is then held for a whole
// period and sampled on the next rising edge.
func (s *Sequencer) Cycle(v dut.InputVector, highDelta, lowDelta uint64) {
	s.cycle(&v, highDelta, lowDelta)
}

func (s *Sequencer) cycle(v *dut.InputVector, highDelta, lowDelta uint64) {
	s.clk.Toggle()
	s.eval()
	if v != nil {
		s.ports.Apply(*v)
	}
	s.clk.Advance(highDelta)

	s.clk.Toggle()
	s.eval()
	s.clk.Advance(lowDelta)

	s.periods++
}

func (s *Sequencer) eval() {
	s.ports.Clock = s.clk.Level()
	s.dev.Eval(s.ports)
	s.steps++

	signals := s.ports.Signals()
	if o, ok := s.dev.(dut.Observable); ok {
		signals = append(signals, o.Outputs()...)
	}

	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Pos:    HookPosEval,
		Item:   dut.Sample{Time: s.clk.Time(), Signals: signals},
	})
}
