package dut

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ResetPolicy selects the value registers take when they are reset or first
// created, mirroring the randomization policy of generated models.
type ResetPolicy int

const (
	// ResetZeros clears every register.
	ResetZeros ResetPolicy = iota
	// ResetOnes sets every register bit.
	ResetOnes
	// ResetRandom fills registers from a seeded generator.
	ResetRandom
)

var resetPolicyNames = [...]string{"zeros", "ones", "random"}

func (p ResetPolicy) String() string {
	if p < 0 || int(p) >= len(resetPolicyNames) {
		return "ResetPolicy(" + strconv.Itoa(int(p)) + ")"
	}
	return resetPolicyNames[p]
}

// ParseResetPolicy parses a policy name as printed by ResetPolicy.String.
func ParseResetPolicy(s string) (ResetPolicy, error) {
	for i, n := range resetPolicyNames {
		if strings.EqualFold(s, n) {
			return ResetPolicy(i), nil
		}
	}
	return 0, errors.Errorf("unknown reset policy %q", s)
}

// Latch is a stand-in device with the sorter's port contract. It registers
// the data lanes on every rising clock edge with write enable asserted and
// exposes them as outputs. It is used when no generated model is linked in.
//
// Reset is asynchronous and active high.
type Latch struct {
	policy ResetPolicy
	rng    *rand.Rand

	data      [Lanes]uint32
	lastClock bool
	edges     uint64
	writes    uint64
	clears    uint64
	evals     uint64
	final     bool
}

// LatchOption is a functional option for configuring a Latch.
type LatchOption func(*Latch)

// WithResetPolicy sets the register reset policy.
func WithResetPolicy(p ResetPolicy) LatchOption {
	return func(l *Latch) {
		l.policy = p
	}
}

// WithResetSeed seeds the generator used by ResetRandom.
func WithResetSeed(seed uint64) LatchOption {
	return func(l *Latch) {
		l.rng = rand.New(rand.NewPCG(seed, ^seed))
	}
}

// NewLatch creates a Latch with its registers initialized per the reset
// policy.
func NewLatch(opts ...LatchOption) *Latch {
	l := &Latch{}
	for _, opt := range opts {
		opt(l)
	}
	if l.rng == nil {
		l.rng = rand.New(rand.NewPCG(0, 0))
	}
	l.resetRegisters()
	return l
}

func (l *Latch) resetRegisters() {
	for i := range l.data {
		switch l.policy {
		case ResetOnes:
			l.data[i] = ^uint32(0)
		case ResetRandom:
			l.data[i] = l.rng.Uint32()
		default:
			l.data[i] = 0
		}
	}
}

// Eval settles the latch for the given inputs.
func (l *Latch) Eval(in Ports) {
	if l.final {
		panic("dut: Eval called after Final")
	}
	l.evals++

	rising := in.Clock && !l.lastClock
	l.lastClock = in.Clock

	if in.Reset {
		l.resetRegisters()
		return
	}
	if !rising {
		return
	}
	l.edges++

	switch {
	case in.Ctrl.Clear:
		l.data = [Lanes]uint32{}
		l.clears++
	case in.Ctrl.WE:
		l.data = in.Data
		l.writes++
	}
}

// Final marks the latch as finished.
func (l *Latch) Final() {
	l.final = true
}

// Finalized returns true once Final has been called.
func (l *Latch) Finalized() bool {
	return l.final
}

// Outputs returns the registered data lanes.
func (l *Latch) Outputs() []Signal {
	s := make([]Signal, Lanes)
	for i, d := range l.data {
		s[i] = Signal{
			Name:  "io_data_oData_" + strconv.Itoa(i),
			Width: 32,
			Value: uint64(d),
		}
	}
	return s
}

// Data returns the registered data lanes.
func (l *Latch) Data() [Lanes]uint32 {
	return l.data
}

// Evals returns the number of evaluations.
func (l *Latch) Evals() uint64 {
	return l.evals
}

// RisingEdges returns the number of rising clock edges seen outside reset.
func (l *Latch) RisingEdges() uint64 {
	return l.edges
}

// Writes returns the number of rising edges that captured the data lanes.
func (l *Latch) Writes() uint64 {
	return l.writes
}

// Clears returns the number of rising edges that cleared the data lanes.
func (l *Latch) Clears() uint64 {
	return l.clears
}
