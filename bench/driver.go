// Package bench runs the sorter test sequence: reset, a fixed boundary
// pattern phase and a random phase, with every evaluation traced.
package bench

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/sortbench/dut"
	"github.com/sarchlab/sortbench/stimulus"
	"github.com/sarchlab/sortbench/timing/clock"
)

// ErrAlreadyRun is returned when Run is called on a Driver that already ran.
var ErrAlreadyRun = errors.New("driver already ran")

// Phase is a step of the test sequence.
type Phase int

// Phases run in this order, once each.
const (
	PhaseReset Phase = iota
	PhaseFixedPattern
	PhaseRandomPattern
	numPhases
)

var phaseNames = [...]string{"reset", "fixed-pattern", "random-pattern"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// phaseOf maps the i-th stimulus phase of a plan to its test Phase.
func phaseOf(i int) (Phase, bool) {
	p := PhaseFixedPattern + Phase(i)
	if i < 0 || p >= numPhases {
		return 0, false
	}
	return p, true
}

// Hook positions invoked by the Driver. The hook item is the Phase.
var (
	HookPosPhaseStart = &sim.HookPos{Name: "PhaseStart"}
	HookPosPhaseEnd   = &sim.HookPos{Name: "PhaseEnd"}
)

// Sink receives evaluation samples and is closed once the device is
// finalized.
type Sink interface {
	sim.Hook
	Close() error
}

// Stats summarizes a run.
type Stats struct {
	// Seed is the seed of the random phase.
	Seed uint64
	// StreamCount is the number of vectors per stream batch.
	StreamCount int
	// PhaseVectors is the number of vectors issued by each phase.
	PhaseVectors [numPhases]uint64
	// Periods is the number of clock periods run after reset.
	Periods uint64
	// Steps is the number of device evaluations, reset included.
	Steps uint64
	// ResetEnd is the simulation time at which reset completed.
	ResetEnd uint64
	// SimTime is the simulation time at the end of the run.
	SimTime uint64
	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Vectors returns the number of vectors issued by phase p.
func (s Stats) Vectors(p Phase) uint64 {
	if p < 0 || p >= numPhases {
		return 0
	}
	return s.PhaseVectors[p]
}

// TotalVectors returns the number of vectors issued after reset.
func (s Stats) TotalVectors() uint64 {
	var n uint64
	for _, v := range s.PhaseVectors {
		n += v
	}
	return n
}

// Driver runs the test sequence against a device.
type Driver struct {
	sim.HookableBase

	config *Config
	dev    dut.Device
	seq    *clock.Sequencer
	reset  *ResetController
	plan   stimulus.Plan
	sink   Sink
	logger logr.Logger
	now    func() time.Time

	seed  uint64
	phase Phase
	ran   bool
	stats Stats
}

// DriverOption is a functional option for configuring the Driver.
type DriverOption func(*Driver)

// WithSink sets the trace sink. It is attached to the sequencer and closed
// at the end of Run.
func WithSink(s Sink) DriverOption {
	return func(d *Driver) {
		d.sink = s
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithWallClock sets the wall-clock source used for timing the run and for
// seeding when the config has no seed.
func WithWallClock(now func() time.Time) DriverOption {
	return func(d *Driver) {
		d.now = now
	}
}

// NewDriver creates a Driver for dev. The config must be valid.
func NewDriver(config *Config, dev dut.Device, opts ...DriverOption) *Driver {
	d := &Driver{
		config: config,
		dev:    dev,
		logger: logr.Discard(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seq = clock.NewSequencer("TOP", dev)
	if d.sink != nil {
		d.seq.AcceptHook(d.sink)
	}
	d.reset = NewResetController(d.seq, config.ResetDeltas)
	d.seed = config.ResolveSeed(d.now())
	d.plan = stimulus.DefaultPlan(d.seed, config.PhaseRepeats)
	if _, ok := phaseOf(len(d.plan) - 1); !ok {
		panic(fmt.Sprintf("bench: plan has %d stimulus phases", len(d.plan)))
	}

	return d
}

// Name returns the name of the driver.
func (d *Driver) Name() string {
	return "Driver"
}

// Sequencer returns the sequencer driving the device.
func (d *Driver) Sequencer() *clock.Sequencer {
	return d.seq
}

// Seed returns the seed of the random phase.
func (d *Driver) Seed() uint64 {
	return d.seed
}

// Phase returns the phase being run, or the last one once Run returned.
func (d *Driver) Phase() Phase {
	return d.phase
}

// Stats returns the statistics of the run.
func (d *Driver) Stats() Stats {
	return d.stats
}

// Run resets the device, runs the fixed pattern and random phases,
// finalizes the device and closes the sink. The sink is closed even when
// nothing was traced; its error is returned.
func (d *Driver) Run() (Stats, error) {
	if d.ran {
		return d.stats, ErrAlreadyRun
	}
	d.ran = true

	start := d.now()
	streamCount := d.config.StreamCount()
	d.stats.Seed = d.seed
	d.stats.StreamCount = streamCount

	d.logger.Info("start simulation",
		"seed", d.seed,
		"streamCount", streamCount,
		"vectors", d.plan.Vectors(streamCount))

	d.enter(PhaseReset)
	d.logger.Info("resetting top module")
	d.reset.Apply()
	d.stats.ResetEnd = d.seq.Clock().Time()
	d.leave(PhaseReset)

	resetPeriods := d.seq.Periods()
	for i, ph := range d.plan {
		p, _ := phaseOf(i)
		d.enter(p)
		ph.Run(streamCount, func(v dut.InputVector) {
			d.seq.Cycle(v, d.config.HighDelta, d.config.LowDelta)
			d.stats.PhaseVectors[p]++
		})
		d.leave(p)
	}

	d.dev.Final()

	var err error
	if d.sink != nil {
		err = errors.Wrap(d.sink.Close(), "failed to close trace")
	}

	d.stats.Periods = d.seq.Periods() - resetPeriods
	d.stats.Steps = d.seq.Steps()
	d.stats.SimTime = d.seq.Clock().Time()
	d.stats.Elapsed = d.now().Sub(start)

	d.logger.Info("simulation ended",
		"periods", d.stats.Periods,
		"simTime", d.stats.SimTime,
		"elapsed", d.stats.Elapsed)

	return d.stats, err
}

func (d *Driver) enter(p Phase) {
	d.phase = p
	d.logger.V(1).Info("phase started", "phase", p.String(), "time", d.seq.Clock().Time())
	d.InvokeHook(sim.HookCtx{Domain: d, Pos: HookPosPhaseStart, Item: p})
}

func (d *Driver) leave(p Phase) {
	d.logger.V(1).Info("phase ended",
		"phase", p.String(),
		"time", d.seq.Clock().Time(),
		"vectors", d.stats.Vectors(p))
	d.InvokeHook(sim.HookCtx{Domain: d, Pos: HookPosPhaseEnd, Item: p})
}
