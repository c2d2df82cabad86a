package bench

import (
	"github.com/sarchlab/sortbench/dut"
	"github.com/sarchlab/sortbench/timing/clock"
)

// ResetController brings the device into a known state.
type ResetController struct {
	seq     *clock.Sequencer
	deltas  [3]uint64
	applied bool
}

// NewResetController creates a ResetController. deltas are the time
// advances after each of the three reset steps.
func NewResetController(seq *clock.Sequencer, deltas [3]uint64) *ResetController {
	return &ResetController{seq: seq, deltas: deltas}
}

// Apply drives the reset sequence. The control lanes take their reset
// values and reset is pulsed with the clock high:
//
//	step  clock  reset
//	1     1      0
//	2     1      1
//	3     0      0
//
// Data lanes are left untouched. Apply panics when called twice.
func (r *ResetController) Apply() {
	if r.applied {
		panic("bench: reset applied twice")
	}
	r.applied = true

	r.seq.SetControl(dut.ResetControl())

	r.seq.SetClock(true)
	r.seq.SetReset(false)
	r.seq.Step(r.deltas[0])

	r.seq.SetReset(true)
	r.seq.Step(r.deltas[1])

	r.seq.SetClock(false)
	r.seq.SetReset(false)
	r.seq.Step(r.deltas[2])
}

// Applied returns true once Apply has run.
func (r *ResetController) Applied() bool {
	return r.applied
}
