// Package clock sequences clock edges and device evaluations for the
// testbench.
//
// A Clock tracks the clock level and the simulation time. A Sequencer owns a
// Clock, the device ports and the device, and turns clock edges into
// evaluations. Every evaluation is reported to the akita hooks attached to
// the Sequencer, which is how waveform traces are captured.
package clock

// Clock is the simulated clock: a level and a monotonic time counter.
type Clock struct {
	level bool
	time  uint64
}

// Level returns the current clock level.
func (c *Clock) Level() bool {
	return c.level
}

// Time returns the current simulation time.
func (c *Clock) Time() uint64 {
	return c.time
}

// Set forces the clock level.
func (c *Clock) Set(level bool) {
	c.level = level
}

// Toggle inverts the clock level.
func (c *Clock) Toggle() {
	c.level = !c.level
}

// Advance moves time forward by delta. Time never stands still or moves
// backward, so a zero delta or an overflowing one panics.
func (c *Clock) Advance(delta uint64) {
	if delta == 0 {
		panic("clock: zero time advance")
	}
	next := c.time + delta
	if next < c.time {
		panic("clock: time overflow")
	}
	c.time = next
}
