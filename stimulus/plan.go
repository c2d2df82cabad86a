package stimulus

import "github.com/sarchlab/sortbench/dut"

// DefaultRepeat is the number of stream batches each phase writes.
const DefaultRepeat = 8

// Phase is a contiguous run of one generator. It issues Repeat batches of
// StreamCount vectors.
type Phase struct {
	Name   string
	Gen    Generator
	Repeat int
}

// Vectors returns the number of vectors the phase issues for the given
// stream count.
func (p Phase) Vectors(streamCount int) int {
	return p.Repeat * streamCount
}

// Plan is the ordered list of phases of a run.
type Plan []Phase

// Vectors returns the total number of vectors issued by the plan.
func (p Plan) Vectors(streamCount int) int {
	n := 0
	for _, ph := range p {
		n += ph.Vectors(streamCount)
	}
	return n
}

// DefaultPlan returns the boundary pattern phase followed by the random
// phase, each repeated repeat times.
func DefaultPlan(seed uint64, repeat int) Plan {
	return Plan{
		{Name: "fixed", Gen: NewFixed(), Repeat: repeat},
		{Name: "random", Gen: NewRandom(seed), Repeat: repeat},
	}
}

// Run draws Repeat batches of streamCount vectors from the generator and
// passes each one to apply.
func (p Phase) Run(streamCount int, apply func(v dut.InputVector)) {
	for r := 0; r < p.Repeat; r++ {
		for j := 0; j < streamCount; j++ {
			apply(p.Gen.Next())
		}
	}
}

// Run runs every phase of the plan in order and passes each vector to apply
// along with the index of its phase.
func (p Plan) Run(streamCount int, apply func(phase int, v dut.InputVector)) {
	for i, ph := range p {
		ph.Run(streamCount, func(v dut.InputVector) {
			apply(i, v)
		})
	}
}
