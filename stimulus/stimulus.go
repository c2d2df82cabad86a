// Package stimulus generates the input vectors written into the sorter.
//
// A Generator produces one vector per clock period. A Plan lists the phases
// of a test run in order, each phase pairing a generator with a repeat count.
package stimulus

import (
	"math/rand/v2"

	"github.com/sarchlab/sortbench/dut"
)

// Generator produces input vectors.
type Generator interface {
	Next() dut.InputVector
}

// Boundary is the fixed lane pattern used to probe ordering of boundary
// values: zero, all ones and two repeated-nibble values between them.
var Boundary = [dut.Lanes]uint32{0x00000000, 0x11111111, 0xFFFFFFFF, 0xEEEEEEEE}

// Pattern returns the same lane values on every call.
type Pattern struct {
	data [dut.Lanes]uint32
}

// NewPattern creates a Pattern generator for the given lanes.
func NewPattern(data [dut.Lanes]uint32) *Pattern {
	return &Pattern{data: data}
}

// NewFixed creates a Pattern generator for the Boundary lanes.
func NewFixed() *Pattern {
	return NewPattern(Boundary)
}

// Next returns the pattern with write enable asserted.
func (p *Pattern) Next() dut.InputVector {
	return dut.InputVector{Ctrl: dut.WriteControl(), Data: p.data}
}

// pcgIncrement is the second PCG seed word, fixed so that a single seed
// value selects the whole stream.
const pcgIncrement = 0xda3e39cb94b95bdb

// Random draws every lane independently and uniformly over the 32-bit range.
type Random struct {
	seed uint64
	rng  *rand.Rand
}

// NewRandom creates a Random generator. Two generators built from the same
// seed return the same vectors.
func NewRandom(seed uint64) *Random {
	return &Random{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, pcgIncrement)),
	}
}

// Seed returns the seed the generator was built with.
func (r *Random) Seed() uint64 {
	return r.seed
}

// Next returns four fresh lane values with write enable asserted.
func (r *Random) Next() dut.InputVector {
	v := dut.InputVector{Ctrl: dut.WriteControl()}
	for i := range v.Data {
		v.Data[i] = r.rng.Uint32()
	}
	return v
}
