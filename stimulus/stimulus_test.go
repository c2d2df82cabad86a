package stimulus_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sortbench/dut"
	"github.com/sarchlab/sortbench/stimulus"
)

var _ = Describe("Pattern", func() {
	It("should return the boundary lanes on every call", func() {
		g := stimulus.NewFixed()
		want := [dut.Lanes]uint32{0x00000000, 0x11111111, 0xFFFFFFFF, 0xEEEEEEEE}

		for i := 0; i < 1000; i++ {
			Expect(g.Next().Data).To(Equal(want))
		}
	})

	It("should assert write enable", func() {
		Expect(stimulus.NewFixed().Next().Ctrl).To(Equal(dut.WriteControl()))
	})

	It("should not share its lanes with callers", func() {
		g := stimulus.NewFixed()
		v := g.Next()
		v.Data[0] = 42

		Expect(g.Next().Data[0]).To(BeZero())
	})

	It("should repeat any custom pattern", func() {
		g := stimulus.NewPattern([dut.Lanes]uint32{4, 3, 2, 1})
		Expect(g.Next().Data).To(Equal([dut.Lanes]uint32{4, 3, 2, 1}))
		Expect(g.Next().Data).To(Equal([dut.Lanes]uint32{4, 3, 2, 1}))
	})
})

var _ = Describe("Random", func() {
	It("should keep its seed", func() {
		Expect(stimulus.NewRandom(99).Seed()).To(Equal(uint64(99)))
	})

	It("should be reproducible from a seed", func() {
		a := stimulus.NewRandom(1234)
		b := stimulus.NewRandom(1234)

		for i := 0; i < 100; i++ {
			Expect(a.Next()).To(Equal(b.Next()))
		}
	})

	It("should differ between seeds", func() {
		a := stimulus.NewRandom(1)
		b := stimulus.NewRandom(2)

		same := 0
		for i := 0; i < 100; i++ {
			if a.Next() == b.Next() {
				same++
			}
		}
		Expect(same).To(BeZero())
	})

	It("should assert write enable", func() {
		Expect(stimulus.NewRandom(5).Next().Ctrl).To(Equal(dut.WriteControl()))
	})

	It("should not repeat 32-bit values beyond the birthday bound", func() {
		g := stimulus.NewRandom(42)
		seen := map[uint32]int{}

		// 4096 vectors give 16384 draws. With 2^32 possible values the
		// expected number of colliding pairs is about 0.03.
		for i := 0; i < 4096; i++ {
			for _, d := range g.Next().Data {
				seen[d]++
			}
		}

		for _, n := range seen {
			Expect(n).To(BeNumerically("<=", 2))
		}
		Expect(len(seen)).To(BeNumerically(">=", 16384-2))
	})

	It("should reach both halves of every bit", func() {
		g := stimulus.NewRandom(7)
		var ones, zeros uint32

		for i := 0; i < 256; i++ {
			for _, d := range g.Next().Data {
				ones |= d
				zeros |= ^d
			}
		}

		Expect(ones).To(Equal(uint32(0xFFFFFFFF)))
		Expect(zeros).To(Equal(uint32(0xFFFFFFFF)))
	})

	It("should produce odd values", func() {
		g := stimulus.NewRandom(3)
		odd := false
		for i := 0; i < 64 && !odd; i++ {
			for _, d := range g.Next().Data {
				odd = odd || d&1 == 1
			}
		}
		Expect(odd).To(BeTrue())
	})
})
