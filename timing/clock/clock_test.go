package clock_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sortbench/timing/clock"
)

var _ = Describe("Clock", func() {
	var c *clock.Clock

	BeforeEach(func() {
		c = &clock.Clock{}
	})

	It("should start low at time zero", func() {
		Expect(c.Level()).To(BeFalse())
		Expect(c.Time()).To(BeZero())
	})

	It("should toggle and set the level", func() {
		c.Toggle()
		Expect(c.Level()).To(BeTrue())
		c.Toggle()
		Expect(c.Level()).To(BeFalse())
		c.Set(true)
		Expect(c.Level()).To(BeTrue())
	})

	It("should advance time", func() {
		c.Advance(1)
		c.Advance(9)
		Expect(c.Time()).To(Equal(uint64(10)))
	})

	It("should refuse to stand still", func() {
		Expect(func() { c.Advance(0) }).To(Panic())
	})

	It("should refuse to wrap around", func() {
		c.Advance(^uint64(0))
		Expect(func() { c.Advance(1) }).To(Panic())
		Expect(c.Time()).To(Equal(^uint64(0)))
	})
})
