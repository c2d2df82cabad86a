package stimulus_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sortbench/dut"
	"github.com/sarchlab/sortbench/stimulus"
)

var _ = Describe("Plan", func() {
	It("should run the fixed phase before the random phase", func() {
		plan := stimulus.DefaultPlan(1, stimulus.DefaultRepeat)

		Expect(plan).To(HaveLen(2))
		Expect(plan[0].Name).To(Equal("fixed"))
		Expect(plan[0].Gen).To(BeAssignableToTypeOf(&stimulus.Pattern{}))
		Expect(plan[1].Name).To(Equal("random"))
		Expect(plan[1].Gen).To(BeAssignableToTypeOf(&stimulus.Random{}))
		Expect(plan[1].Gen.(*stimulus.Random).Seed()).To(Equal(uint64(1)))
	})

	It("should count repeat times stream count vectors per phase", func() {
		plan := stimulus.DefaultPlan(1, 8)

		Expect(plan[0].Vectors(16)).To(Equal(128))
		Expect(plan[1].Vectors(16)).To(Equal(128))
		Expect(plan.Vectors(16)).To(Equal(256))
	})

	It("should issue every vector of a phase before the next phase", func() {
		plan := stimulus.DefaultPlan(9, 8)
		var phases []int
		counts := map[int]int{}

		plan.Run(16, func(phase int, v dut.InputVector) {
			phases = append(phases, phase)
			counts[phase]++
			if phase == 0 {
				Expect(v.Data).To(Equal(stimulus.Boundary))
			}
		})

		Expect(counts).To(Equal(map[int]int{0: 128, 1: 128}))
		for i := 1; i < len(phases); i++ {
			Expect(phases[i]).To(BeNumerically(">=", phases[i-1]))
		}
	})

	It("should draw random vectors in generator order", func() {
		plan := stimulus.DefaultPlan(5, 1)
		ref := stimulus.NewRandom(5)

		plan.Run(4, func(phase int, v dut.InputVector) {
			if phase == 1 {
				Expect(v).To(Equal(ref.Next()))
			}
		})
	})

	It("should issue nothing for an empty plan", func() {
		calls := 0
		stimulus.Plan{}.Run(16, func(int, dut.InputVector) { calls++ })
		Expect(calls).To(BeZero())
	})
})
