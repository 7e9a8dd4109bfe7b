package kernel_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/gogpi/backend/kernel"
	"github.com/sarchlab/gogpi/handle"
)

var _ = Describe("Design", func() {
	var (
		engine sim.Engine
		design *kernel.Design
		clk    *kernel.Signal
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		design = kernel.NewBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Design")

		clk = kernel.NewSignal("clk", 1, handle.ScalarKind, false, "0")
		design.Root().AddSignal(clk)
		design.Elaborate()
	})

	It("refuses operations before elaboration", func() {
		fresh := kernel.NewDesign("Fresh", engine, 1*sim.GHz, -9)
		Expect(fresh.Ready()).To(BeFalse())
		Expect(fresh.GuardReady()).To(HaveOccurred())
	})

	It("settles an inertial deposit at the following read-write phase", func() {
		Expect(clk.SetInertial("1")).To(Succeed())
		Expect(clk.BinStr()).To(Equal("0"), "not yet settled")

		design.Tick(0)

		Expect(clk.BinStr()).To(Equal("1"))
	})

	It("fires a value-change callback only on the tick the value changes", func() {
		fired := 0
		design.ArmValueChange(clk, func() { fired++ })

		design.Tick(0) // no change yet
		Expect(fired).To(Equal(0))

		Expect(clk.SetInertial("1")).To(Succeed())
		design.Tick(0)
		Expect(fired).To(Equal(1))

		design.Tick(0) // stable, no further fire
		Expect(fired).To(Equal(1))
	})

	It("schedules a begin-step callback for a future step, not the current one", func() {
		fired := false
		design.ScheduleBeginStep(2, func() { fired = true })

		design.Tick(0) // step 0 -> 1, entry is due at step 2, not yet reached
		Expect(fired).To(BeFalse())
		design.Tick(0) // step 1 -> 2, entry still due at step 2, not yet reached
		Expect(fired).To(BeFalse())
		design.Tick(0) // step 2 -> 3, fires at the beginning of step 2
		Expect(fired).To(BeTrue())
	})

	It("treats register_timed(0) as the next step's beginning, not the current one", func() {
		fired := false
		design.ScheduleBeginStep(0, func() { fired = true })

		design.Tick(0) // step 0 -> 1, entry scheduled for step 1 has not begun yet
		Expect(fired).To(BeFalse())
		design.Tick(0) // step 1 -> 2, fires at beginning of step 1
		Expect(fired).To(BeTrue())
	})
})
