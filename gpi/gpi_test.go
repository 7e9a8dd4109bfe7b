package gpi_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/gogpi/backend"
	"github.com/sarchlab/gogpi/backend/kernel"
	"github.com/sarchlab/gogpi/backend/simkernel"
	"github.com/sarchlab/gogpi/gpi"
	"github.com/sarchlab/gogpi/gpierr"
	"github.com/sarchlab/gogpi/handle"
)

// newFacade wires a fresh façade over a real kernel.Design/simkernel
// backend, the same combination cmd/gogpi-smoketest drives in a full
// process, so the scenarios below exercise the façade end to end rather
// than against a stand-in.
func newFacade() (*gpi.Facade, *kernel.Design) {
	engine := sim.NewSerialEngine()
	design := kernel.NewBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Design")

	top := design.Root()
	dut := kernel.NewScope("dut", handle.ScopeKind)
	top.AddScope(dut)
	dut.AddSignal(kernel.NewSignal("clk", 1, handle.ScalarKind, false, "0"))
	dut.AddSignal(kernel.NewSignal("width", 8, handle.IntegerKind, true, "00001000"))
	design.Elaborate()

	registry := backend.NewRegistry()
	registry.Register(simkernel.New(design))

	f := gpi.New(registry)
	Expect(f.EmbedInit(gpi.SimulatorInfo{Product: "test", Version: "1"})).To(Succeed())
	return f, design
}

var _ = Describe("Facade", func() {
	var (
		facade *gpi.Facade
		design *kernel.Design
	)

	BeforeEach(func() {
		facade, design = newFacade()
	})

	Describe("handle identity and release", func() {
		It("returns the identical handle identity for repeated GetByName calls", func() {
			root, err := facade.GetRootHandle("")
			Expect(err).NotTo(HaveOccurred())

			a, err := facade.GetByName(root, "dut")
			Expect(err).NotTo(HaveOccurred())
			b, err := facade.GetByName(root, "dut")
			Expect(err).NotTo(HaveOccurred())
			Expect(a.ID).To(Equal(b.ID))
		})

		It("accepts release exactly once and fails the second with InvalidHandle", func() {
			root, err := facade.GetRootHandle("")
			Expect(err).NotTo(HaveOccurred())
			dut, err := facade.GetByName(root, "dut")
			Expect(err).NotTo(HaveOccurred())

			Expect(facade.Release(dut)).To(Succeed())

			err = facade.Release(dut)
			Expect(err).To(HaveOccurred())
			Expect(gpierr.Is(err, gpierr.InvalidHandle)).To(BeTrue())
		})

		It("fails every later operation on a released handle", func() {
			root, err := facade.GetRootHandle("")
			Expect(err).NotTo(HaveOccurred())
			dut, err := facade.GetByName(root, "dut")
			Expect(err).NotTo(HaveOccurred())
			Expect(facade.Release(dut)).To(Succeed())

			_, err = facade.GetByName(dut, "clk")
			Expect(gpierr.Is(err, gpierr.InvalidHandle)).To(BeTrue())
		})

		It("auto-deregisters a value-change callback bound to a released signal", func() {
			root, err := facade.GetRootHandle("")
			Expect(err).NotTo(HaveOccurred())
			dut, err := facade.GetByName(root, "dut")
			Expect(err).NotTo(HaveOccurred())
			clkObj, err := facade.GetByName(dut, "clk")
			Expect(err).NotTo(HaveOccurred())
			clk := handle.SignalHandle{ObjectHandle: clkObj}

			cb, err := facade.RegisterValueChange(clk, handle.EdgeAny)
			Expect(err).NotTo(HaveOccurred())
			fired := false
			Expect(facade.SetUser(cb, func(any) { fired = true }, nil)).To(Succeed())

			Expect(facade.Release(clkObj)).To(Succeed())

			Expect(clkSignal(design, "clk").SetInertial("1")).To(Succeed())
			design.Tick(0)
			Expect(fired).To(BeFalse(), "release must deregister the value-change callback bound to it")
		})

		It("rejects a second release of the same callback handle", func() {
			cb, err := facade.RegisterReadOnly()
			Expect(err).NotTo(HaveOccurred())
			Expect(facade.SetUser(cb, func(any) {}, nil)).To(Succeed())

			Expect(facade.ReleaseCallback(cb)).To(Succeed())
			err = facade.ReleaseCallback(cb)
			Expect(gpierr.Is(err, gpierr.InvalidHandle)).To(BeTrue())
		})
	})

	Describe("iteration", func() {
		It("is total: the cursor returns false forever past exhaustion", func() {
			root, err := facade.GetRootHandle("")
			Expect(err).NotTo(HaveOccurred())

			it, err := facade.Iterate(root, backend.SelectInstances)
			Expect(err).NotTo(HaveOccurred())

			seen := 0
			for {
				_, ok := it.Next()
				if !ok {
					break
				}
				seen++
			}
			Expect(seen).To(Equal(1))

			for i := 0; i < 3; i++ {
				_, ok := it.Next()
				Expect(ok).To(BeFalse())
			}
		})
	})

	Describe("simulated time", func() {
		It("never goes backwards as ticks advance", func() {
			h0, l0 := facade.GetSimTime()
			design.Tick(0)
			h1, l1 := facade.GetSimTime()
			design.Tick(0)
			h2, l2 := facade.GetSimTime()

			Expect(asUint64(h0, l0)).To(BeNumerically("<=", asUint64(h1, l1)))
			Expect(asUint64(h1, l1)).To(BeNumerically("<", asUint64(h2, l2)))
		})
	})

	Describe("const safety", func() {
		It("refuses to write a const signal with NotWritable", func() {
			root, err := facade.GetRootHandle("")
			Expect(err).NotTo(HaveOccurred())
			dut, err := facade.GetByName(root, "dut")
			Expect(err).NotTo(HaveOccurred())
			widthObj, err := facade.GetByName(dut, "width")
			Expect(err).NotTo(HaveOccurred())
			width := handle.SignalHandle{ObjectHandle: widthObj}

			err = facade.SetValue(width, "00000001", backend.DepositInertial)
			Expect(gpierr.Is(err, gpierr.NotWritable)).To(BeTrue())
		})
	})

	Describe("deregister during dispatch", func() {
		It("lets a callback deregister itself from inside its own dispatch without deadlocking", func() {
			root, err := facade.GetRootHandle("")
			Expect(err).NotTo(HaveOccurred())
			dut, err := facade.GetByName(root, "dut")
			Expect(err).NotTo(HaveOccurred())
			clkObj, err := facade.GetByName(dut, "clk")
			Expect(err).NotTo(HaveOccurred())
			clk := handle.SignalHandle{ObjectHandle: clkObj}

			cb, err := facade.RegisterValueChange(clk, handle.EdgeAny)
			Expect(err).NotTo(HaveOccurred())

			calls := 0
			Expect(facade.SetUser(cb, func(any) {
				calls++
				Expect(facade.Deregister(cb)).To(Succeed())
			}, nil)).To(Succeed())

			Expect(clkSignal(design, "clk").SetInertial("1")).To(Succeed())
			design.Tick(0)
			Expect(calls).To(Equal(1))

			Expect(clkSignal(design, "clk").SetInertial("0")).To(Succeed())
			design.Tick(0)
			Expect(calls).To(Equal(1), "a self-deregistered callback must not fire again")
		})

		It("lets a callback register a new one from inside its own dispatch without deadlocking", func() {
			root, err := facade.GetRootHandle("")
			Expect(err).NotTo(HaveOccurred())
			dut, err := facade.GetByName(root, "dut")
			Expect(err).NotTo(HaveOccurred())
			clkObj, err := facade.GetByName(dut, "clk")
			Expect(err).NotTo(HaveOccurred())
			clk := handle.SignalHandle{ObjectHandle: clkObj}

			outer, err := facade.RegisterValueChange(clk, handle.EdgeAny)
			Expect(err).NotTo(HaveOccurred())

			innerFired := false
			Expect(facade.SetUser(outer, func(any) {
				inner, ierr := facade.RegisterTimed(0)
				Expect(ierr).NotTo(HaveOccurred())
				Expect(facade.SetUser(inner, func(any) { innerFired = true }, nil)).To(Succeed())
			}, nil)).To(Succeed())

			Expect(clkSignal(design, "clk").SetInertial("1")).To(Succeed())
			design.Tick(0) // fires outer, which arms inner
			design.Tick(0) // inner is due one step later
			Expect(innerFired).To(BeTrue())
		})
	})
})

func clkSignal(design *kernel.Design, name string) *kernel.Signal {
	for _, s := range design.Root().AllSignals() {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

func asUint64(high, low uint32) uint64 {
	return uint64(high)<<32 | uint64(low)
}
