package simkernel_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/gogpi/backend"
	"github.com/sarchlab/gogpi/backend/kernel"
	"github.com/sarchlab/gogpi/backend/simkernel"
	"github.com/sarchlab/gogpi/handle"
)

func TestSimkernel(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Simkernel Suite")
}

var _ = Describe("Backend", func() {
	var (
		design *kernel.Design
		b      *simkernel.Backend
		bus    *kernel.Signal
	)

	BeforeEach(func() {
		engine := sim.NewSerialEngine()
		design = kernel.NewBuilder().WithEngine(engine).WithFreq(1 * sim.GHz).Build("top")
		bus = kernel.NewSignal("bus", 8, handle.ScalarKind, false, "00000000")
		design.Root().AddSignal(bus)
		design.Elaborate()

		b = simkernel.New(design)
	})

	It("discovers the root and a named signal", func() {
		root, ok, err := b.GetRoot("")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		d, err := b.GetByName(root.Raw, "bus")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Meta.Name).To(Equal("bus"))
		Expect(d.Meta.Length).To(Equal(8))
	})

	It("round-trips a deposit-no-delay write immediately", func() {
		Expect(b.SetValue(bus, "00001111", backend.DepositNoDelay)).To(Succeed())
		got, err := b.GetValueBinStr(bus)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal("00001111"))
	})

	It("defers an inertial deposit to the next values-settle point", func() {
		Expect(b.SetValue(bus, "11110000", backend.DepositInertial)).To(Succeed())
		got, _ := b.GetValueBinStr(bus)
		Expect(got).To(Equal("00000000"))

		design.Tick(0)

		got, _ = b.GetValueBinStr(bus)
		Expect(got).To(Equal("11110000"))
	})

	It("locks the value under force until release", func() {
		Expect(b.SetValue(bus, "11111111", backend.Force)).To(Succeed())
		Expect(b.SetValue(bus, "00000000", backend.DepositNoDelay)).To(Succeed())

		got, _ := b.GetValueBinStr(bus)
		Expect(got).To(Equal("11111111"))

		Expect(b.SetValue(bus, "", backend.Release)).To(Succeed())
		got, _ = b.GetValueBinStr(bus)
		Expect(got).To(Equal("00000000"))
	})
})
