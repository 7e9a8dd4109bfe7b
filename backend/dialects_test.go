package backend_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/gogpi/backend"
	"github.com/sarchlab/gogpi/backend/fli"
	"github.com/sarchlab/gogpi/backend/kernel"
	"github.com/sarchlab/gogpi/backend/simkernel"
	"github.com/sarchlab/gogpi/backend/vhpi"
	"github.com/sarchlab/gogpi/backend/vpi"
	"github.com/sarchlab/gogpi/handle"
)

func TestDialects(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Backend Dialects Suite")
}

func newDesign() *kernel.Design {
	engine := sim.NewSerialEngine()
	d := kernel.NewBuilder().WithEngine(engine).WithFreq(1 * sim.GHz).Build("top")
	d.Root().AddSignal(kernel.NewSignal("clk", 1, handle.ScalarKind, false, "0"))
	d.Elaborate()
	return d
}

var _ = DescribeTable("every dialect discovers the same signal as a scalar",
	func(makeBackend func(*kernel.Design) backend.Backend) {
		b := makeBackend(newDesign())
		root, ok, err := b.GetRoot("")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		d, err := b.GetByName(root.Raw, "clk")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Meta.Kind).To(Equal(handle.ScalarKind))
	},
	Entry("simkernel", func(d *kernel.Design) backend.Backend { return simkernel.New(d) }),
	Entry("vpi", func(d *kernel.Design) backend.Backend { return vpi.New(d) }),
	Entry("vhpi", func(d *kernel.Design) backend.Backend { return vhpi.New(d) }),
	Entry("fli", func(d *kernel.Design) backend.Backend { return fli.New(d) }),
)
