package kernel_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/gogpi/backend/kernel"
)

var _ = Describe("Mesh", func() {
	It("builds a grid of independently-ticking designs sharing one memory", func() {
		engine := sim.NewSerialEngine()
		mesh := kernel.BuildMesh(engine, 1*sim.GHz, nil, 2, 2, -9)

		Expect(mesh.Width).To(Equal(2))
		Expect(mesh.Height).To(Equal(2))
		Expect(mesh.Tile(0, 0)).NotTo(BeNil())
		Expect(mesh.Tile(1, 1)).NotTo(BeNil())
		Expect(mesh.Memory).NotTo(BeNil())
	})
})
