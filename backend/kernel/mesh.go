package kernel

import (
	"fmt"

	"github.com/sarchlab/akita/v4/mem/idealmemcontroller"
	"github.com/sarchlab/akita/v4/mem/mem"
	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"
)

// Mesh is a grid of Designs wired together the way config.DeviceBuilder
// wires CGRA tiles: one directconnection per tile plus one shared
// idealmemcontroller every tile's bus port is connected to. It exists so a
// test can model a multi-instance design (several independent "devices",
// one GPI root each) sharing a backing store, rather than a single flat
// scope tree.
type Mesh struct {
	Width, Height int
	Tiles         [][]*Design
	Memory        *idealmemcontroller.Comp
}

// BuildMesh creates a width x height grid of Designs, each with a "Bus"
// port connected by its own directconnection to a shared memory
// controller, mirroring DeviceBuilder's "shared" memory mode.
func BuildMesh(engine sim.Engine, freq sim.Freq, monitor *monitoring.Monitor, width, height int, precision int) *Mesh {
	m := &Mesh{Width: width, Height: height}
	m.Tiles = make([][]*Design, height)

	m.Memory = idealmemcontroller.MakeBuilder().
		WithEngine(engine).
		WithNewStorage(4 * mem.GB).
		WithLatency(1).
		Build("MeshMemory")

	for y := 0; y < height; y++ {
		m.Tiles[y] = make([]*Design, width)
		for x := 0; x < width; x++ {
			name := fmt.Sprintf("Tile(%d,%d)", x, y)
			tile := NewBuilder().
				WithEngine(engine).
				WithFreq(freq).
				WithMonitor(monitor).
				WithPrecision(precision).
				Build(name)

			busPort := sim.NewLimitNumMsgPort(tile.TickingComponent, 4, name+".Bus")
			tile.AddPort("Bus", busPort)

			conn := directconnection.MakeBuilder().
				WithEngine(engine).
				WithFreq(freq).
				Build(name + ".Conn")
			conn.PlugIn(busPort)
			conn.PlugIn(m.Memory.GetPortByName("Top"))

			m.Tiles[y][x] = tile
		}
	}

	return m
}

// Tile returns the design at grid position (x, y).
func (m *Mesh) Tile(x, y int) *Design {
	return m.Tiles[y][x]
}
