package kernel

import (
	"fmt"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/gogpi/handle"
)

// Builder constructs a Design, following the same With*/Build chain
// config.DeviceBuilder uses to assemble a CGRA device.
type Builder struct {
	engine    sim.Engine
	freq      sim.Freq
	monitor   *monitoring.Monitor
	precision int
}

// NewBuilder creates a Builder with a 1ns precision default.
func NewBuilder() Builder {
	return Builder{precision: -9}
}

// WithEngine sets the engine that ticks the design.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the design's tick frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithMonitor registers the built design with a monitor, the same way
// DeviceBuilder registers each tile's core.
func (b Builder) WithMonitor(monitor *monitoring.Monitor) Builder {
	b.monitor = monitor
	return b
}

// WithPrecision sets the time-step exponent reported via GetSimPrecision.
func (b Builder) WithPrecision(precision int) Builder {
	b.precision = precision
	return b
}

// Build creates a Design named name, registering it with the monitor if
// one was given.
func (b Builder) Build(name string) *Design {
	d := NewDesign(name, b.engine, b.freq, b.precision)
	if b.monitor != nil {
		b.monitor.RegisterComponent(d.TickingComponent)
	}
	return d
}

// RegisterFile populates scope with count integer signals named "$0".."$N",
// the register-naming convention carried over from the CGRA operand model,
// repurposed here as a convenience for building a DUT with a flat bank of
// general-purpose registers.
func RegisterFile(scope *Scope, count, width int) {
	for i := 0; i < count; i++ {
		scope.AddSignal(NewSignal(fmt.Sprintf("$%d", i), width, handle.IntegerKind, false, ""))
	}
}
