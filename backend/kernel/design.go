package kernel

import (
	"sync"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/gogpi/gpierr"
	"github.com/sarchlab/gogpi/handle"
)

// HookPosBeginStep marks the beginning-of-time-step phase: timed and
// next-time-step callbacks due this step fire here, before any signal is
// re-evaluated.
var HookPosBeginStep = &sim.HookPos{Name: "Kernel Begin Time Step"}

// HookPosValueChange marks the values-change phase: value-change callbacks
// fire here for every signal whose effective value differs from its last
// settle.
var HookPosValueChange = &sim.HookPos{Name: "Kernel Value Change"}

// HookPosReadWrite marks the values-settle (read-write) phase: inertial
// deposits staged before the tick are already applied, and read-write
// callbacks may deposit new values that are applied at the settle that
// follows them, in this same step.
var HookPosReadWrite = &sim.HookPos{Name: "Kernel Read Write"}

// HookPosReadOnly marks the end-of-time-step (read-only) phase: values are
// stable for the remainder of the step and callbacks may only observe them.
var HookPosReadOnly = &sim.HookPos{Name: "Kernel Read Only"}

type phaseEntry struct {
	id   uint64
	fire func()
}

type valueChangeEntry struct {
	id   uint64
	sig  *Signal
	edge int // mirrors handle.EdgeKind without importing it, kept backend-agnostic
	fire func()
}

// Design is the tick-driven synthetic design under test. It embeds
// sim.TickingComponent so it advances on the same serial engine the rest
// of the corpus drives its components with; the hook support that
// TickingComponent carries lets external monitoring (or tests) observe
// each phase boundary the way core/port.go's ports expose their own
// send/recv/retrieve hooks.
type Design struct {
	*sim.TickingComponent

	mu sync.Mutex

	root      *Scope
	flat      []*Signal
	precision int
	step      uint64
	ready     bool

	nextID uint64

	beginQueue  []phaseEntry
	readWrite   []phaseEntry
	readOnly    []phaseEntry
	valueChange []valueChangeEntry
	timed       map[uint64][]phaseEntry
}

// NewDesign creates a Design ticking on engine at freq, rooted at an
// anonymous top scope. precision is the time-step exponent (e.g. -9 for
// nanoseconds) reported to backends via GetSimPrecision.
func NewDesign(name string, engine sim.Engine, freq sim.Freq, precision int) *Design {
	d := &Design{
		root:      NewScope("", handle.ScopeKind),
		precision: precision,
		timed:     make(map[uint64][]phaseEntry),
	}
	d.TickingComponent = sim.NewTickingComponent(name, engine, freq, d)
	return d
}

// Root returns the design's top scope.
func (d *Design) Root() *Scope { return d.root }

// Ready reports whether Elaborate has been called; backends surface
// NotReady for any handle operation attempted before elaboration.
func (d *Design) Ready() bool { return d.ready }

// Elaborate freezes the scope tree for discovery and builds the flat
// signal list the evaluator settles each tick. Call it once, after the
// scope/signal tree is fully constructed.
func (d *Design) Elaborate() {
	d.flat = d.root.AllSignals()
	d.ready = true
}

// Step returns the current simulated step count (time = step * 10^precision seconds).
func (d *Design) Step() uint64 { return d.step }

// Precision returns the time-step exponent.
func (d *Design) Precision() int { return d.precision }

func (d *Design) nextCookie() uint64 {
	d.nextID++
	return d.nextID
}

// Tick advances the design by one evaluation cycle, running the four
// phases in order: beginning-of-time-step, values-change, values-settle
// (read-write), end-of-time-step (read-only). The lock is never held
// while a user callback fires: each phase snapshots its queue under the
// lock, releases it, then dispatches, so a callback that reenters the
// design (arming or canceling another callback from inside its own
// dispatch) never deadlocks against itself.
func (d *Design) Tick(now sim.VTimeInSec) (madeProgress bool) {
	d.mu.Lock()
	due := d.timed[d.step]
	delete(d.timed, d.step)
	begin := append(d.beginQueue, due...)
	d.beginQueue = nil

	madeProgress = len(begin) > 0 || len(d.readWrite) > 0 ||
		len(d.readOnly) > 0 || len(d.valueChange) > 0
	d.mu.Unlock()

	d.fire(begin, HookPosBeginStep)

	// Inertial deposits staged before this point land ahead of the
	// values-change phase, so the change they make is seen there.
	for _, s := range d.flat {
		if s.pendingInertial != nil {
			s.value = *s.pendingInertial
			s.pendingInertial = nil
		}
	}

	d.fireValueChanges()

	d.mu.Lock()
	readWrite := d.readWrite
	d.readWrite = nil
	d.mu.Unlock()
	d.fire(readWrite, HookPosReadWrite)

	for _, s := range d.flat {
		s.settle()
	}

	d.mu.Lock()
	readOnly := d.readOnly
	d.readOnly = nil
	d.mu.Unlock()
	d.fire(readOnly, HookPosReadOnly)

	d.mu.Lock()
	d.step++
	d.mu.Unlock()

	return madeProgress
}

func (d *Design) fire(entries []phaseEntry, pos *sim.HookPos) {
	for _, e := range entries {
		d.InvokeHook(sim.HookCtx{Domain: d, Pos: pos, Item: e})
		e.fire()
	}
}

// fireValueChanges snapshots the armed value-change entries under the
// lock, then checks and dispatches each outside it, so a callback that
// cancels its own (or another) value-change registration from inside its
// dispatch only ever reaches CancelValueChange, never Tick's caller.
func (d *Design) fireValueChanges() {
	d.mu.Lock()
	pending := make([]valueChangeEntry, len(d.valueChange))
	copy(pending, d.valueChange)
	d.mu.Unlock()

	for _, e := range pending {
		if e.sig.BinStr() == e.sig.last {
			continue
		}
		d.InvokeHook(sim.HookCtx{Domain: d, Pos: HookPosValueChange, Item: e})
		e.fire()
	}
}

// ScheduleBeginStep arms fire to run at the beginning-of-time-step phase
// that is intervalSteps steps from now (0 means the very next step's
// beginning, never the one currently in flight). Returns a cookie for
// CancelBeginStep.
func (d *Design) ScheduleBeginStep(intervalSteps uint64, fire func()) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if intervalSteps == 0 {
		intervalSteps = 1
	}
	target := d.step + intervalSteps
	id := d.nextCookie()
	d.timed[target] = append(d.timed[target], phaseEntry{id: id, fire: fire})
	return id
}

// CancelBeginStep removes a pending begin-step entry by cookie, if it has
// not already fired.
func (d *Design) CancelBeginStep(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for step, entries := range d.timed {
		filtered := entries[:0]
		for _, e := range entries {
			if e.id != id {
				filtered = append(filtered, e)
			}
		}
		d.timed[step] = filtered
	}
}

// ScheduleReadWrite arms fire for the next values-settle phase.
func (d *Design) ScheduleReadWrite(fire func()) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextCookie()
	d.readWrite = append(d.readWrite, phaseEntry{id: id, fire: fire})
	return id
}

// ScheduleReadOnly arms fire for the next end-of-time-step phase.
func (d *Design) ScheduleReadOnly(fire func()) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextCookie()
	d.readOnly = append(d.readOnly, phaseEntry{id: id, fire: fire})
	return id
}

// ArmValueChange registers fire to run on every tick where sig's effective
// value differs from its prior settle. It stays armed until CancelValueChange.
func (d *Design) ArmValueChange(sig *Signal, fire func()) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextCookie()
	d.valueChange = append(d.valueChange, valueChangeEntry{id: id, sig: sig, fire: fire})
	return id
}

// CancelValueChange removes a previously armed value-change entry.
func (d *Design) CancelValueChange(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	filtered := d.valueChange[:0]
	for _, e := range d.valueChange {
		if e.id != id {
			filtered = append(filtered, e)
		}
	}
	d.valueChange = filtered
}

// GuardReady returns NotReady if the design has not been elaborated yet,
// the synthetic-design analogue of a stub object that panics before
// elaboration completes: here it refuses politely instead.
func (d *Design) GuardReady() error {
	if !d.ready {
		return gpierr.New(gpierr.NotReady, "design not yet elaborated")
	}
	return nil
}
