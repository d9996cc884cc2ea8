// Package batch runs the embedded applications one after the other, in
// ascending index order, until none are left and then powers off.
package batch

import (
	"rvos/kernel"
	"rvos/kernel/image"
	"rvos/kernel/kfmt"
	"rvos/kernel/loader"
	"rvos/kernel/mem"
	"rvos/kernel/sbi"
	"rvos/kernel/sync"
	"rvos/kernel/timer"
	"rvos/kernel/trap"
)

var (
	// restoreFn, shutdownFn and panicFn are mocked by tests. On hardware
	// none of them returns.
	restoreFn  = trap.Restore
	shutdownFn = sbi.Shutdown
	panicFn    = kfmt.Panic

	errAlreadyStarted = &kernel.Error{Module: "batch", Message: "run manager already started"}
	errNotRunning     = &kernel.Error{Module: "batch", Message: "advance requested while no application is running"}
)

// Manager is the run manager. It owns the index of the current application
// and drives every application through loading, dispatch and re-entry.
type Manager struct {
	// guard protects every field below. It is released before control
	// leaves the kernel so that the trap handler can call back in.
	guard sync.Exclusive

	state   State
	current int
	preload bool

	exited  int
	faulted int

	table  *image.Table
	loader *loader.Loader
	stacks *loader.StackPool
	watch  timer.Stopwatch
}

// NewManager returns an idle run manager. If the loader uses one slot per
// application, every application is copied in once when the batch starts;
// otherwise each application is copied into the shared slot on its turn.
func NewManager(table *image.Table, l *loader.Loader, stacks *loader.StackPool) *Manager {
	return &Manager{
		table:   table,
		loader:  l,
		stacks:  stacks,
		preload: l.Layout().SlotCount > 1,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	return m.state
}

// Current returns the index of the application being run or about to be
// run.
func (m *Manager) Current() int {
	return m.current
}

// Stats returns the number of applications that exited and that were killed.
func (m *Manager) Stats() (exited, faulted int) {
	return m.exited, m.faulted
}

// PrintAppInfo prints the application table.
func (m *Manager) PrintAppInfo() {
	m.table.DumpTo(kfmt.GetOutputSink())
}

// Start dispatches the first application. On hardware Start only returns if
// the batch could not be started.
func (m *Manager) Start() *kernel.Error {
	m.guard.Acquire()
	if m.state != Idle {
		m.guard.Release()
		return errAlreadyStarted
	}

	if m.preload {
		if err := m.loader.LoadAll(); err != nil {
			m.guard.Release()
			return err
		}
	}
	m.guard.Release()

	m.RunNext()
	return nil
}

// RunNext loads the current application, pushes its initial context on its
// kernel stack and switches to user mode. When no applications are left it
// powers off instead.
func (m *Manager) RunNext() {
	m.guard.Acquire()

	m.state = Loading
	if m.current >= m.table.Count() {
		m.finish()
		return
	}

	if !m.preload {
		if err := m.loader.Load(m.current); err != nil {
			if err == loader.ErrNoMoreApps {
				m.finish()
				return
			}
			m.guard.Release()
			panicFn(err)
			return
		}
	}

	m.state = Dispatching
	cxAddr, err := m.pushInitContext()
	if err != nil {
		m.guard.Release()
		panicFn(err)
		return
	}

	m.state = Running
	m.watch.Start()
	m.guard.Release()

	restoreFn(cxAddr)
}

func (m *Manager) pushInitContext() (uintptr, *kernel.Error) {
	slot := m.loader.Layout().Slot(m.current)

	ustack, err := m.stacks.UserStack(slot)
	if err != nil {
		return 0, err
	}

	cx := trap.AppInitContext(m.loader.BaseAddress(m.current), ustack.Top())
	return m.stacks.PushContext(slot, &cx)
}

// Advance is called by the trap layer once the running application exited
// or was killed. It moves on to the next application and, on hardware, does
// not return.
func (m *Manager) Advance(o trap.Outcome) {
	m.guard.Acquire()
	if m.state != Running {
		m.guard.Release()
		panicFn(errNotRunning)
		return
	}

	m.state = Reentered
	switch o.Kind {
	case trap.Faulted:
		m.faulted++
	default:
		m.exited++
	}
	kfmt.Printf("[batch] app_%d done in %dms\n", m.current, m.watch.ElapsedMs())

	m.current++
	m.guard.Release()

	m.RunNext()
}

// finish is called with the guard held.
func (m *Manager) finish() {
	m.state = Halted
	exited, faulted := m.Stats()
	kfmt.Printf("[batch] %d exited, %d killed\n", exited, faulted)
	kfmt.Printf("All applications completed!\n")
	m.guard.Release()

	shutdownFn(false)
}

// UserBuffer returns the bytes at [addr, addr+size) if they lie within the
// slot or the user stack of the running application.
func (m *Manager) UserBuffer(addr, size uintptr) ([]byte, bool) {
	m.guard.Acquire()
	defer m.guard.Release()

	if m.state != Running {
		return nil, false
	}

	slot, err := m.loader.SlotRegion(m.current)
	if err == nil && slot.Contains(addr, mem.Size(size)) {
		sub, err := slot.Sub(addr, mem.Size(size))
		if err == nil {
			return sub.Bytes(), true
		}
	}

	ustack, err := m.stacks.UserStack(m.loader.Layout().Slot(m.current))
	if err != nil {
		return nil, false
	}
	return ustack.Slice(addr, size)
}
