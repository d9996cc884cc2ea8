package tty

import (
	"io"

	"rvos/device"
	"rvos/device/console"
	"rvos/kernel"
)

// Serial is a line-oriented terminal for byte stream consoles. It expands
// tabs and keeps a bounded backlog of output written while it is inactive;
// the backlog is flushed to the console once the terminal becomes active.
// When the backlog is full the oldest bytes are dropped.
type Serial struct {
	cons  console.Device
	state State

	tabWidth uint16
	column   uint16

	backlog      []byte
	backlogStart int
	backlogLen   int
}

// NewSerial creates a serial terminal with the given tab width and backlog
// size.
func NewSerial(tabWidth uint16, backlogSize int) *Serial {
	return &Serial{
		tabWidth: tabWidth,
		backlog:  make([]byte, backlogSize),
	}
}

// AttachTo connects the terminal to a console.
func (t *Serial) AttachTo(cons console.Device) {
	t.cons = cons
}

// State returns the terminal's state.
func (t *Serial) State() State {
	return t.state
}

// SetState updates the terminal's state. Activating the terminal flushes
// the backlog to the attached console.
func (t *Serial) SetState(newState State) {
	if t.state == newState {
		return
	}

	t.state = newState
	if t.state == StateActive && t.cons != nil {
		t.flush()
	}
}

// Write implements io.Writer.
func (t *Serial) Write(data []byte) (int, error) {
	for count, b := range data {
		if err := t.WriteByte(b); err != nil {
			return count, err
		}
	}

	return len(data), nil
}

// WriteByte implements io.ByteWriter.
func (t *Serial) WriteByte(b byte) error {
	if t.cons == nil {
		return io.ErrClosedPipe
	}

	switch b {
	case '\t':
		for spaces := t.tabWidth - t.column%t.tabWidth; spaces > 0; spaces-- {
			t.column++
			t.emit(' ')
		}
		return nil
	case '\n', '\r':
		t.column = 0
	default:
		t.column++
	}

	t.emit(b)
	return nil
}

func (t *Serial) emit(b byte) {
	if t.state == StateActive {
		_ = t.cons.WriteByte(b)
		return
	}

	if len(t.backlog) == 0 {
		return
	}

	end := (t.backlogStart + t.backlogLen) % len(t.backlog)
	t.backlog[end] = b
	if t.backlogLen < len(t.backlog) {
		t.backlogLen++
	} else {
		t.backlogStart = (t.backlogStart + 1) % len(t.backlog)
	}
}

func (t *Serial) flush() {
	for ; t.backlogLen > 0; t.backlogLen-- {
		_ = t.cons.WriteByte(t.backlog[t.backlogStart])
		t.backlogStart = (t.backlogStart + 1) % len(t.backlog)
	}
	t.backlogStart = 0
}

// DriverName returns the name of this driver.
func (t *Serial) DriverName() string {
	return "serial_tty"
}

// DriverVersion returns the version of this driver.
func (t *Serial) DriverVersion() (uint16, uint16, uint16) {
	return 0, 0, 1
}

// DriverInit initializes this driver.
func (t *Serial) DriverInit(_ io.Writer) *kernel.Error { return nil }

func probeForSerial() device.Driver {
	return NewSerial(DefaultTabWidth, DefaultBacklog)
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderEarly,
		Probe: probeForSerial,
	})
}
