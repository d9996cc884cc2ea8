package console

import (
	"io"

	"rvos/device"
	"rvos/kernel"
	"rvos/kernel/kfmt"
	"rvos/kernel/sbi"
)

var (
	// putcharFn is mocked by tests.
	putcharFn = sbi.ConsolePutchar
)

// SBIConsole is a console that forwards every byte to the firmware console
// through the legacy putchar call. The firmware owns the UART so no device
// setup is needed.
type SBIConsole struct {
	written uint64
}

// Write outputs p to the firmware console.
func (cons *SBIConsole) Write(p []byte) (int, error) {
	for _, b := range p {
		putcharFn(b)
	}
	cons.written += uint64(len(p))
	return len(p), nil
}

// WriteByte outputs a single byte to the firmware console.
func (cons *SBIConsole) WriteByte(b byte) error {
	putcharFn(b)
	cons.written++
	return nil
}

// BytesWritten returns the number of bytes sent to the firmware so far.
func (cons *SBIConsole) BytesWritten() uint64 {
	return cons.written
}

// DriverName returns the name of this driver.
func (cons *SBIConsole) DriverName() string {
	return "sbi_console"
}

// DriverVersion returns the version of this driver.
func (cons *SBIConsole) DriverVersion() (uint16, uint16, uint16) {
	return 0, 0, 1
}

// DriverInit initializes this driver.
func (cons *SBIConsole) DriverInit(w io.Writer) *kernel.Error {
	kfmt.Fprintf(w, "using legacy console putchar\n")
	return nil
}

func probeForSBIConsole() device.Driver {
	return &SBIConsole{}
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderSBI,
		Probe: probeForSBIConsole,
	})
}
