package hal

import (
	"bytes"
	"io"
	"testing"

	"rvos/device"
	"rvos/device/console"
	"rvos/device/tty"
	"rvos/kernel"
	"rvos/kernel/kfmt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConsole struct {
	bytes.Buffer
}

func (*fakeConsole) DriverName() string { return "fake_console" }

func (*fakeConsole) DriverVersion() (uint16, uint16, uint16) { return 1, 2, 3 }

func (*fakeConsole) DriverInit(w io.Writer) *kernel.Error {
	kfmt.Fprintf(w, "probing\nfound\n")
	return nil
}

type failingDriver struct{}

func (failingDriver) DriverName() string { return "failing" }

func (failingDriver) DriverVersion() (uint16, uint16, uint16) { return 0, 0, 1 }

func (failingDriver) DriverInit(_ io.Writer) *kernel.Error {
	return &kernel.Error{Module: "test", Message: "no device"}
}

func resetDevices(t *testing.T) {
	t.Helper()

	devices = managedDevices{}
	kfmt.SetOutputSink(nil)
	t.Cleanup(func() {
		devices = managedDevices{}
		kfmt.SetOutputSink(nil)
	})
}

func TestProbe(t *testing.T) {
	resetDevices(t)

	cons := &fakeConsole{}
	term := tty.NewSerial(tty.DefaultTabWidth, tty.DefaultBacklog)
	otherCons := &fakeConsole{}

	probe(device.DriverInfoList{
		{Probe: func() device.Driver { return nil }},
		{Probe: func() device.Driver { return failingDriver{} }},
		{Probe: func() device.Driver { return term }},
		{Probe: func() device.Driver { return cons }},
		{Probe: func() device.Driver { return otherCons }},
	})

	assert.Equal(t, console.Device(cons), devices.activeConsole)
	assert.Equal(t, tty.Device(term), devices.activeTTY)
	assert.Len(t, devices.activeDrivers, 3)
	assert.Equal(t, tty.StateActive, term.State())

	exp := "[hal] failing(0.0.1): init failed: no device\n" +
		"[hal] serial_tty(0.0.1): initialized\n" +
		"[hal] fake_console(1.2.3): probing\n" +
		"[hal] fake_console(1.2.3): found\n" +
		"[hal] fake_console(1.2.3): initialized\n" +
		"[hal] fake_console(1.2.3): probing\n" +
		"[hal] fake_console(1.2.3): found\n" +
		"[hal] fake_console(1.2.3): initialized\n"
	assert.Equal(t, exp, cons.String())
	assert.Zero(t, otherCons.Len())

	kfmt.Printf("[kernel] num_app = %d\n", 2)
	assert.Contains(t, cons.String(), "[kernel] num_app = 2\n")
}

func TestProbeConsoleBeforeTTY(t *testing.T) {
	resetDevices(t)

	cons := &fakeConsole{}
	term := tty.NewSerial(tty.DefaultTabWidth, tty.DefaultBacklog)

	probe(device.DriverInfoList{
		{Probe: func() device.Driver { return cons }},
		{Probe: func() device.Driver { return term }},
	})

	require.Equal(t, tty.Device(term), devices.activeTTY)
	assert.Equal(t, kfmt.GetOutputSink(), io.Writer(term))
	assert.Contains(t, cons.String(), "[hal] serial_tty(0.0.1): initialized\n")
}

func TestDetectHardware(t *testing.T) {
	resetDevices(t)

	DetectHardware()

	_, isSBI := devices.activeConsole.(*console.SBIConsole)
	assert.True(t, isSBI, "expected the SBI console to become the active console")
	_, isSerial := devices.activeTTY.(*tty.Serial)
	assert.True(t, isSerial, "expected the serial terminal to become the active TTY")
}
