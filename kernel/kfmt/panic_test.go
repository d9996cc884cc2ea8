package kfmt

import (
	"bytes"
	"errors"
	"testing"

	"rvos/kernel"
)

func TestPanic(t *testing.T) {
	origHaltFn := haltFn
	defer func() {
		haltFn = origHaltFn
		outputSink = nil
	}()

	var haltCalled bool
	haltFn = func() {
		haltCalled = true
	}

	specs := []struct {
		descr string
		err   interface{}
		exp   string
	}{
		{
			"with *kernel.Error",
			&kernel.Error{Module: "loader", Message: "panic test"},
			"\n-----------------------------------\n[loader] unrecoverable error: panic test\n*** kernel panic: system halted ***\n-----------------------------------\n",
		},
		{
			"with error",
			errors.New("go error"),
			"\n-----------------------------------\n[rt] unrecoverable error: go error\n*** kernel panic: system halted ***\n-----------------------------------\n",
		},
		{
			"with string",
			"string error",
			"\n-----------------------------------\n[rt] unrecoverable error: string error\n*** kernel panic: system halted ***\n-----------------------------------\n",
		},
		{
			"without error",
			nil,
			"\n-----------------------------------\n*** kernel panic: system halted ***\n-----------------------------------\n",
		},
	}

	for _, spec := range specs {
		t.Run(spec.descr, func(t *testing.T) {
			haltCalled = false
			var buf bytes.Buffer
			SetOutputSink(&buf)

			Panic(spec.err)

			if got := buf.String(); got != spec.exp {
				t.Fatalf("expected to get:\n%q\ngot:\n%q", spec.exp, got)
			}

			if !haltCalled {
				t.Fatal("expected Panic to power off the machine")
			}
		})
	}
}
