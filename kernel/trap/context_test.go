package trap

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"rvos/kernel/cpu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppInitContext(t *testing.T) {
	defer func() {
		readSstatusFn = cpu.ReadSstatus
	}()

	// the kernel runs with SPP=Supervisor; the new context must drop to user
	// mode while preserving the other bits.
	readSstatusFn = func() cpu.Sstatus { return cpu.SstatusSPP | cpu.SstatusSPIE }

	cx := AppInitContext(0x80400000, 0x803c4000)

	assert.Equal(t, uint64(0x80400000), cx.Sepc)
	assert.Equal(t, uintptr(0x803c4000), cx.SP())
	assert.Equal(t, cpu.User, cpu.Sstatus(cx.Sstatus).SPP())
	assert.Equal(t, uint64(cpu.SstatusSPIE), cx.Sstatus)

	for i, x := range cx.X {
		if i == regSP {
			continue
		}
		assert.Zero(t, x, "expected x%d to be cleared", i)
	}
}

func TestContextLayout(t *testing.T) {
	cx := Context{Sstatus: 0x20, Sepc: 0x80400000}
	cx.SetSP(0x803c4000)
	cx.X[regA0] = 0xbadf00d

	buf := make([]byte, ContextSize)
	require.Nil(t, cx.MarshalTo(buf))

	assert.Equal(t, uint64(0x803c4000), binary.LittleEndian.Uint64(buf[regSP*8:]))
	assert.Equal(t, uint64(0xbadf00d), binary.LittleEndian.Uint64(buf[regA0*8:]))
	assert.Equal(t, uint64(0x20), binary.LittleEndian.Uint64(buf[256:]))
	assert.Equal(t, uint64(0x80400000), binary.LittleEndian.Uint64(buf[264:]))

	var got Context
	require.Nil(t, got.UnmarshalFrom(buf))
	assert.Equal(t, cx, got)

	assert.Equal(t, errShortBuffer, cx.MarshalTo(buf[:ContextSize-1]))
	assert.Equal(t, errShortBuffer, got.UnmarshalFrom(buf[:8]))
}

func TestContextDumpTo(t *testing.T) {
	cx := Context{Sstatus: 0x20, Sepc: 0x80400000}
	cx.SetSP(0x803c4000)

	var buf bytes.Buffer
	cx.DumpTo(&buf)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 17)
	assert.Equal(t, "x 2 = 00000000803c4000 x 3 = 0000000000000000", lines[1])
	assert.Equal(t, "sstatus = 0000000000000020 sepc = 0000000080400000", lines[16])
}
