package kfmt

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBufferReadWrite(t *testing.T) {
	var rb ringBuffer

	n, err := rb.Read(make([]byte, 8))
	assert.Zero(t, n)
	assert.Equal(t, io.EOF, err)

	n, err = rb.Write([]byte("[kernel] "))
	require.Nil(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, 9, rb.Len())

	// Short reads consume only what fits.
	p := make([]byte, 4)
	n, err = rb.Read(p)
	require.Nil(t, err)
	assert.Equal(t, "[ker", string(p[:n]))
	assert.Equal(t, 5, rb.Len())

	var out bytes.Buffer
	_, err = io.Copy(&out, &rb)
	require.Nil(t, err)
	assert.Equal(t, "nel] ", out.String())
	assert.Zero(t, rb.Len())
}

func TestRingBufferOverflow(t *testing.T) {
	var rb ringBuffer

	// Boot chatter longer than the buffer: only the newest bytes survive.
	input := make([]byte, ringBufferSize+500)
	for i := range input {
		input[i] = 'a' + byte(i%26)
	}

	n, err := rb.Write(input)
	require.Nil(t, err)
	assert.Equal(t, len(input), n)
	assert.Equal(t, ringBufferSize-1, rb.Len())

	var out bytes.Buffer
	_, err = io.Copy(&out, &rb)
	require.Nil(t, err)
	assert.Equal(t, input[len(input)-(ringBufferSize-1):], out.Bytes())
}

func TestRingBufferWrapsAcrossReads(t *testing.T) {
	var rb ringBuffer
	var out bytes.Buffer

	// Drain after every write so that the indices wrap around the end of
	// the backing array several times without ever overflowing.
	line := []byte("[kernel] Loading app_0\n")
	for i := 0; i < 3*ringBufferSize/len(line); i++ {
		_, _ = rb.Write(line)

		out.Reset()
		_, err := io.Copy(&out, &rb)
		require.Nil(t, err)
		require.Equal(t, line, out.Bytes(), "iteration %d", i)
	}
}
