package mem

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegion(t *testing.T) {
	r := NewRegion(0x1000, make([]byte, 0x100))

	assert.Equal(t, uintptr(0x1000), r.Base())
	assert.Equal(t, uintptr(0x1100), r.End())
	assert.Equal(t, Size(0x100), r.Size())

	assert.True(t, r.Contains(0x1000, 0x100))
	assert.True(t, r.Contains(0x10ff, 1))
	assert.False(t, r.Contains(0x10ff, 2))
	assert.False(t, r.Contains(0xfff, 1))
	assert.False(t, r.Contains(^uintptr(0), 2))

	require.Nil(t, r.CopyAt(0x1010, []byte{1, 2, 3}))
	assert.Equal(t, []byte{0, 1, 2, 3, 0}, r.Bytes()[0xf:0x14])

	sub, err := r.Sub(0x1011, 2)
	require.Nil(t, err)
	assert.Equal(t, uintptr(0x1011), sub.Base())
	assert.Equal(t, []byte{2, 3}, sub.Bytes())

	// writes through a sub-region are visible in the parent
	sub.Zero()
	assert.Equal(t, []byte{1, 0, 0}, r.Bytes()[0x10:0x13])

	_, err = r.Sub(0x10f0, 0x20)
	assert.Equal(t, errOutOfBounds, err)

	assert.Equal(t, errOutOfBounds, r.CopyAt(0x10fe, []byte{1, 2, 3}))
	_, err = r.Sub(^uintptr(0), 2)
	assert.Equal(t, errAddrOverflow, err)

	r.Zero()
	for i, b := range r.Bytes() {
		if b != 0 {
			t.Fatalf("expected byte %d to be cleared", i)
		}
	}
}

func TestSimulated(t *testing.T) {
	pm := NewSimulated()

	w, err := pm.Map(0x80400000, 0x20000)
	require.Nil(t, err)
	assert.Equal(t, Size(0x20000), w.Size())

	_, err = pm.Map(0x80410000, 0x20000)
	assert.Equal(t, errOverlappingMap, err)

	_, err = pm.Map(0x80420000, 0x1000)
	require.Nil(t, err)

	r, err := pm.Region(0x80400100, 0x10)
	require.Nil(t, err)
	require.Nil(t, r.CopyAt(0x80400100, []byte("hello")))
	assert.Equal(t, []byte("hello"), w.Bytes()[0x100:0x105])

	// ranges straddling two windows are not backed by a single window
	_, err = pm.Region(0x8041ff00, 0x200)
	assert.Equal(t, errUnbacked, err)

	_, err = pm.Region(0x90000000, 1)
	assert.Equal(t, errUnbacked, err)
}

func TestDirect(t *testing.T) {
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = byte(i)
	}

	base := addrOf(buf)
	r, err := Direct{}.Region(base, Size(len(buf)))
	require.Nil(t, err)
	assert.Equal(t, buf, r.Bytes())

	r.Zero()
	assert.Equal(t, make([]byte, 64), buf)

	empty, err := Direct{}.Region(base, 0)
	require.Nil(t, err)
	assert.Equal(t, Size(0), empty.Size())

	_, err = Direct{}.Region(^uintptr(0), 2)
	assert.Equal(t, errAddrOverflow, err)
}

func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}
