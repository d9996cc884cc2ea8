package loader

import (
	"bytes"
	"testing"

	"rvos/kernel/image"
	"rvos/kernel/kfmt"
	"rvos/kernel/mem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imageBase = uintptr(0x80220000)

type loaderFixture struct {
	pm     *mem.Simulated
	loader *Loader
	out    *bytes.Buffer

	// fences holds a copy of every slot taken at the time FenceI ran.
	fences [][]byte
}

func fillApp(size int, seed byte) []byte {
	app := make([]byte, size)
	for i := range app {
		app[i] = seed + byte(i)
	}
	return app
}

func setupLoader(t *testing.T, layout Layout, apps [][]byte) *loaderFixture {
	t.Helper()

	f := &loaderFixture{pm: mem.NewSimulated(), out: new(bytes.Buffer)}

	blob, table, err := image.Pack(imageBase, apps)
	require.Nil(t, err)

	imgWindow, err := f.pm.Map(imageBase, mem.Size(len(blob)))
	require.Nil(t, err)
	require.Nil(t, imgWindow.CopyAt(imageBase, blob))

	slots, err := f.pm.Map(layout.AppBase, mem.Size(uintptr(layout.SlotCount)*layout.SlotSize))
	require.Nil(t, err)

	// Garbage left behind by whatever used the slots before.
	mem.Memset(slots.Bytes(), 0xaa)

	f.loader, err = New(f.pm, table, layout)
	require.Nil(t, err)

	kfmt.SetOutputSink(f.out)
	origFenceI := fenceIFn
	fenceIFn = func() {
		f.fences = append(f.fences, append([]byte(nil), slots.Bytes()...))
	}

	t.Cleanup(func() {
		kfmt.SetOutputSink(nil)
		fenceIFn = origFenceI
	})

	return f
}

func (f *loaderFixture) slot(t *testing.T, id int) []byte {
	t.Helper()

	r, err := f.loader.SlotRegion(id)
	require.Nil(t, err)
	return r.Bytes()
}

func assertLoaded(t *testing.T, slot, app []byte) {
	t.Helper()

	require.Equal(t, app, slot[:len(app)])
	for i := len(app); i < len(slot); i++ {
		if slot[i] != 0 {
			t.Fatalf("expected slot byte %d past the application to be zero; got 0x%x", i, slot[i])
		}
	}
}

func TestLoadSequential(t *testing.T) {
	apps := [][]byte{fillApp(100, 1), fillApp(4096, 2), fillApp(1, 3)}
	f := setupLoader(t, DefaultLayout(), apps)

	for id, app := range apps {
		require.Nil(t, f.loader.Load(id))
		assert.Equal(t, DefaultLayout().AppBase, f.loader.BaseAddress(id))

		// Every load wipes whatever the previous application left behind.
		assertLoaded(t, f.slot(t, id), app)

		// The fence runs after the copy has completed.
		require.Len(t, f.fences, id+1)
		assertLoaded(t, f.fences[id], app)
	}

	assert.Equal(t, ErrNoMoreApps, f.loader.Load(len(apps)))
	assert.Equal(t, ErrNoMoreApps, f.loader.Load(-1))
	assert.Len(t, f.fences, len(apps), "no fence is expected for a failed load")

	assert.Equal(t, "[kernel] Loading app_0\n[kernel] Loading app_1\n[kernel] Loading app_2\n", f.out.String())
}

func TestLoadAll(t *testing.T) {
	apps := [][]byte{fillApp(100, 1), fillApp(4096, 2), fillApp(1, 3)}
	layout := PreloadedLayout()
	layout.SlotCount = 4
	f := setupLoader(t, layout, apps)

	require.Nil(t, f.loader.LoadAll())
	require.Len(t, f.fences, 1)
	assert.Equal(t, "[kernel] Loading app_0\n[kernel] Loading app_1\n[kernel] Loading app_2\n", f.out.String())

	for id, app := range apps {
		assert.Equal(t, layout.AppBase+uintptr(id)*layout.SlotSize, f.loader.BaseAddress(id))
		assertLoaded(t, f.slot(t, id), app)
	}

	// The unused slot is left as it was.
	assert.Equal(t, byte(0xaa), f.slot(t, 3)[0])
}

func TestLoadAllWithoutEnoughSlots(t *testing.T) {
	f := setupLoader(t, DefaultLayout(), [][]byte{{1}, {2}})

	assert.Equal(t, errNotEnoughSlots, f.loader.LoadAll())
	assert.Empty(t, f.fences)
}

func TestNewLoaderErrors(t *testing.T) {
	pm := mem.NewSimulated()

	t.Run("app larger than a slot", func(t *testing.T) {
		layout := DefaultLayout()
		_, table, err := image.Pack(imageBase, [][]byte{fillApp(int(layout.SlotSize)+1, 0)})
		require.Nil(t, err)

		_, err = New(pm, table, layout)
		assert.Equal(t, errAppTooLarge, err)
	})

	t.Run("image inside the slot area", func(t *testing.T) {
		layout := DefaultLayout()
		_, table, err := image.Pack(layout.AppBase+0x100, [][]byte{{1, 2, 3}})
		require.Nil(t, err)

		_, err = New(pm, table, layout)
		assert.Equal(t, errImageOverlapsSlot, err)
	})

	t.Run("image inside the stack pool", func(t *testing.T) {
		layout := DefaultLayout()
		_, table, err := image.Pack(layout.StackBase, [][]byte{{1, 2, 3, 4}})
		require.Nil(t, err)

		_, err = New(pm, table, layout)
		assert.Equal(t, errImageOverlapsStack, err)
	})

	t.Run("image ending inside the stack pool", func(t *testing.T) {
		layout := DefaultLayout()
		_, table, err := image.Pack(layout.StackBase-image.HeaderSize(1)-2, [][]byte{{1, 2, 3, 4}})
		require.Nil(t, err)

		_, err = New(pm, table, layout)
		assert.Equal(t, errImageOverlapsStack, err)
	})

	t.Run("bad layout", func(t *testing.T) {
		layout := DefaultLayout()
		layout.SlotCount = 0
		_, table, err := image.Pack(imageBase, [][]byte{{1}})
		require.Nil(t, err)

		_, err = New(pm, table, layout)
		assert.Equal(t, errBadSlotCount, err)
	})
}

func TestLoadUnbackedSlot(t *testing.T) {
	pm := mem.NewSimulated()
	blob, table, err := image.Pack(imageBase, [][]byte{{1, 2, 3}})
	require.Nil(t, err)

	w, err := pm.Map(imageBase, mem.Size(len(blob)))
	require.Nil(t, err)
	require.Nil(t, w.CopyAt(imageBase, blob))

	l, err := New(pm, table, DefaultLayout())
	require.Nil(t, err)

	kfmt.SetOutputSink(new(bytes.Buffer))
	defer kfmt.SetOutputSink(nil)

	assert.NotNil(t, l.Load(0))
}
