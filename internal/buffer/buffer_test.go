package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlorianJeanne/job-system-cookbook/internal/resource"
)

func TestRecordBuffer(t *testing.T) {
	m := NewManager(nil)

	b, err := NewRecordBuffer(m, 8, 16)
	require.NoError(t, err)

	assert.Equal(t, 8, b.Len())
	assert.Equal(t, 16, b.RecordSize())
	require.Len(t, b.Bytes(), 128)

	// Zero-filled and writable.
	assert.Equal(t, byte(0), b.Bytes()[0])
	b.Bytes()[127] = 0xFF

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	require.NoError(t, m.Close())
}

func TestRecordBuffer_InvalidSize(t *testing.T) {
	m := NewManager(nil)

	_, err := NewRecordBuffer(m, 0, 16)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = NewRecordBuffer(m, 8, 0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestFloat32Buffer(t *testing.T) {
	m := NewManager(nil)

	b, err := NewFloat32Buffer(m, 4)
	require.NoError(t, err)

	d := b.Data()
	require.Len(t, d, 4)
	d[0] = 1.5
	d[3] = -2.25
	assert.Equal(t, float32(1.5), b.Data()[0])
	assert.Equal(t, float32(-2.25), b.Data()[3])

	require.NoError(t, b.Close())
	assert.Nil(t, b.Data())
	require.NoError(t, b.Close())
}

func TestTemp_ExactlyOnceRelease(t *testing.T) {
	m := NewManager(nil)

	tmp, err := NewTemp[float32](m, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, m.LiveTemps())

	tmp.Data()[0] = 42
	assert.Equal(t, float32(42), tmp.Data()[0])

	require.NoError(t, tmp.Release())
	assert.Equal(t, 0, m.LiveTemps())

	err = tmp.Release()
	assert.ErrorIs(t, err, ErrDoubleRelease)

	assert.Panics(t, func() { tmp.Data() })

	require.NoError(t, m.Close())
}

func TestTemp_UseAfterReleaseCause(t *testing.T) {
	m := NewManager(nil)
	tmp, err := NewTemp[float32](m, 1)
	require.NoError(t, err)
	require.NoError(t, tmp.Release())

	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrUseAfterRelease)
	}()
	tmp.Data()
}

func TestManager_SlotReuse(t *testing.T) {
	m := NewManager(nil)

	a, err := NewTemp[float32](m, 1)
	require.NoError(t, err)
	b, err := NewTemp[float32](m, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, m.LiveTemps())

	require.NoError(t, a.Release())
	assert.Equal(t, 1, m.LiveTemps())

	// Released slot ids are recycled for the next tick's temporaries.
	c, err := NewTemp[float32](m, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, m.LiveTemps())

	require.NoError(t, b.Release())
	require.NoError(t, c.Release())
	assert.Equal(t, 0, m.LiveTemps())
}

func TestManager_CloseWithLiveTemps(t *testing.T) {
	m := NewManager(nil)

	tmp, err := NewTemp[float32](m, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, m.Close(), ErrTemporariesLive)

	require.NoError(t, tmp.Release())
	require.NoError(t, m.Close())
}

func TestManager_MemoryAccounting(t *testing.T) {
	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 256})
	m := NewManager(ctrl)

	b, err := NewRecordBuffer(m, 8, 16) // 128 bytes
	require.NoError(t, err)
	assert.Equal(t, int64(128), m.MemoryUsage())

	tmp, err := NewTemp[float32](m, 3) // 12 bytes
	require.NoError(t, err)
	assert.Equal(t, int64(140), m.MemoryUsage())

	// A second slab would exceed the 256-byte cap.
	_, err = NewRecordBuffer(m, 8, 16)
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)

	require.NoError(t, tmp.Release())
	require.NoError(t, b.Close())
	assert.Equal(t, int64(0), m.MemoryUsage())
}
