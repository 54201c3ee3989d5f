package mmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAnon(t *testing.T) {
	m, err := MapAnon(4096)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 4096, m.Size())

	data := m.Bytes()
	require.Len(t, data, 4096)

	// Anonymous mappings are zero-filled and writable.
	assert.Equal(t, byte(0), data[0])
	data[0] = 0xAB
	data[4095] = 0xCD
	assert.Equal(t, byte(0xAB), m.Bytes()[0])
	assert.Equal(t, byte(0xCD), m.Bytes()[4095])
}

func TestMapAnon_InvalidSize(t *testing.T) {
	_, err := MapAnon(0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = MapAnon(-1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestMapAnon_UnalignedSize(t *testing.T) {
	// Sizes that are not page multiples must still work.
	m, err := MapAnon(100)
	require.NoError(t, err)
	defer m.Close()

	require.Len(t, m.Bytes(), 100)
	m.Bytes()[99] = 1
}

func TestMapping_CloseIdempotent(t *testing.T) {
	m, err := MapAnon(4096)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	assert.Nil(t, m.Bytes())
}
