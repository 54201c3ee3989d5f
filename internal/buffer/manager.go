package buffer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bitset"

	"github.com/FlorianJeanne/job-system-cookbook/internal/resource"
)

var (
	// ErrInvalidSize is returned when a buffer size is not positive.
	ErrInvalidSize = errors.New("buffer: invalid size")
	// ErrDoubleRelease is returned when a scoped temporary is released twice.
	ErrDoubleRelease = errors.New("buffer: temporary already released")
	// ErrUseAfterRelease is the panic cause when a released temporary's
	// data is accessed.
	ErrUseAfterRelease = errors.New("buffer: temporary used after release")
	// ErrTemporariesLive is returned when the manager is closed while
	// scoped temporaries are still allocated.
	ErrTemporariesLive = errors.New("buffer: live temporaries at close")
)

// Manager allocates the engine's buffers and accounts for their memory
// through an optional resource.Controller. A nil controller disables
// memory limits but slot tracking still works.
type Manager struct {
	ctrl *resource.Controller

	mu    sync.Mutex
	slots *bitset.BitSet // live scoped-temporary slot ids
	next  uint
	freed []uint // recycled slot ids
}

// NewManager creates a buffer manager. ctrl may be nil.
func NewManager(ctrl *resource.Controller) *Manager {
	return &Manager{
		ctrl:  ctrl,
		slots: bitset.New(64),
	}
}

// LiveTemps returns the number of scoped temporaries currently allocated.
func (m *Manager) LiveTemps() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int(m.slots.Count())
}

// MemoryUsage returns the managed memory currently held, in bytes.
func (m *Manager) MemoryUsage() int64 {
	return m.ctrl.MemoryUsage()
}

// Close verifies that no scoped temporary is still live.
// Persistent buffers are closed individually by their owners.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := m.slots.Count(); n > 0 {
		return fmt.Errorf("%w: %d still allocated", ErrTemporariesLive, n)
	}
	return nil
}

func (m *Manager) acquireSlot() uint {
	m.mu.Lock()
	defer m.mu.Unlock()

	var slot uint
	if n := len(m.freed); n > 0 {
		slot = m.freed[n-1]
		m.freed = m.freed[:n-1]
	} else {
		slot = m.next
		m.next++
	}
	m.slots.Set(slot)
	return slot
}

func (m *Manager) releaseSlot(slot uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots.Clear(slot)
	m.freed = append(m.freed, slot)
}
