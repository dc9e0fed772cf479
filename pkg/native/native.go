// Package native holds the boundary to the underlying engine: handle-based
// memory, and the transport that accepts a finished record stream. The
// codec packages only ever see byte slices; everything here exists so the
// rest of the module never touches a raw pointer or a pointer width.
package native

import (
	"fmt"
	"sync"
)

// Handle identifies a native memory block. One platform-width-generic
// integer regardless of what the engine uses underneath.
type Handle uint64

// MemoryService is the engine's allocate/lock/unlock/free surface.
type MemoryService interface {
	Alloc(size int) (Handle, error)
	Lock(h Handle) ([]byte, error)
	Unlock(h Handle) error
	Free(h Handle) error
}

// HeapMemory is an in-process MemoryService used by tests and the CLI.
// It enforces the lock discipline a real engine would: reading requires a
// lock, freeing a locked block is an error.
type HeapMemory struct {
	mu     sync.Mutex
	next   Handle
	blocks map[Handle][]byte
	locked map[Handle]bool
}

// NewHeapMemory returns an empty in-process memory service.
func NewHeapMemory() *HeapMemory {
	return &HeapMemory{
		blocks: make(map[Handle][]byte),
		locked: make(map[Handle]bool),
	}
}

func (m *HeapMemory) Alloc(size int) (Handle, error) {
	if size < 0 {
		return 0, fmt.Errorf("native: alloc of negative size %d", size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.blocks[m.next] = make([]byte, size)
	return m.next, nil
}

func (m *HeapMemory) Lock(h Handle) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	block, ok := m.blocks[h]
	if !ok {
		return nil, fmt.Errorf("native: lock of unknown handle %d", h)
	}
	m.locked[h] = true
	return block, nil
}

func (m *HeapMemory) Unlock(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.locked[h] {
		return fmt.Errorf("native: unlock of handle %d that is not locked", h)
	}
	delete(m.locked, h)
	return nil
}

func (m *HeapMemory) Free(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blocks[h]; !ok {
		return fmt.Errorf("native: free of unknown handle %d", h)
	}
	if m.locked[h] {
		return fmt.Errorf("native: free of locked handle %d", h)
	}
	delete(m.blocks, h)
	return nil
}
