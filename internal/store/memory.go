package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory is a Store that lives only as long as the process. It backs
// tests and --ephemeral runs.
type Memory struct {
	mu    sync.Mutex
	slots map[Slot][]byte
	blobs map[string][]byte
}

var (
	_ Store     = (*Memory)(nil)
	_ BlobStore = (*Memory)(nil)
)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		slots: make(map[Slot][]byte),
		blobs: make(map[string][]byte),
	}
}

// Load decodes the present slots.
func (m *Memory) Load(_ context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw := make(map[Slot][]byte, len(m.slots))
	for k, v := range m.slots {
		raw[k] = v
	}
	return decodeSnapshot(raw), nil
}

// Save overwrites one slot.
func (m *Memory) Save(_ context.Context, slot Slot, value any) error {
	data, err := encodeSlot(slot, value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.slots[slot] = data
	m.mu.Unlock()
	return nil
}

// Clear drops every slot and blob.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.slots = make(map[Slot][]byte)
	m.blobs = make(map[string][]byte)
	m.mu.Unlock()
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// PutBlob stores a copy of data.
func (m *Memory) PutBlob(_ context.Context, data []byte) (string, error) {
	ref, err := newBlobRef()
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.blobs[ref] = append([]byte(nil), data...)
	m.mu.Unlock()
	return ref, nil
}

// GetBlob returns a copy of the data stored under ref.
func (m *Memory) GetBlob(_ context.Context, ref string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.blobs[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, ref)
	}
	return append([]byte(nil), data...), nil
}

// DeleteBlob drops the data stored under ref.
func (m *Memory) DeleteBlob(_ context.Context, ref string) error {
	m.mu.Lock()
	delete(m.blobs, ref)
	m.mu.Unlock()
	return nil
}

// Has reports whether slot is currently stored.
func (m *Memory) Has(slot Slot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.slots[slot]
	return ok
}
