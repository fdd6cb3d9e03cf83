// Package store persists the four session slots (identity, bills,
// onboarding profile, tier) and the opaque bill photo blobs.
//
// The store is a passive mirror. It never changes state on its own; the
// session machine reads it once at startup and overwrites whole slots on
// every mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/theirongolddev/energipro/internal/model"
)

// Slot names one independently persisted value.
type Slot string

// Persisted slots.
const (
	SlotIdentity   Slot = "identity"
	SlotBills      Slot = "bills"
	SlotOnboarding Slot = "onboarding"
	SlotTier       Slot = "tier"
)

// Slots lists every slot.
var Slots = []Slot{SlotIdentity, SlotBills, SlotOnboarding, SlotTier}

// Valid reports whether s is a known slot.
func (s Slot) Valid() bool {
	switch s {
	case SlotIdentity, SlotBills, SlotOnboarding, SlotTier:
		return true
	}
	return false
}

var (
	// ErrUnknownSlot is returned by Save for a slot outside Slots.
	ErrUnknownSlot = errors.New("store: unknown slot")
	// ErrBlobNotFound is returned by GetBlob for a ref with no stored data.
	ErrBlobNotFound = errors.New("store: blob not found")
)

// Store is the persisted session mirror.
type Store interface {
	// Load returns whatever slots are present. Absent slots are not an error.
	Load(ctx context.Context) (Snapshot, error)
	// Save overwrites slot with the JSON encoding of value.
	Save(ctx context.Context, slot Slot, value any) error
	// Clear removes every slot and blob in one step.
	Clear(ctx context.Context) error
	Close() error
}

// BlobStore keeps opaque binary payloads such as bill photos. Contents are
// never decoded.
type BlobStore interface {
	PutBlob(ctx context.Context, data []byte) (string, error)
	GetBlob(ctx context.Context, ref string) ([]byte, error)
	// DeleteBlob removes ref. Deleting an unknown ref is not an error.
	DeleteBlob(ctx context.Context, ref string) error
}

// Snapshot is the decoded content of the store. A nil pointer or empty Tier
// means the slot was absent. HasBills distinguishes a persisted empty list
// from no list at all.
type Snapshot struct {
	Identity *model.Identity
	Bills    []model.Bill
	HasBills bool
	Profile  *model.Profile
	Tier     model.Tier

	// Corrupt lists slots that were present but could not be decoded.
	// They are treated as absent.
	Corrupt []Slot
}

// Empty reports whether no slot was present.
func (s Snapshot) Empty() bool {
	return s.Identity == nil && !s.HasBills && s.Profile == nil && s.Tier == ""
}

// decodeSnapshot turns raw slot values into a Snapshot. Undecodable slots
// are recorded in Corrupt instead of failing the whole load.
func decodeSnapshot(raw map[Slot][]byte) Snapshot {
	var snap Snapshot

	if data, ok := raw[SlotIdentity]; ok {
		var id model.Identity
		if err := json.Unmarshal(data, &id); err != nil {
			snap.Corrupt = append(snap.Corrupt, SlotIdentity)
		} else {
			snap.Identity = &id
		}
	}

	if data, ok := raw[SlotBills]; ok {
		var bills []model.Bill
		if err := json.Unmarshal(data, &bills); err != nil {
			snap.Corrupt = append(snap.Corrupt, SlotBills)
		} else {
			snap.Bills = bills
			snap.HasBills = true
		}
	}

	if data, ok := raw[SlotOnboarding]; ok {
		var p model.Profile
		if err := json.Unmarshal(data, &p); err != nil {
			snap.Corrupt = append(snap.Corrupt, SlotOnboarding)
		} else {
			snap.Profile = &p
		}
	}

	if data, ok := raw[SlotTier]; ok {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			snap.Corrupt = append(snap.Corrupt, SlotTier)
		} else if tier, err := model.ParseTier(name); err != nil {
			snap.Corrupt = append(snap.Corrupt, SlotTier)
		} else {
			snap.Tier = tier
		}
	}

	return snap
}

func encodeSlot(slot Slot, value any) ([]byte, error) {
	if !slot.Valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownSlot, slot)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", slot, err)
	}
	return data, nil
}

const blobPrefix = "blob:"

func newBlobRef() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating blob ref: %w", err)
	}
	return blobPrefix + id.String(), nil
}
