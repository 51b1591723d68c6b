package reprise

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StateStore is the durable-state boundary. Implementations must make Save
// atomic per (user, item) key; the engine performs no retries and assumes at
// most one concurrent mutator per key.
type StateStore interface {
	// Load returns the state for the key, or ErrStateNotFound. Callers
	// create missing state with the New*State constructors.
	Load(user, item uuid.UUID) (ItemState, error)

	// Save persists the state under its own (UserID, ItemID) key.
	Save(state ItemState) error

	// ListDue returns the user's items whose due date has arrived, paired
	// with their states, in deterministic (due, item ID) order.
	ListDue(user uuid.UUID, today time.Time) ([]DueItem, error)
}

type stateKey struct {
	user, item uuid.UUID
}

// MemoryStore is an in-memory StateStore for tests, examples, and embedding
// callers that handle durability themselves. A single RWMutex guards the
// maps, which gives Save the atomic-per-key semantics the contract asks for.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[uuid.UUID]Item
	states map[stateKey]ItemState
}

// Compile-time interface check.
var _ StateStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:  make(map[uuid.UUID]Item),
		states: make(map[stateKey]ItemState),
	}
}

// PutItem registers an item so ListDue can pair states with it.
func (m *MemoryStore) PutItem(item Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
}

// Item returns a registered item by ID.
func (m *MemoryStore) Item(id uuid.UUID) (Item, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	return item, ok
}

// Load implements StateStore.
func (m *MemoryStore) Load(user, item uuid.UUID) (ItemState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.states[stateKey{user: user, item: item}]
	if !ok {
		return ItemState{}, fmt.Errorf("%w: user %s item %s", ErrStateNotFound, user, item)
	}
	return state.clone(), nil
}

// Save implements StateStore.
func (m *MemoryStore) Save(state ItemState) error {
	if !state.Algorithm.isValid() {
		return fmt.Errorf("%w: %s", ErrUnknownAlgorithm, state.Algorithm)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[stateKey{user: state.UserID, item: state.ItemID}] = state.clone()
	return nil
}

// ListDue implements StateStore. States whose item was never registered are
// skipped; scheduling state outlives nothing here.
func (m *MemoryStore) ListDue(user uuid.UUID, today time.Time) ([]DueItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var due []DueItem
	for key, state := range m.states {
		if key.user != user || state.Due.After(today) {
			continue
		}
		item, ok := m.items[key.item]
		if !ok {
			continue
		}
		due = append(due, DueItem{Item: item, State: state.clone()})
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].State.Due.Equal(due[j].State.Due) {
			return due[i].State.Due.Before(due[j].State.Due)
		}
		return due[i].Item.ID.String() < due[j].Item.ID.String()
	})
	return due, nil
}
