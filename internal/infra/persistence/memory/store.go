// Package memory provides an in-memory implementation of the core persistence
// store used for tests and ephemeral environments, and as the transactional
// engine underneath the snapshotting SQL backends.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"restaurantcore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Record aliases domain.Record.
	Record = domain.Record
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Snapshot aliases domain.Snapshot.
	Snapshot = domain.Snapshot
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

// memoryState holds one collection per entity type plus the last identity
// handed out for each. Identities are never reused after a delete.
type memoryState struct {
	records   map[domain.EntityType]map[int]Record
	sequences map[domain.EntityType]int
}

func newMemoryState() memoryState {
	state := memoryState{
		records:   make(map[domain.EntityType]map[int]Record),
		sequences: make(map[domain.EntityType]int),
	}
	for _, entity := range domain.EntityTypes() {
		state.records[entity] = make(map[int]Record)
	}
	return state
}

// clone copies the collection maps. Records are stored in basic form as
// values, so sharing them between states is safe.
func (s memoryState) clone() memoryState {
	out := memoryState{
		records:   make(map[domain.EntityType]map[int]Record, len(s.records)),
		sequences: make(map[domain.EntityType]int, len(s.sequences)),
	}
	for entity, bucket := range s.records {
		copied := make(map[int]Record, len(bucket))
		for id, rec := range bucket {
			copied[id] = rec
		}
		out.records[entity] = copied
	}
	for entity, seq := range s.sequences {
		out.sequences[entity] = seq
	}
	return out
}

func (s memoryState) snapshot() Snapshot {
	snap := domain.NewSnapshot()
	for entity := range s.records {
		snap.Buckets[entity] = sortedRecords(s.records[entity])
	}
	return snap
}

func stateFromSnapshot(snapshot Snapshot) (memoryState, error) {
	state := newMemoryState()
	for entity, records := range snapshot.Buckets {
		if !entity.Valid() {
			return memoryState{}, fmt.Errorf("unknown bucket %q", entity)
		}
		bucket := state.records[entity]
		for _, rec := range records {
			if rec == nil {
				return memoryState{}, fmt.Errorf("%s bucket contains a nil record", entity)
			}
			if rec.EntityType() != entity {
				return memoryState{}, fmt.Errorf("%s bucket contains %s record", entity, rec.EntityType())
			}
			id := rec.Identity()
			if id <= 0 {
				return memoryState{}, fmt.Errorf("%s record has invalid identity %d", entity, id)
			}
			if _, dup := bucket[id]; dup {
				return memoryState{}, fmt.Errorf("%s %d appears twice", entity, id)
			}
			bucket[id] = rec.Basic()
			state.sequences[entity] = max(state.sequences[entity], id)
		}
	}
	return state, nil
}

func sortedRecords(bucket map[int]Record) []Record {
	out := make([]Record, 0, len(bucket))
	for _, rec := range bucket {
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b Record) int { return cmp.Compare(a.Identity(), b.Identity()) })
	return out
}

// Store is an in-memory transactional store. Transactions run serially against
// a cloned state that replaces the live state only when fn succeeds.
type Store struct {
	mu    sync.RWMutex
	state memoryState
	nowFn func() time.Time
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{
		state: newMemoryState(),
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.snapshot()
}

// ImportState replaces the store state with the provided snapshot. Identity
// sequences resume after the highest imported id of each collection.
func (s *Store) ImportState(snapshot Snapshot) error {
	state, err := stateFromSnapshot(snapshot)
	if err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	return nil
}

// Checkpoint captures the current state and returns a function that puts it
// back. States are replaced wholesale on commit, so the capture is not copied.
func (s *Store) Checkpoint() (restore func()) {
	s.mu.RLock()
	saved := s.state
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.state = saved
	}
}

// NowFunc returns the time provider used to stamp changes.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// SetNowFunc overrides the time provider.
func (s *Store) SetNowFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = fn
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// RunInTransaction executes fn against a cloned state and commits it when fn
// returns nil. The recorded changes are returned in the order they occurred.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) ([]Change, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		state: s.state.clone(),
		now:   s.nowFn(),
	}
	if err := fn(tx); err != nil {
		return nil, err
	}
	s.state = tx.state
	return tx.changes, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(ctx context.Context, fn func(TransactionView) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return fn(stateView{state: &snapshot})
}

type stateView struct {
	state *memoryState
}

func (v stateView) Get(entity domain.EntityType, id int) (Record, bool) {
	rec, ok := v.state.records[entity][id]
	return rec, ok
}

func (v stateView) List(entity domain.EntityType) []Record {
	return sortedRecords(v.state.records[entity])
}

// transaction represents a mutation set applied to a cloned state.
type transaction struct {
	state   memoryState
	changes []Change
	now     time.Time
}

func (tx *transaction) recordChange(change Change) {
	change.At = tx.now
	tx.changes = append(tx.changes, change)
}

func (tx *transaction) Get(entity domain.EntityType, id int) (Record, bool) {
	return stateView{state: &tx.state}.Get(entity, id)
}

func (tx *transaction) List(entity domain.EntityType) []Record {
	return stateView{state: &tx.state}.List(entity)
}

func (tx *transaction) bucket(entity domain.EntityType) (map[int]Record, error) {
	bucket, ok := tx.state.records[entity]
	if !ok {
		return nil, fmt.Errorf("unknown entity type %q", entity)
	}
	return bucket, nil
}

// Insert assigns the next identity and stores the record's basic form.
func (tx *transaction) Insert(rec Record) (Record, error) {
	entity := rec.EntityType()
	bucket, err := tx.bucket(entity)
	if err != nil {
		return nil, err
	}
	if rec.Identity() != 0 {
		return nil, fmt.Errorf("%s already has identity %d", entity, rec.Identity())
	}
	id := tx.state.sequences[entity] + 1
	tx.state.sequences[entity] = id
	stored := rec.WithIdentity(id).Basic()
	bucket[id] = stored
	tx.recordChange(Change{Entity: entity, Action: domain.ActionCreate, ID: id, After: stored})
	return stored, nil
}

// Replace overwrites the stored record with the same identity.
func (tx *transaction) Replace(rec Record) (Record, error) {
	entity := rec.EntityType()
	bucket, err := tx.bucket(entity)
	if err != nil {
		return nil, err
	}
	id := rec.Identity()
	before, ok := bucket[id]
	if !ok {
		return nil, domain.NotFoundError{Entity: entity, ID: id}
	}
	stored := rec.Basic()
	bucket[id] = stored
	tx.recordChange(Change{Entity: entity, Action: domain.ActionUpdate, ID: id, Before: before, After: stored})
	return stored, nil
}

// Delete removes a record. Dependency guards are enforced by the caller.
func (tx *transaction) Delete(entity domain.EntityType, id int) error {
	bucket, err := tx.bucket(entity)
	if err != nil {
		return err
	}
	before, ok := bucket[id]
	if !ok {
		return domain.NotFoundError{Entity: entity, ID: id}
	}
	delete(bucket, id)
	tx.recordChange(Change{Entity: entity, Action: domain.ActionDelete, ID: id, Before: before})
	return nil
}
