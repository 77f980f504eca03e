package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// TransactionView provides read-only access to the records of one store state.
// List returns records ordered by identity ascending.
type TransactionView interface {
	Get(entity EntityType, id int) (Record, bool)
	List(entity EntityType) []Record
}

// Transaction exposes the mutations a persistence implementation must support
// within an atomic scope.
type Transaction interface {
	TransactionView
	// Insert assigns the next identity for the record's collection and stores
	// the basic form of the record.
	Insert(Record) (Record, error)
	// Replace overwrites an existing record with the same identity.
	Replace(Record) (Record, error)
	Delete(entity EntityType, id int) error
}

// PersistentStore is a minimal abstraction over durable backends.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) ([]Change, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	ExportState() Snapshot
	ImportState(Snapshot) error
	Close() error
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in the audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Change describes a mutation applied to a record during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	ID     int
	Before Record
	After  Record
	At     time.Time
}

// Snapshot is a point-in-time copy of every collection, keyed by entity type.
type Snapshot struct {
	Buckets map[EntityType][]Record
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() Snapshot {
	return Snapshot{Buckets: make(map[EntityType][]Record)}
}

// Len returns the number of records across all buckets.
func (s Snapshot) Len() int {
	n := 0
	for _, records := range s.Buckets {
		n += len(records)
	}
	return n
}

// MarshalJSON encodes the snapshot as an object of entity type to record arrays.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[EntityType][]Record, len(s.Buckets))
	for entity, records := range s.Buckets {
		if records == nil {
			records = []Record{}
		}
		out[entity] = records
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes each bucket into its concrete record type.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[EntityType]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Buckets = make(map[EntityType][]Record, len(raw))
	for entity, payload := range raw {
		records, err := DecodeBucket(entity, payload)
		if err != nil {
			return err
		}
		s.Buckets[entity] = records
	}
	return nil
}

// EncodeBucket encodes one collection as a JSON array.
func EncodeBucket(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	return json.Marshal(records)
}

// DecodeBucket decodes a JSON array produced by EncodeBucket.
func DecodeBucket(entity EntityType, payload []byte) ([]Record, error) {
	if !entity.Valid() {
		return nil, fmt.Errorf("unknown bucket %q", entity)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", entity, err)
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		rec, err := DecodeRecord(entity, item)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", entity, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
