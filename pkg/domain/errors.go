package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is by the service and transport layers.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRejected indicates a write payload failed validation.
	ErrRejected = errors.New("rejected")
	// ErrDependencyConflict indicates a delete was blocked by dependent records.
	ErrDependencyConflict = errors.New("dependency conflict")
)

// Reason classifies why a write was rejected.
type Reason string

// Rejection reasons reported by the validation gate.
const (
	ReasonIdentity    Reason = "identity"
	ReasonConstraint  Reason = "constraint"
	ReasonForeignKey  Reason = "foreign_key"
	ReasonNavigation  Reason = "navigation"
	ReasonDuplicate   Reason = "duplicate"
	ReasonCardinality Reason = "cardinality"
)

// NotFoundError reports a missing record.
type NotFoundError struct {
	Entity EntityType
	ID     int
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// Is matches ErrNotFound.
func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }

// RejectedError reports a failed validation check. Field names the JSON field
// at fault when one applies.
type RejectedError struct {
	Entity  EntityType
	Reason  Reason
	Field   string
	Message string
}

func (e RejectedError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s rejected (%s): %s: %s", e.Entity, e.Reason, e.Field, e.Message)
	}
	return fmt.Sprintf("%s rejected (%s): %s", e.Entity, e.Reason, e.Message)
}

// Is matches ErrRejected.
func (e RejectedError) Is(target error) bool { return target == ErrRejected }

// Reject builds a RejectedError.
func Reject(entity EntityType, reason Reason, field, format string, args ...any) RejectedError {
	return RejectedError{Entity: entity, Reason: reason, Field: field, Message: fmt.Sprintf(format, args...)}
}

// DependencyError reports a delete blocked by records that still reference the target.
type DependencyError struct {
	Entity       EntityType
	ID           int
	Relationship string
	Dependent    EntityType
	Count        int
}

func (e DependencyError) Error() string {
	return fmt.Sprintf("%s %d still referenced by %d %s record(s) via %s", e.Entity, e.ID, e.Count, e.Dependent, e.Relationship)
}

// Is matches ErrDependencyConflict.
func (e DependencyError) Is(target error) bool { return target == ErrDependencyConflict }
