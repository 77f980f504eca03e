package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"restaurantcore/internal/query"
	"restaurantcore/pkg/domain"
)

// Mode selects create or update semantics for the validation gate.
type Mode int

// Validation modes.
const (
	ModeCreate Mode = iota
	ModeUpdate
)

func (m Mode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "create"
}

// Env carries the state a validation run reads from.
type Env struct {
	View              domain.TransactionView
	Oracle            Oracle
	Now               time.Time
	ManagerPositionID int
}

// FieldRule checks one scalar attribute. Check returns an empty string when
// the value is acceptable and a message otherwise.
type FieldRule[T any] struct {
	Name  string
	Check func(rec T, env Env) string
}

// Reference is a foreign key plus the forward navigation that mirrors it.
type Reference[T any] struct {
	Field   string
	Nav     string
	Target  domain.EntityType
	ID      func(T) int
	present func(T) bool
	attach  func(*T, domain.Record)
}

// Collection is a reverse navigation: the records of Dependent whose Via
// foreign key points at the owner. Every collection guards deletes.
type Collection[T any] struct {
	Name      string
	Dependent domain.EntityType
	Via       string
	present   func(T) bool
	attach    func(*T, []domain.Record)
}

// UniqueKey is a normalized key that must not repeat within a collection.
type UniqueKey[T any] struct {
	Fields []string
	Key    func(T) string
}

// Invariant is an entity-specific business rule evaluated last.
type Invariant[T any] struct {
	Name  string
	Check func(rec T, id int, env Env) error
}

// Descriptor is the table of rules that drives validation, navigation
// loading, dependency guards and list shaping for one record type.
type Descriptor[T domain.Record] struct {
	Entity      domain.EntityType
	Plural      string
	IDField     string
	Fields      []FieldRule[T]
	References  []Reference[T]
	Collections []Collection[T]
	Unique      []UniqueKey[T]
	Invariants  []Invariant[T]
	Query       query.Spec[T]
}

// Validate runs the gate checks in order and stops at the first failure:
// identity, scalar fields, foreign keys, navigation shape, uniqueness, then
// invariants. existingID is the record being updated and is ignored on create.
func (d *Descriptor[T]) Validate(env Env, payload T, mode Mode, existingID int) error {
	if err := d.checkIdentity(payload, mode, existingID); err != nil {
		return err
	}
	for _, f := range d.Fields {
		if msg := f.Check(payload, env); msg != "" {
			return domain.Reject(d.Entity, domain.ReasonConstraint, f.Name, "%s", msg)
		}
	}
	for _, ref := range d.References {
		id := ref.ID(payload)
		if !env.Oracle.Exists(ref.Target, id) {
			return domain.Reject(d.Entity, domain.ReasonForeignKey, ref.Field, "%s %d does not exist", ref.Target, id)
		}
	}
	for _, ref := range d.References {
		if ref.present(payload) {
			return domain.Reject(d.Entity, domain.ReasonNavigation, ref.Nav, "navigation must be omitted on write")
		}
	}
	for _, c := range d.Collections {
		if c.present(payload) {
			return domain.Reject(d.Entity, domain.ReasonNavigation, c.Name, "navigation must be omitted on write")
		}
	}
	if mode == ModeCreate {
		existingID = 0
	}
	for _, u := range d.Unique {
		key := u.Key(payload)
		for _, rec := range env.View.List(d.Entity) {
			if rec.Identity() == existingID {
				continue
			}
			if u.Key(rec.(T)) == key {
				return domain.Reject(d.Entity, domain.ReasonDuplicate, strings.Join(u.Fields, ","), "value already in use")
			}
		}
	}
	for _, inv := range d.Invariants {
		if err := inv.Check(payload, existingID, env); err != nil {
			return err
		}
	}
	return nil
}

func (d *Descriptor[T]) checkIdentity(payload T, mode Mode, existingID int) error {
	id := payload.Identity()
	switch mode {
	case ModeCreate:
		if id != 0 {
			return domain.Reject(d.Entity, domain.ReasonIdentity, d.IDField, "identity is assigned by the store")
		}
	case ModeUpdate:
		if id != 0 && id != existingID {
			return domain.Reject(d.Entity, domain.ReasonIdentity, d.IDField, "identity %d does not match %d", id, existingID)
		}
	}
	return nil
}

// Load populates forward navigations and reverse collections one level deep.
// Nested records are attached in basic form.
func (d *Descriptor[T]) Load(o Oracle, rec T) T {
	for _, ref := range d.References {
		if target, ok := o.view.Get(ref.Target, ref.ID(rec)); ok {
			ref.attach(&rec, target.Basic())
		}
	}
	for _, c := range d.Collections {
		deps, err := o.Dependents(d.Entity, rec.Identity(), c.Name)
		if err != nil {
			continue
		}
		basics := make([]domain.Record, 0, len(deps))
		for _, dep := range deps {
			basics = append(basics, dep.Basic())
		}
		c.attach(&rec, basics)
	}
	return rec
}

// Ref declares a foreign key field with its forward navigation.
func Ref[T any, R domain.Record](field, nav string, target domain.EntityType, id func(T) int, navOf func(*T) *domain.Nav[R]) Reference[T] {
	return Reference[T]{
		Field:   field,
		Nav:     nav,
		Target:  target,
		ID:      id,
		present: func(rec T) bool { return navOf(&rec).Present() },
		attach: func(rec *T, target domain.Record) {
			if typed, ok := target.(R); ok {
				*navOf(rec) = domain.Some(typed)
			}
		},
	}
}

// Coll declares a reverse navigation over dependent records whose via field
// references the owner.
func Coll[T any, D domain.Record](name string, dependent domain.EntityType, via string, navOf func(*T) *domain.Nav[[]D]) Collection[T] {
	return Collection[T]{
		Name:      name,
		Dependent: dependent,
		Via:       via,
		present:   func(rec T) bool { return navOf(&rec).Present() },
		attach: func(rec *T, deps []domain.Record) {
			typed := make([]D, 0, len(deps))
			for _, dep := range deps {
				if v, ok := dep.(D); ok {
					typed = append(typed, v)
				}
			}
			*navOf(rec) = domain.Some(typed)
		},
	}
}

// RequiredString rejects empty, whitespace-only and over-length values.
func RequiredString[T any](name string, maxLen int, get func(T) string) FieldRule[T] {
	return FieldRule[T]{Name: name, Check: func(rec T, _ Env) string {
		v := get(rec)
		if strings.TrimSpace(v) == "" {
			return "is required"
		}
		if utf8.RuneCountInString(v) > maxLen {
			return "must be at most " + strconv.Itoa(maxLen) + " characters"
		}
		return ""
	}}
}

// OptionalString accepts an empty value but still enforces the length bound.
func OptionalString[T any](name string, maxLen int, get func(T) string) FieldRule[T] {
	return FieldRule[T]{Name: name, Check: func(rec T, _ Env) string {
		v := get(rec)
		if v != "" && strings.TrimSpace(v) == "" {
			return "must not be whitespace only"
		}
		if utf8.RuneCountInString(v) > maxLen {
			return "must be at most " + strconv.Itoa(maxLen) + " characters"
		}
		return ""
	}}
}

// IntRange accepts values within [lo, hi].
func IntRange[T any](name string, lo, hi int, get func(T) int) FieldRule[T] {
	return FieldRule[T]{Name: name, Check: func(rec T, _ Env) string {
		if v := get(rec); v < lo || v > hi {
			return "must be between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi)
		}
		return ""
	}}
}

// Positive accepts values strictly greater than zero.
func Positive[T any](name string, get func(T) float64) FieldRule[T] {
	return FieldRule[T]{Name: name, Check: func(rec T, _ Env) string {
		if get(rec) <= 0 {
			return "must be greater than 0"
		}
		return ""
	}}
}

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ClockTime accepts a 24-hour HH:MM value.
func ClockTime[T any](name string, get func(T) string) FieldRule[T] {
	return FieldRule[T]{Name: name, Check: func(rec T, _ Env) string {
		if !clockPattern.MatchString(get(rec)) {
			return "must be a 24-hour HH:MM time"
		}
		return ""
	}}
}

// PastDate requires a date that is set and not after today.
func PastDate[T any](name string, get func(T) domain.Date) FieldRule[T] {
	return FieldRule[T]{Name: name, Check: func(rec T, env Env) string {
		d := get(rec)
		if d.IsZero() {
			return "is required"
		}
		if d.After(env.Now) {
			return "must not be in the future"
		}
		return ""
	}}
}

// UniqueFold declares a case-insensitive unique string field.
func UniqueFold[T any](field string, get func(T) string) UniqueKey[T] {
	return UniqueKey[T]{Fields: []string{field}, Key: func(rec T) string { return foldKey(get(rec)) }}
}

// UniqueTuple declares a composite unique key built from the parts returned by key.
func UniqueTuple[T any](fields []string, key func(T) []string) UniqueKey[T] {
	return UniqueKey[T]{Fields: fields, Key: func(rec T) string {
		parts := key(rec)
		for i := range parts {
			parts[i] = foldKey(parts[i])
		}
		return strings.Join(parts, "\x00")
	}}
}

func foldKey(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
