package core

import (
	"errors"
	"fmt"
	"slices"

	"restaurantcore/pkg/domain"
)

// Described is implemented by every Descriptor and lets the registry hold
// descriptors of different record types.
type Described interface {
	describe() entityInfo
}

type erasedRef struct {
	field  string
	target domain.EntityType
	id     func(domain.Record) int
}

type erasedCollection struct {
	name      string
	dependent domain.EntityType
	via       string
}

type entityInfo struct {
	entity      domain.EntityType
	plural      string
	refs        []erasedRef
	collections []erasedCollection
	validate    func(env Env, rec domain.Record, mode Mode, existingID int) error
}

func (d *Descriptor[T]) describe() entityInfo {
	info := entityInfo{
		entity: d.Entity,
		plural: d.Plural,
		validate: func(env Env, rec domain.Record, mode Mode, existingID int) error {
			typed, ok := rec.(T)
			if !ok {
				return fmt.Errorf("%s descriptor cannot validate %T", d.Entity, rec)
			}
			return d.Validate(env, typed, mode, existingID)
		},
	}
	for _, ref := range d.References {
		id := ref.ID
		info.refs = append(info.refs, erasedRef{
			field:  ref.Field,
			target: ref.Target,
			id:     func(rec domain.Record) int { return id(rec.(T)) },
		})
	}
	for _, c := range d.Collections {
		info.collections = append(info.collections, erasedCollection{name: c.Name, dependent: c.Dependent, via: c.Via})
	}
	return info
}

// Registry indexes descriptors by entity type and resolves reverse
// relationships to the foreign keys that back them.
type Registry struct {
	order    []domain.EntityType
	entities map[domain.EntityType]entityInfo
}

// NewRegistry indexes the descriptors and checks that every collection is
// backed by a foreign key on its dependent pointing back at the owner.
func NewRegistry(descriptors ...Described) (*Registry, error) {
	r := &Registry{entities: make(map[domain.EntityType]entityInfo, len(descriptors))}
	for _, d := range descriptors {
		info := d.describe()
		if _, dup := r.entities[info.entity]; dup {
			return nil, fmt.Errorf("duplicate descriptor for %s", info.entity)
		}
		r.entities[info.entity] = info
		r.order = append(r.order, info.entity)
	}
	for _, info := range r.entities {
		for _, c := range info.collections {
			if _, err := r.foreignKey(info.entity, c); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// Entities returns the registered entity types in registration order.
func (r *Registry) Entities() []domain.EntityType {
	return slices.Clone(r.order)
}

func (r *Registry) foreignKey(owner domain.EntityType, c erasedCollection) (erasedRef, error) {
	dep, ok := r.entities[c.dependent]
	if !ok {
		return erasedRef{}, fmt.Errorf("%s.%s: dependent %s is not registered", owner, c.name, c.dependent)
	}
	for _, ref := range dep.refs {
		if ref.field == c.via && ref.target == owner {
			return ref, nil
		}
	}
	return erasedRef{}, fmt.Errorf("%s.%s: %s has no foreign key %s to %s", owner, c.name, c.dependent, c.via, owner)
}

func (r *Registry) collection(entity domain.EntityType, relationship string) (erasedCollection, error) {
	info, ok := r.entities[entity]
	if !ok {
		return erasedCollection{}, fmt.Errorf("unknown entity type %q", entity)
	}
	for _, c := range info.collections {
		if c.name == relationship {
			return c, nil
		}
	}
	return erasedCollection{}, fmt.Errorf("%s has no relationship %q", entity, relationship)
}

// Oracle answers existence and dependency questions against one view.
func (r *Registry) Oracle(view domain.TransactionView) Oracle {
	return Oracle{registry: r, view: view}
}

// Oracle answers "does this record exist" and "is it still referenced".
type Oracle struct {
	registry *Registry
	view     domain.TransactionView
}

// Exists reports whether a record with the id is present. Non-positive ids never exist.
func (o Oracle) Exists(entity domain.EntityType, id int) bool {
	if id <= 0 {
		return false
	}
	_, ok := o.view.Get(entity, id)
	return ok
}

// HasDependents reports whether any record references the target through the
// named relationship.
func (o Oracle) HasDependents(entity domain.EntityType, id int, relationship string) (bool, error) {
	deps, err := o.Dependents(entity, id, relationship)
	if err != nil {
		return false, err
	}
	return len(deps) > 0, nil
}

// Dependents lists the records that reference the target through the named
// relationship, ordered by identity.
func (o Oracle) Dependents(entity domain.EntityType, id int, relationship string) ([]domain.Record, error) {
	c, err := o.registry.collection(entity, relationship)
	if err != nil {
		return nil, err
	}
	fk, err := o.registry.foreignKey(entity, c)
	if err != nil {
		return nil, err
	}
	var out []domain.Record
	for _, rec := range o.view.List(c.dependent) {
		if fk.id(rec) == id {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Guard returns a DependencyError for the first relationship that still has
// dependents, or nil when the record can be deleted.
func (o Oracle) Guard(entity domain.EntityType, id int) error {
	info, ok := o.registry.entities[entity]
	if !ok {
		return fmt.Errorf("unknown entity type %q", entity)
	}
	for _, c := range info.collections {
		deps, err := o.Dependents(entity, id, c.name)
		if err != nil {
			return err
		}
		if len(deps) > 0 {
			return domain.DependencyError{
				Entity:       entity,
				ID:           id,
				Relationship: c.name,
				Dependent:    c.dependent,
				Count:        len(deps),
			}
		}
	}
	return nil
}

// Verify re-validates every record of the view as an update of itself, which
// checks foreign keys, uniqueness and invariants across the whole state.
func (r *Registry) Verify(env Env) error {
	var errs []error
	for _, entity := range r.order {
		info := r.entities[entity]
		for _, rec := range env.View.List(entity) {
			if err := info.validate(env, rec, ModeUpdate, rec.Identity()); err != nil {
				errs = append(errs, fmt.Errorf("%s %d: %w", entity, rec.Identity(), err))
			}
		}
	}
	return errors.Join(errs...)
}
