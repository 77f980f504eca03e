package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"restaurantcore/internal/infra/persistence/memory"
	"restaurantcore/internal/query"
	"restaurantcore/pkg/domain"
)

// Clock supplies the current time to validation and change stamps.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// Logger is the subset of *slog.Logger the service writes to.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsRecorder observes the outcome and latency of every service operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, entity, operation, outcome string, duration time.Duration)
}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is ended with the operation's error, if any.
type TraceSpan interface {
	End(err error)
}

// ChangePublisher receives the changes of every committed transaction.
type ChangePublisher interface {
	Publish(ctx context.Context, changes []domain.Change) error
}

// Operation outcomes reported to the MetricsRecorder.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Outcome classifies an operation error for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrRejected), errors.Is(err, query.ErrInvalidPage):
		return OutcomeRejected
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrDependencyConflict):
		return OutcomeConflict
	default:
		return OutcomeError
	}
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, string, string, time.Duration) {}

type noopTracer struct{}

type noopSpan struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

func (noopSpan) End(error) {}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, []domain.Change) error { return nil }

type serviceOptions struct {
	clock             Clock
	logger            Logger
	metrics           MetricsRecorder
	tracer            Tracer
	publisher         ChangePublisher
	managerPositionID int
}

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		clock:             ClockFunc(func() time.Time { return time.Now().UTC() }),
		logger:            slog.Default(),
		metrics:           noopMetrics{},
		tracer:            noopTracer{},
		publisher:         noopPublisher{},
		managerPositionID: DefaultManagerPositionID,
	}
}

// changeClock is implemented by stores that stamp recorded changes themselves.
type changeClock interface {
	SetNowFunc(func() time.Time)
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

// WithClock overrides the clock used for validation and change timestamps.
// Stores that stamp their own changes are pointed at the same clock.
func WithClock(clock Clock) ServiceOption {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(logger Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics installs a metrics recorder.
func WithMetrics(m MetricsRecorder) ServiceOption {
	return func(o *serviceOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTracer installs a tracer.
func WithTracer(t Tracer) ServiceOption {
	return func(o *serviceOptions) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithPublisher installs the sink for committed changes.
func WithPublisher(p ChangePublisher) ServiceOption {
	return func(o *serviceOptions) {
		if p != nil {
			o.publisher = p
		}
	}
}

// WithManagerPositionID sets the position an employee must hold to manage a location.
func WithManagerPositionID(id int) ServiceOption {
	return func(o *serviceOptions) {
		if id > 0 {
			o.managerPositionID = id
		}
	}
}

// Descriptors returns one descriptor per entity type in schema order.
func Descriptors() []Described {
	return []Described{
		DishDescriptor(),
		MenuDescriptor(),
		MenuItemDescriptor(),
		LocationDescriptor(),
		LocationHoursDescriptor(),
		PositionDescriptor(),
		EmployeeDescriptor(),
		ManagementDescriptor(),
		SupplierDescriptor(),
		SupplyCategoryDescriptor(),
		SupplyLinkDescriptor(),
		DishRequirementDescriptor(),
	}
}

// Service exposes transactional CRUD over every entity type, guarded by the
// validation gate and the relationship oracle.
type Service struct {
	store             domain.PersistentStore
	registry          *Registry
	clock             Clock
	logger            Logger
	metrics           MetricsRecorder
	tracer            Tracer
	publisher         ChangePublisher
	managerPositionID int

	Dishes           *Resource[domain.Dish]
	Menus            *Resource[domain.Menu]
	MenuItems        *Resource[domain.MenuItem]
	Locations        *Resource[domain.Location]
	LocationHours    *Resource[domain.LocationHours]
	Positions        *Resource[domain.Position]
	Employees        *Resource[domain.Employee]
	Managements      *Resource[domain.Management]
	Suppliers        *Resource[domain.Supplier]
	SupplyCategories *Resource[domain.SupplyCategory]
	SupplyLinks      *Resource[domain.SupplyLink]
	DishRequirements *Resource[domain.DishRequirement]
}

// NewService constructs a service backed by the supplied store.
func NewService(store domain.PersistentStore, opts ...ServiceOption) *Service {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Service{
		store:             store,
		clock:             o.clock,
		logger:            o.logger,
		metrics:           o.metrics,
		tracer:            o.tracer,
		publisher:         o.publisher,
		managerPositionID: o.managerPositionID,
	}
	if cc, ok := store.(changeClock); ok {
		cc.SetNowFunc(o.clock.Now)
	}
	s.Dishes = newResource(s, DishDescriptor())
	s.Menus = newResource(s, MenuDescriptor())
	s.MenuItems = newResource(s, MenuItemDescriptor())
	s.Locations = newResource(s, LocationDescriptor())
	s.LocationHours = newResource(s, LocationHoursDescriptor())
	s.Positions = newResource(s, PositionDescriptor())
	s.Employees = newResource(s, EmployeeDescriptor())
	s.Managements = newResource(s, ManagementDescriptor())
	s.Suppliers = newResource(s, SupplierDescriptor())
	s.SupplyCategories = newResource(s, SupplyCategoryDescriptor())
	s.SupplyLinks = newResource(s, SupplyLinkDescriptor())
	s.DishRequirements = newResource(s, DishRequirementDescriptor())

	registry, err := NewRegistry(
		s.Dishes.desc, s.Menus.desc, s.MenuItems.desc, s.Locations.desc,
		s.LocationHours.desc, s.Positions.desc, s.Employees.desc, s.Managements.desc,
		s.Suppliers.desc, s.SupplyCategories.desc, s.SupplyLinks.desc, s.DishRequirements.desc,
	)
	if err != nil {
		// the built-in descriptors are fixed; a failure here is a programming error
		panic(err)
	}
	s.registry = registry
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store.
func NewInMemoryService(opts ...ServiceOption) *Service {
	return NewService(memory.NewStore(), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() domain.PersistentStore { return s.store }

// Registry returns the descriptor registry.
func (s *Service) Registry() *Registry { return s.registry }

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.clock.Now() }

func (s *Service) env(view domain.TransactionView) Env {
	return Env{
		View:              view,
		Oracle:            s.registry.Oracle(view),
		Now:               s.clock.Now(),
		ManagerPositionID: s.managerPositionID,
	}
}

// Exists reports whether the record is present.
func (s *Service) Exists(ctx context.Context, entity domain.EntityType, id int) (bool, error) {
	var ok bool
	err := s.store.View(ctx, func(v domain.TransactionView) error {
		ok = s.registry.Oracle(v).Exists(entity, id)
		return nil
	})
	return ok, err
}

// HasDependents reports whether any record references the target through the named relationship.
func (s *Service) HasDependents(ctx context.Context, entity domain.EntityType, id int, relationship string) (bool, error) {
	var ok bool
	err := s.store.View(ctx, func(v domain.TransactionView) error {
		var err error
		ok, err = s.registry.Oracle(v).HasDependents(entity, id, relationship)
		return err
	})
	return ok, err
}

// Snapshot exports the full committed state.
func (s *Service) Snapshot() domain.Snapshot { return s.store.ExportState() }

// Restore replaces the state with the snapshot after checking that every
// record in it passes the gate against the snapshot itself.
func (s *Service) Restore(ctx context.Context, snapshot domain.Snapshot) error {
	start := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, "restore")
	err := s.restore(ctx, snapshot)
	span.End(err)
	s.metrics.Observe(ctx, "snapshot", "restore", Outcome(err), s.clock.Now().Sub(start))
	if err != nil {
		s.logger.Warn("restore rejected", "records", snapshot.Len(), "error", err)
		return err
	}
	s.logger.Info("state restored", "records", snapshot.Len())
	return nil
}

func (s *Service) restore(ctx context.Context, snapshot domain.Snapshot) error {
	staging := memory.NewStore()
	if err := staging.ImportState(snapshot); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	err := staging.View(ctx, func(v domain.TransactionView) error {
		return s.registry.Verify(s.env(v))
	})
	if err != nil {
		return fmt.Errorf("verify snapshot: %w", err)
	}
	return s.store.ImportState(staging.ExportState())
}

// run wraps one operation with tracing, metrics and logging.
func (s *Service) run(ctx context.Context, entity domain.EntityType, operation string, fn func(ctx context.Context) error) error {
	start := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, string(entity)+"."+operation)
	err := fn(ctx)
	span.End(err)
	outcome := Outcome(err)
	s.metrics.Observe(ctx, string(entity), operation, outcome, s.clock.Now().Sub(start))
	switch outcome {
	case OutcomeOK:
		if mutating(operation) {
			s.logger.Info("change committed", "entity", entity, "operation", operation)
		} else {
			s.logger.Debug("read served", "entity", entity, "operation", operation)
		}
	case OutcomeConflict:
		s.logger.Info("delete blocked", "entity", entity, "error", err)
	case OutcomeError:
		s.logger.Error("operation failed", "entity", entity, "operation", operation, "error", err)
	default:
		s.logger.Debug("operation refused", "entity", entity, "operation", operation, "outcome", outcome, "error", err)
	}
	return err
}

func mutating(operation string) bool {
	return operation == "create" || operation == "update" || operation == "delete"
}

func (s *Service) commit(ctx context.Context, fn func(domain.Transaction) error) error {
	changes, err := s.store.RunInTransaction(ctx, fn)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}
	if err := s.publisher.Publish(ctx, changes); err != nil {
		// the transaction is already committed
		s.logger.Warn("publish changes failed", "changes", len(changes), "error", err)
	}
	return nil
}

// Resource is the CRUD surface for one entity type.
type Resource[T domain.Record] struct {
	svc  *Service
	desc *Descriptor[T]
}

func newResource[T domain.Record](svc *Service, desc *Descriptor[T]) *Resource[T] {
	return &Resource[T]{svc: svc, desc: desc}
}

// Descriptor returns the rules that govern the resource.
func (r *Resource[T]) Descriptor() *Descriptor[T] { return r.desc }

// List returns the shaped collection in basic form with the total match count.
func (r *Resource[T]) List(ctx context.Context, params query.Params) (query.Result[T], error) {
	var result query.Result[T]
	err := r.svc.run(ctx, r.desc.Entity, "list", func(ctx context.Context) error {
		return r.svc.store.View(ctx, func(v domain.TransactionView) error {
			records := v.List(r.desc.Entity)
			items := make([]T, 0, len(records))
			for _, rec := range records {
				items = append(items, rec.Basic().(T))
			}
			var err error
			result, err = query.Shape(items, r.desc.Query, params)
			return err
		})
	})
	return result, err
}

// Get returns the record with its navigations populated one level deep.
func (r *Resource[T]) Get(ctx context.Context, id int) (T, error) {
	return r.get(ctx, "get", id, true)
}

// GetBasic returns the record without navigations.
func (r *Resource[T]) GetBasic(ctx context.Context, id int) (T, error) {
	return r.get(ctx, "get_basic", id, false)
}

func (r *Resource[T]) get(ctx context.Context, operation string, id int, detail bool) (T, error) {
	var out T
	err := r.svc.run(ctx, r.desc.Entity, operation, func(ctx context.Context) error {
		return r.svc.store.View(ctx, func(v domain.TransactionView) error {
			rec, ok := v.Get(r.desc.Entity, id)
			if !ok {
				return domain.NotFoundError{Entity: r.desc.Entity, ID: id}
			}
			out = rec.Basic().(T)
			if detail {
				out = r.desc.Load(r.svc.registry.Oracle(v), out)
			}
			return nil
		})
	})
	return out, err
}

// Create validates the payload and inserts it under a store-assigned identity.
func (r *Resource[T]) Create(ctx context.Context, payload T) (T, error) {
	var created T
	err := r.svc.run(ctx, r.desc.Entity, "create", func(ctx context.Context) error {
		return r.svc.commit(ctx, func(tx domain.Transaction) error {
			if err := r.desc.Validate(r.svc.env(tx), payload, ModeCreate, 0); err != nil {
				return err
			}
			rec, err := tx.Insert(payload)
			if err != nil {
				return err
			}
			created = rec.(T)
			return nil
		})
	})
	return created, err
}

// Update replaces the record at id. The payload identity must be zero or equal to id.
func (r *Resource[T]) Update(ctx context.Context, id int, payload T) (T, error) {
	var updated T
	err := r.svc.run(ctx, r.desc.Entity, "update", func(ctx context.Context) error {
		return r.svc.commit(ctx, func(tx domain.Transaction) error {
			if _, ok := tx.Get(r.desc.Entity, id); !ok {
				return domain.NotFoundError{Entity: r.desc.Entity, ID: id}
			}
			if err := r.desc.Validate(r.svc.env(tx), payload, ModeUpdate, id); err != nil {
				return err
			}
			rec, err := tx.Replace(payload.WithIdentity(id))
			if err != nil {
				return err
			}
			updated = rec.(T)
			return nil
		})
	})
	return updated, err
}

// Delete removes the record unless another record still references it.
func (r *Resource[T]) Delete(ctx context.Context, id int) error {
	return r.svc.run(ctx, r.desc.Entity, "delete", func(ctx context.Context) error {
		return r.svc.commit(ctx, func(tx domain.Transaction) error {
			if _, ok := tx.Get(r.desc.Entity, id); !ok {
				return domain.NotFoundError{Entity: r.desc.Entity, ID: id}
			}
			if err := r.svc.registry.Oracle(tx).Guard(r.desc.Entity, id); err != nil {
				return err
			}
			return tx.Delete(r.desc.Entity, id)
		})
	})
}
