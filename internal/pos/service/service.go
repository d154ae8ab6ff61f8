package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"campuscoffee/internal/pos/metrics"
	"campuscoffee/internal/pos/models"
	"campuscoffee/internal/pos/store"
	id "campuscoffee/pkg/domain"
	dErrors "campuscoffee/pkg/domain-errors"
	"campuscoffee/pkg/requestcontext"
)

const (
	msgDuplicateName = "duplicate name"
	msgNotFound      = "pos not found"
)

// Store is the persistence contract for POS records. Implementations return
// store.ErrNotFound and store.ErrConflict (optionally wrapped); anything else
// is treated as a storage failure.
type Store interface {
	CreateIfNameAvailable(ctx context.Context, p *models.Pos) error
	FindByID(ctx context.Context, posID id.PosID) (*models.Pos, error)
	FindByName(ctx context.Context, name string) (*models.Pos, error)
	ListAll(ctx context.Context) ([]*models.Pos, error)
	Update(ctx context.Context, p *models.Pos) error
	DeleteAll(ctx context.Context) error
}

// Service owns the POS business rules: validation, name uniqueness, id and
// timestamp stamping, and translation of store failures into domain errors.
// It holds no locks; the store's uniqueness constraint settles races.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service.
func New(st Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer("campuscoffee/pos"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and stores a new POS. The returned record carries the
// assigned id and timestamps.
func (s *Service) Create(ctx context.Context, in models.CreatePos) (_ *models.Pos, err error) {
	ctx, end := s.begin(ctx, "create")
	defer func() { end(err) }()

	p, err := models.NewPos(in, s.now(ctx))
	if err != nil {
		return nil, err
	}

	if _, err := s.store.FindByName(ctx, p.Name); err == nil {
		s.metrics.IncrementConflict("create")
		return nil, dErrors.NewFields(dErrors.CodeConflict, msgDuplicateName, "name")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, s.storageFailure(ctx, "create", err, "failed to check pos name")
	}

	if err := s.store.CreateIfNameAvailable(ctx, p); err != nil {
		if errors.Is(err, store.ErrConflict) {
			s.metrics.IncrementConflict("create")
			return nil, dErrors.NewFields(dErrors.CodeConflict, msgDuplicateName, "name")
		}
		return nil, s.storageFailure(ctx, "create", err, "failed to create pos")
	}

	s.logger.InfoContext(ctx, "pos created",
		"request_id", requestcontext.RequestID(ctx),
		"pos_id", p.ID,
		"name", p.Name,
	)
	s.metrics.IncrementCreated()
	return p, nil
}

// GetByID returns the POS with the given id.
func (s *Service) GetByID(ctx context.Context, posID id.PosID) (_ *models.Pos, err error) {
	ctx, end := s.begin(ctx, "get")
	defer func() { end(err) }()

	p, err := s.store.FindByID(ctx, posID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, msgNotFound)
		}
		return nil, s.storageFailure(ctx, "get", err, "failed to load pos")
	}
	return p, nil
}

// List returns every POS in insertion order. The result is never nil.
func (s *Service) List(ctx context.Context) (_ []*models.Pos, err error) {
	ctx, end := s.begin(ctx, "list")
	defer func() { end(err) }()

	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, s.storageFailure(ctx, "list", err, "failed to list pos")
	}
	if all == nil {
		all = []*models.Pos{}
	}
	return all, nil
}

// FilterByName returns the POS whose name matches exactly.
func (s *Service) FilterByName(ctx context.Context, name string) (_ *models.Pos, err error) {
	ctx, end := s.begin(ctx, "filter_by_name")
	defer func() { end(err) }()

	if strings.TrimSpace(name) == "" {
		return nil, dErrors.NewFields(dErrors.CodeValidation, "name is required", "name")
	}

	p, err := s.store.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, msgNotFound)
		}
		return nil, s.storageFailure(ctx, "filter_by_name", err, "failed to load pos")
	}
	return p, nil
}

// Update merges u onto the stored record, re-validates it and persists the
// result. The id and CreatedAt never change; UpdatedAt always moves forward.
func (s *Service) Update(ctx context.Context, posID id.PosID, u models.PosUpdate) (_ *models.Pos, err error) {
	ctx, end := s.begin(ctx, "update")
	defer func() { end(err) }()

	current, err := s.store.FindByID(ctx, posID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, msgNotFound)
		}
		return nil, s.storageFailure(ctx, "update", err, "failed to load pos")
	}

	merged := current.Clone()
	u.ApplyTo(merged)
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	if u.RenamesFrom(current) {
		other, err := s.store.FindByName(ctx, merged.Name)
		switch {
		case err == nil && other.ID != posID:
			s.metrics.IncrementConflict("update")
			return nil, dErrors.NewFields(dErrors.CodeConflict, msgDuplicateName, "name")
		case err != nil && !errors.Is(err, store.ErrNotFound):
			return nil, s.storageFailure(ctx, "update", err, "failed to check pos name")
		}
	}

	merged.UpdatedAt = nextUpdatedAt(s.now(ctx), current.UpdatedAt)

	if err := s.store.Update(ctx, merged); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			s.metrics.IncrementConflict("update")
			return nil, dErrors.NewFields(dErrors.CodeConflict, msgDuplicateName, "name")
		case errors.Is(err, store.ErrNotFound):
			// Removed between the read and the write, e.g. by a concurrent clear.
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "pos disappeared during update")
		default:
			return nil, s.storageFailure(ctx, "update", err, "failed to update pos")
		}
	}

	s.logger.InfoContext(ctx, "pos updated",
		"request_id", requestcontext.RequestID(ctx),
		"pos_id", merged.ID,
		"renamed", u.RenamesFrom(current),
	)
	s.metrics.IncrementUpdated()
	return merged, nil
}

// Clear removes every POS. Ids handed out before the clear are never reused.
func (s *Service) Clear(ctx context.Context) (err error) {
	ctx, end := s.begin(ctx, "clear")
	defer func() { end(err) }()

	if err := s.store.DeleteAll(ctx); err != nil {
		return s.storageFailure(ctx, "clear", err, "failed to clear pos")
	}
	s.logger.WarnContext(ctx, "all pos cleared",
		"request_id", requestcontext.RequestID(ctx),
	)
	s.metrics.IncrementCleared()
	return nil
}

// storageFailure translates a store error the service has no rule for. A
// store that timed out or could not be reached is CodeTimeout; anything else
// is CodeInternal with msg.
func (s *Service) storageFailure(ctx context.Context, operation string, err error, msg string) error {
	if errors.Is(err, store.ErrUnavailable) {
		s.metrics.IncrementStoreUnavailable(operation)
		s.logger.WarnContext(ctx, "pos store unavailable",
			"request_id", requestcontext.RequestID(ctx),
			"operation", operation,
			"error", err.Error(),
		)
		return dErrors.Wrap(err, dErrors.CodeTimeout, "storage unavailable")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

// begin opens a span and starts the operation timer. The returned func ends
// both and records err on the span.
func (s *Service) begin(ctx context.Context, operation string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "pos."+operation,
		trace.WithAttributes(attribute.String("pos.operation", operation)))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		s.metrics.ObserveOperation(operation, start)
	}
}

// now is the request clock at the precision PostgreSQL stores.
func (s *Service) now(ctx context.Context) time.Time {
	return requestcontext.Now(ctx).UTC().Truncate(time.Microsecond)
}

func nextUpdatedAt(now, previous time.Time) time.Time {
	if now.After(previous) {
		return now
	}
	return previous.Add(time.Microsecond)
}
