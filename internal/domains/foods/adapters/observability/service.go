package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	foodtypes "github.com/nexyn/foods-api/internal/domains/foods/application/types"
	"github.com/nexyn/foods-api/internal/domains/foods/domain"
	"github.com/nexyn/foods-api/internal/domains/foods/ports"
	identity "github.com/nexyn/foods-api/internal/domains/identity/domain"
)

const tracerName = "github.com/nexyn/foods-api/internal/domains/foods/adapters/observability/service"

// Service decorates the foods application port with tracing, logging, and
// metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// Create lists a food item with instrumentation.
func (s *Service) Create(ctx context.Context, actor identity.Principal, input foodtypes.CreateFoodInput) (*domain.Food, error) {
	ctx, span := s.startSpan(ctx, "Service.Create", attribute.String("food.name", input.Name))
	defer span.End()

	result, err := s.inner.Create(ctx, actor, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create food item", slog.String("food.name", input.Name))
	}
	s.metrics.recordCreated(ctx, result.Category)
	s.logInfo(ctx, "food item created", slog.String("food.id", result.ID), slog.String("food.owner", result.Owner))
	return result, nil
}

func (s *Service) List(ctx context.Context, input foodtypes.ListFoodsInput) ([]*domain.Food, error) {
	ctx, span := s.startSpan(ctx, "Service.List", attribute.String("sort.field", input.SortField))
	defer span.End()

	result, err := s.inner.List(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list food items")
	}
	span.SetAttributes(attribute.Int("food.result.count", len(result)))
	return result, nil
}

func (s *Service) Top(ctx context.Context, limit int) ([]*domain.Food, error) {
	ctx, span := s.startSpan(ctx, "Service.Top", attribute.Int("limit", limit))
	defer span.End()

	result, err := s.inner.Top(ctx, limit)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load top food items")
	}
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Food, error) {
	ctx, span := s.startSpan(ctx, "Service.GetByID", attribute.String("food.id", id))
	defer span.End()

	result, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load food item", slog.String("food.id", id))
	}
	return result, nil
}

func (s *Service) ListByOwner(ctx context.Context, actor identity.Principal, owner string) ([]*domain.Food, error) {
	ctx, span := s.startSpan(ctx, "Service.ListByOwner")
	defer span.End()

	result, err := s.inner.ListByOwner(ctx, actor, owner)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list owner food items")
	}
	span.SetAttributes(attribute.Int("food.result.count", len(result)))
	return result, nil
}

func (s *Service) Update(ctx context.Context, actor identity.Principal, id string, input foodtypes.UpdateFoodInput) (*domain.Food, error) {
	ctx, span := s.startSpan(ctx, "Service.Update", attribute.String("food.id", id))
	defer span.End()

	result, err := s.inner.Update(ctx, actor, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update food item", slog.String("food.id", id))
	}
	s.metrics.recordUpdated(ctx)
	s.logInfo(ctx, "food item updated", slog.String("food.id", result.ID))
	return result, nil
}

func (s *Service) Delete(ctx context.Context, actor identity.Principal, id string) error {
	ctx, span := s.startSpan(ctx, "Service.Delete", attribute.String("food.id", id))
	defer span.End()

	if err := s.inner.Delete(ctx, actor, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete food item", slog.String("food.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "food item deleted", slog.String("food.id", id))
	return nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	foodsCreated metric.Int64Counter
	foodsUpdated metric.Int64Counter
	foodsDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	foodsCreated, _ := m.Int64Counter("foods.service.created", metric.WithDescription("Number of food items listed"))
	foodsUpdated, _ := m.Int64Counter("foods.service.updated", metric.WithDescription("Number of food items updated"))
	foodsDeleted, _ := m.Int64Counter("foods.service.deleted", metric.WithDescription("Number of food items deleted"))
	return serviceMetrics{
		foodsCreated: foodsCreated,
		foodsUpdated: foodsUpdated,
		foodsDeleted: foodsDeleted,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, category string) {
	addCounter(ctx, m.foodsCreated, 1, attribute.String("food.category", category))
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	addCounter(ctx, m.foodsUpdated, 1)
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.foodsDeleted, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
