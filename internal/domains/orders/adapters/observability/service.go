package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	identity "github.com/nexyn/foods-api/internal/domains/identity/domain"
	ordertypes "github.com/nexyn/foods-api/internal/domains/orders/application/types"
	"github.com/nexyn/foods-api/internal/domains/orders/domain"
	"github.com/nexyn/foods-api/internal/domains/orders/ports"
)

const tracerName = "github.com/nexyn/foods-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders application port with tracing, logging, and
// metrics. Purchase outcomes are counted per result so capacity rejections
// are visible next to commits.
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

// Purchase runs the purchase workflow with instrumentation.
func (s *Service) Purchase(ctx context.Context, actor identity.Principal, input ordertypes.PurchaseInput) (*ordertypes.PurchaseResult, error) {
	ctx, span := s.startSpan(ctx, "Service.Purchase",
		attribute.String("food.id", input.FoodID),
		attribute.Int("purchase.quantity", input.Quantity),
	)
	defer span.End()

	result, err := s.inner.Purchase(ctx, actor, input)
	if err != nil {
		s.metrics.recordPurchase(ctx, purchaseOutcome(err))
		return nil, s.handleError(ctx, span, err, "purchase failed", slog.String("food.id", input.FoodID))
	}
	s.metrics.recordPurchase(ctx, "committed")
	s.logInfo(ctx, "purchase committed",
		slog.String("order.id", result.Order.ID),
		slog.String("food.id", result.Order.FoodID),
		slog.Int("purchase.quantity", result.Order.Quantity),
		slog.Int("stock.remaining", result.RemainingQuantity),
	)
	return result, nil
}

func (s *Service) ListByBuyer(ctx context.Context, actor identity.Principal, buyer string) ([]*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.ListByBuyer")
	defer span.End()

	result, err := s.inner.ListByBuyer(ctx, actor, buyer)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, nil
}

func (s *Service) Cancel(ctx context.Context, actor identity.Principal, id string) error {
	ctx, span := s.startSpan(ctx, "Service.Cancel", attribute.String("order.id", id))
	defer span.End()

	if err := s.inner.Cancel(ctx, actor, id); err != nil {
		return s.handleError(ctx, span, err, "failed to cancel order", slog.String("order.id", id))
	}
	s.metrics.recordCancelled(ctx)
	s.logInfo(ctx, "order cancelled", slog.String("order.id", id))
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

func purchaseOutcome(err error) string {
	switch {
	case errors.Is(err, ports.ErrInsufficientStock):
		return "capacity_exceeded"
	case errors.Is(err, ports.ErrListingNotFound):
		return "not_found"
	default:
		return "rejected"
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	purchases       metric.Int64Counter
	ordersCancelled metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	purchases, _ := m.Int64Counter("orders.service.purchases", metric.WithDescription("Number of purchase attempts by outcome"))
	ordersCancelled, _ := m.Int64Counter("orders.service.cancelled", metric.WithDescription("Number of orders cancelled"))
	return serviceMetrics{
		purchases:       purchases,
		ordersCancelled: ordersCancelled,
	}
}

func (m serviceMetrics) recordPurchase(ctx context.Context, outcome string) {
	addCounter(ctx, m.purchases, 1, attribute.String("purchase.outcome", outcome))
}

func (m serviceMetrics) recordCancelled(ctx context.Context) {
	addCounter(ctx, m.ordersCancelled, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
