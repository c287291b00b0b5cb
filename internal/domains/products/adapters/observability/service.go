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

	"github.com/Dostonlv/uLab3/internal/domains/products/domain"
	"github.com/Dostonlv/uLab3/internal/domains/products/ports"
)

const tracerName = "github.com/Dostonlv/uLab3/internal/domains/products/adapters/observability/service"

// Service decorates the products application port with tracing, logging,
// and metrics.
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
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Create(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Create", trace.WithAttributes(
		attribute.String("product.category", input.Category),
	))
	defer span.End()

	result, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("product.name", input.Name))
	}
	s.metrics.recordCreated(ctx, result.Category)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "product created",
		slog.String("product.id", result.ID.Hex()), slog.String("product.category", result.Category))
	return result, nil
}

func (s *Service) List(ctx context.Context, query ports.ListQuery) ([]*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "Service.List", trace.WithAttributes(
		attribute.String("product.search", query.Search),
		attribute.String("product.category", query.Category),
	))
	defer span.End()

	result, err := s.inner.List(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("product.result.count", len(result)))
	return result, nil
}

func (s *Service) Update(ctx context.Context, input ports.UpdateProductInput) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Update", trace.WithAttributes(
		attribute.String("product.id", input.ID),
	))
	defer span.End()

	result, err := s.inner.Update(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.String("product.id", input.ID))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "product updated", slog.String("product.id", input.ID))
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Delete", trace.WithAttributes(
		attribute.String("product.id", id),
	))
	defer span.End()

	result, err := s.inner.Delete(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to delete product", slog.String("product.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "product deleted", slog.String("product.id", id))
	return result, nil
}

func (s *Service) Report(ctx context.Context, startDate, endDate string) (*ports.CategoryReport, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Report", trace.WithAttributes(
		attribute.String("report.start_date", startDate),
		attribute.String("report.end_date", endDate),
	))
	defer span.End()

	result, err := s.inner.Report(ctx, startDate, endDate)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to build product report")
	}
	s.metrics.recordReport(ctx)
	span.SetAttributes(attribute.Int("report.categories", len(result.CategoryBreakdown)))
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

type serviceMetrics struct {
	created metric.Int64Counter
	deleted metric.Int64Counter
	reports metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("products.service.created", metric.WithDescription("Number of products created"))
	deleted, _ := m.Int64Counter("products.service.deleted", metric.WithDescription("Number of products deleted"))
	reports, _ := m.Int64Counter("products.service.reports", metric.WithDescription("Number of category reports built"))
	return serviceMetrics{created: created, deleted: deleted, reports: reports}
}

func (m serviceMetrics) recordCreated(ctx context.Context, category string) {
	if m.created == nil {
		return
	}
	m.created.Add(ctx, 1, metric.WithAttributes(attribute.String("product.category", category)))
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.deleted == nil {
		return
	}
	m.deleted.Add(ctx, 1)
}

func (m serviceMetrics) recordReport(ctx context.Context) {
	if m.reports == nil {
		return
	}
	m.reports.Add(ctx, 1)
}

var _ ports.Service = (*Service)(nil)
