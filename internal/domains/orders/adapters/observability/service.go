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

	"github.com/Dostonlv/uLab3/internal/domains/orders/domain"
	"github.com/Dostonlv/uLab3/internal/domains/orders/ports"
)

const tracerName = "github.com/Dostonlv/uLab3/internal/domains/orders/adapters/observability/service"

// Service decorates the orders application port with tracing, logging,
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

func (s *Service) Create(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Create")
	defer span.End()

	result, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order")
	}
	s.metrics.recordCreated(ctx, string(result.PaymentMethod))
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order created",
		slog.String("order.id", result.ID.Hex()),
		slog.String("order.payment_method", string(result.PaymentMethod)),
		slog.Int("order.products", len(result.ProductIDs)))
	return result, nil
}

func (s *Service) List(ctx context.Context, query ports.ListQuery) (*ports.OrderPage, error) {
	ctx, span := s.tracer.Start(ctx, "Service.List", trace.WithAttributes(
		attribute.String("order.payment_method", query.PaymentMethod),
	))
	defer span.End()

	result, err := s.inner.List(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int64("order.result.total", result.Pagination.Total))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (*ports.Resolved, error) {
	ctx, span := s.tracer.Start(ctx, "Service.GetByID", trace.WithAttributes(
		attribute.String("order.id", rawID),
	))
	defer span.End()

	result, err := s.inner.GetByID(ctx, rawID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get order", slog.String("order.id", rawID))
	}
	return result, nil
}

func (s *Service) Update(ctx context.Context, input ports.UpdateOrderInput) (*ports.Resolved, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Update", trace.WithAttributes(
		attribute.String("order.id", input.ID),
	))
	defer span.End()

	result, err := s.inner.Update(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.String("order.id", input.ID))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order updated", slog.String("order.id", input.ID))
	return result, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Delete", trace.WithAttributes(
		attribute.String("order.id", rawID),
	))
	defer span.End()

	result, err := s.inner.Delete(ctx, rawID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to delete order", slog.String("order.id", rawID))
	}
	s.metrics.recordDeleted(ctx)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order deleted", slog.String("order.id", rawID))
	return result, nil
}

func (s *Service) Report(ctx context.Context, startDate, endDate string) (*ports.PaymentReport, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Report", trace.WithAttributes(
		attribute.String("report.start_date", startDate),
		attribute.String("report.end_date", endDate),
	))
	defer span.End()

	result, err := s.inner.Report(ctx, startDate, endDate)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to build payment report")
	}
	s.metrics.recordReport(ctx)
	span.SetAttributes(attribute.Int("report.groups", len(result.Data)))
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
	created, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	deleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders deleted"))
	reports, _ := m.Int64Counter("orders.service.reports", metric.WithDescription("Number of payment reports built"))
	return serviceMetrics{created: created, deleted: deleted, reports: reports}
}

func (m serviceMetrics) recordCreated(ctx context.Context, paymentMethod string) {
	if m.created == nil {
		return
	}
	m.created.Add(ctx, 1, metric.WithAttributes(attribute.String("order.payment_method", paymentMethod)))
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
