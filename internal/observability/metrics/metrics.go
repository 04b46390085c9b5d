package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	calculations    metric.Int64Counter
	journalEntries  metric.Int64Counter
	reversalSkipped metric.Int64Counter
	apportionments  metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "taxengine"
	}
	meter := provider.Meter(name)

	calculations, err := meter.Int64Counter("taxengine_tax_calculations_total")
	if err != nil {
		return nil, err
	}
	journalEntries, err := meter.Int64Counter("taxengine_tax_journal_entries_total")
	if err != nil {
		return nil, err
	}
	reversalSkipped, err := meter.Int64Counter("taxengine_tax_reversals_skipped_total")
	if err != nil {
		return nil, err
	}
	apportionments, err := meter.Int64Counter("taxengine_discount_apportionments_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		calculations:    calculations,
		journalEntries:  journalEntries,
		reversalSkipped: reversalSkipped,
		apportionments:  apportionments,
	}, nil
}

// NewNoop returns instruments backed by a no-op provider, for tests and embedded use.
func NewNoop() *Metrics {
	m, _ := New(Config{}, noop.NewMeterProvider())
	return m
}

// RecordCalculation counts a tax calculation by provider, transaction type and outcome.
func (m *Metrics) RecordCalculation(ctx context.Context, provider, transactionType string, err error) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("provider", strings.TrimSpace(provider)),
		attribute.String("transaction_type", strings.TrimSpace(transactionType)),
		attribute.String("status", status(err)),
	)
	m.calculations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordJournalEntry counts one committed journal entry.
func (m *Metrics) RecordJournalEntry(ctx context.Context, journalType, transactionType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("journal_type", strings.TrimSpace(journalType)),
		attribute.String("transaction_type", strings.TrimSpace(transactionType)),
	)
	m.journalEntries.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordReversalSkipped counts reversals that had nothing to reverse.
func (m *Metrics) RecordReversalSkipped(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.reversalSkipped.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordApportionment(ctx context.Context, err error) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("status", status(err)))
	m.apportionments.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"provider":         {},
	"transaction_type": {},
	"journal_type":     {},
	"status":           {},
	"reason":           {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
