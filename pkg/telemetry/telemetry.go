package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/taxengine/pkg/telemetry/correlation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

// Module wires the prometheus registry and tax metrics via Fx.
var Module = fx.Options(
	fx.Provide(NewRegistry),
	fx.Provide(func(reg *prometheus.Registry) prometheus.Registerer { return reg }),
	fx.Provide(NewMetrics),
)

// NewRegistry returns the registry holding tax metrics. Runtime, process and
// gorm pool collectors stay on the default registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// NewCorrelationSpanProcessor tags spans started under a seeded context with its correlation id.
func NewCorrelationSpanProcessor() trace.SpanProcessor {
	return &correlationSpanProcessor{}
}

type correlationSpanProcessor struct{}

func (p *correlationSpanProcessor) OnStart(ctx context.Context, s trace.ReadWriteSpan) {
	if id := correlation.ID(ctx); id != "" {
		s.SetAttributes(attribute.String(correlation.Field, id))
	}
}

func (p *correlationSpanProcessor) OnEnd(trace.ReadOnlySpan) {}

func (p *correlationSpanProcessor) Shutdown(context.Context) error { return nil }

func (p *correlationSpanProcessor) ForceFlush(context.Context) error { return nil }
