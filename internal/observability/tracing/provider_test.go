package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProviderDisabled(t *testing.T) {
	tp, err := NewProvider(nil, Config{ServiceName: "taxengine-test"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "noop")
	defer span.End()
	assert.False(t, span.SpanContext().IsSampled())
}

func TestNewExporterRejectsUnknownProtocol(t *testing.T) {
	_, err := newExporter(context.Background(), "carrier-pigeon", "")
	assert.Error(t, err)
}
