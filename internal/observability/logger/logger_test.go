package logger

import (
	"context"
	"testing"

	"github.com/smallbiznis/taxengine/pkg/telemetry/correlation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextAddsCorrelationID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := correlation.WithID(context.Background(), "op-42")

	WithDocument(WithContext(ctx, zap.New(core)), " SH-1-01HX ", "web").Info("committed")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "op-42", fields[correlation.Field])
	assert.Equal(t, "SH-1-01HX", fields["document_id"])
	assert.Equal(t, "web", fields["store_code"])
}

func TestWithContextOmitsMissingCorrelationID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	WithContext(context.Background(), zap.New(core)).Info("no id")

	require.Equal(t, 1, logs.Len())
	assert.NotContains(t, logs.All()[0].ContextMap(), correlation.Field)
	assert.Nil(t, WithDocument(nil, "doc", "web"))
}
