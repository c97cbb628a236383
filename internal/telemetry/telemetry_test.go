package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/nadermx/heroesandmore-client/internal/config"
)

func TestSetup_NoEndpointIsNoop(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{ServiceName: "ham"}, "test")
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.NotNil(t, p.TracerProvider)
	assert.NotNil(t, p.MeterProvider)
	assert.NoError(t, p.Shutdown(context.Background()))

	_, span := p.TracerProvider.Tracer("x").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
}

func TestSetup_WithEndpoint(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{
		Endpoint:    "127.0.0.1:4317",
		ServiceName: "ham",
		Insecure:    true,
	}, "test")
	require.NoError(t, err)

	assert.True(t, p.Enabled())
	assert.IsType(t, &sdktrace.TracerProvider{}, p.TracerProvider)
	assert.IsType(t, &sdkmetric.MeterProvider{}, p.MeterProvider)
	assert.Same(t, p.TracerProvider, otel.GetTracerProvider())

	_, span := p.TracerProvider.Tracer("x").Start(context.Background(), "real")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	// Nothing listens on the endpoint, so the final flush may fail; it
	// must still return once the context expires.
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_ = p.Shutdown(ctx)
}
