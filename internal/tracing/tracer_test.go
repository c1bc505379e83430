package tracing

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.False(t, cfg.Enabled, "tracing should be disabled by default")
	require.Equal(t, "file", cfg.Exporter)
	require.Equal(t, "", cfg.FilePath)
	require.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	require.Equal(t, 1.0, cfg.SampleRate)
	require.Equal(t, "invsources", cfg.ServiceName)
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: false})
	require.NoError(t, err)
	require.False(t, provider.Enabled())

	ctx, span := provider.Tracer().Start(context.Background(), SpanDiscover)
	require.NotNil(t, ctx)
	require.False(t, span.SpanContext().IsValid(), "no-op spans carry no context")
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_Enabled_WithFileExporter(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	provider, err := NewProvider(Config{
		Enabled:     true,
		Exporter:    "file",
		FilePath:    tracePath,
		SampleRate:  1.0,
		ServiceName: "test-service",
	})
	require.NoError(t, err)
	require.True(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), SpanBuildSources)
	require.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
	require.FileExists(t, tracePath)
}

func TestNewProvider_Enabled_WithNoExporter(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: true, Exporter: "none"})
	require.NoError(t, err)
	defer provider.Shutdown(context.Background())

	_, span := provider.Tracer().Start(context.Background(), SpanBuildOptions)
	require.True(t, span.SpanContext().IsValid(), "spans are real even without an exporter")
	span.End()
}

func TestNewProvider_FileExporter_MissingPath(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "file"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "file_path required")
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "zipkin"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported exporter type: zipkin")
}

func TestProvider_ChildSpansShareTraceID(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: true, Exporter: "none"})
	require.NoError(t, err)
	defer provider.Shutdown(context.Background())

	tracer := provider.Tracer()
	ctx, parent := tracer.Start(context.Background(), SpanBuildOptions)
	_, child := tracer.Start(ctx, SpanBuildSources)

	require.Equal(t, parent.SpanContext().TraceID(), child.SpanContext().TraceID())

	child.End()
	parent.End()
}
