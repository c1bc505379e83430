package tracing

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewFileExporter_CreatesParentDirectories(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "nested", "dir", "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)
	defer exporter.Shutdown(context.Background())

	require.FileExists(t, tracePath)
}

func TestFileExporter_WritesValidJSONL(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	start := time.Now()
	stub := tracetest.SpanStub{
		Name:      SpanDiscover,
		StartTime: start,
		EndTime:   start.Add(5 * time.Millisecond),
		Status:    sdktrace.Status{Code: codes.Error, Description: "reserved identifier missing"},
		Attributes: []attribute.KeyValue{
			attribute.Int(AttrRegistrySize, 3),
			attribute.Int(AttrResultSize, 2),
		},
	}

	err = exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()})
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))

	file, err := os.Open(tracePath)
	require.NoError(t, err)
	defer file.Close()

	var record SpanRecord
	require.NoError(t, json.NewDecoder(file).Decode(&record), "should be valid JSON")

	require.Equal(t, SpanDiscover, record.Name)
	require.Equal(t, "ERROR", record.Status)
	require.Equal(t, "reserved identifier missing", record.StatusMsg)
	require.InDelta(t, 5.0, record.DurationMs, 0.001)
	require.EqualValues(t, 3, record.Attributes[AttrRegistrySize])
	require.EqualValues(t, 2, record.Attributes[AttrResultSize])
}

func TestFileExporter_ExportEmptySpans(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)
	defer exporter.Shutdown(context.Background())

	require.NoError(t, exporter.ExportSpans(context.Background(), nil))

	info, err := os.Stat(tracePath)
	require.NoError(t, err)
	require.Zero(t, info.Size())
}

func TestFileExporter_ExportAfterShutdown(t *testing.T) {
	exporter, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()), "second shutdown is a no-op")

	stub := tracetest.SpanStub{Name: SpanBuildOptions}
	err = exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()})
	require.Error(t, err)
}
