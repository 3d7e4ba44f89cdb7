package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.False(t, cfg.Enabled, "tracing should be disabled by default")
	require.Equal(t, "file", cfg.Exporter, "default exporter should be file")
	require.Equal(t, "", cfg.FilePath, "file path should be empty by default")
	require.Equal(t, "localhost:4317", cfg.OTLPEndpoint, "default OTLP endpoint")
	require.Equal(t, 1.0, cfg.SampleRate, "default sample rate should be 1.0")
	require.Equal(t, "gantry", cfg.ServiceName, "default service name")
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, provider)
	require.False(t, provider.Enabled())

	tracer := provider.Tracer()
	require.NotNil(t, tracer)

	ctx, span := tracer.Start(context.Background(), SpanLoad)
	require.NotNil(t, ctx)
	require.NotNil(t, span)
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
		ServiceName: "gantry-test",
	})
	require.NoError(t, err)
	require.True(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), SpanBoard)
	sc := span.SpanContext()
	require.True(t, sc.IsValid(), "span context should be valid")
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))

	_, err = os.Stat(tracePath)
	require.NoError(t, err, "trace file should exist")
}

func TestNewProvider_Enabled_WithNoneExporter(t *testing.T) {
	provider, err := NewProvider(Config{
		Enabled:    true,
		Exporter:   "none",
		SampleRate: 1.0,
	})
	require.NoError(t, err)
	require.True(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), SpanSave)
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_FileExporterRequiresPath(t *testing.T) {
	_, err := NewProvider(Config{
		Enabled:  true,
		Exporter: "file",
	})

	require.Error(t, err)
	require.Contains(t, err.Error(), "file_path")
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	_, err := NewProvider(Config{
		Enabled:  true,
		Exporter: "carrier-pigeon",
	})

	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported exporter")
}

func TestFileExporter_WritesSpanRecords(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces", "traces.jsonl")

	provider, err := NewProvider(Config{
		Enabled:     true,
		Exporter:    "file",
		FilePath:    tracePath,
		SampleRate:  1.0,
		ServiceName: "gantry-test",
	})
	require.NoError(t, err)

	ctx, span := provider.Tracer().Start(context.Background(), SpanLoadJob)
	span.SetAttributes(attribute.String(AttrFilePath, "/jobs/main.job.yaml"))
	span.SetStatus(codes.Error, "board file not found")
	span.End()
	_ = ctx

	require.NoError(t, provider.Shutdown(context.Background()))

	file, err := os.Open(tracePath)
	require.NoError(t, err)
	defer file.Close()

	scanner := bufio.NewScanner(file)
	require.True(t, scanner.Scan(), "expected at least one span record")

	var record SpanRecord
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
	require.Equal(t, SpanLoadJob, record.Name)
	require.Equal(t, "ERROR", record.Status)
	require.Equal(t, "board file not found", record.StatusMsg)
	require.Equal(t, "/jobs/main.job.yaml", record.Attributes[AttrFilePath])
	require.NotEmpty(t, record.TraceID)
	require.NotEmpty(t, record.SpanID)
}

func TestFileExporter_ShutdownIdempotent(t *testing.T) {
	exporter, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
	require.NoError(t, err)

	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()))
}
