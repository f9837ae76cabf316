package main

import (
	"context"
	"testing"
	"time"

	"macro-snapshot/internal/aggregator"
	"macro-snapshot/internal/config"
	"macro-snapshot/internal/domain"
	"macro-snapshot/internal/writer"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainRunsPipeline(t *testing.T) {
	var built, written bool
	restore := stubPipelineDeps(t, &built, &written, nil)
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}

	if !built {
		t.Error("expected snapshot to be built")
	}
	if !written {
		t.Error("expected snapshot to be written")
	}
}

func TestMainExitsOnWriteFailure(t *testing.T) {
	var built, written bool
	var exited bool
	restore := stubPipelineDeps(t, &built, &written, func(format string, v ...interface{}) {
		exited = true
	})
	defer restore()

	writeSnapshotFunc = func(w *writer.FileWriter, snap domain.Snapshot) error {
		return context.DeadlineExceeded
	}

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}

	if !exited {
		t.Error("expected a fatal exit on write failure")
	}
}

func stubPipelineDeps(t *testing.T, built, written *bool, exit func(string, ...interface{})) func() {
	t.Helper()

	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitTracer := initTracerFunc
	origBuild := buildSnapshot
	origWrite := writeSnapshotFunc
	origExit := exitFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			SnapshotPath:    t.TempDir() + "/snapshot.json",
			EconSeriesLimit: 10,
			HistoryMonths:   6,
			HistoryDays:     30,
			HTTPTimeoutSecs: 1,
			RunTimeoutSecs:  2,
		}
	}
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	buildSnapshot = func(a *aggregator.Aggregator, ctx context.Context, now time.Time) domain.Snapshot {
		*built = true
		return domain.Snapshot{
			FetchedAt: now.UTC(),
			Sources:   map[string]string{domain.MetricBTC: domain.ProviderFallback},
		}
	}
	writeSnapshotFunc = func(w *writer.FileWriter, snap domain.Snapshot) error {
		*written = true
		return nil
	}
	if exit != nil {
		exitFunc = exit
	}

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initTracerFunc = origInitTracer
		buildSnapshot = origBuild
		writeSnapshotFunc = origWrite
		exitFunc = origExit
	}
}
