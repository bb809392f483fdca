// Package cli implements the annexvii command line: configuration wiring,
// the cobra command tree and its output formatting.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"annexvii/internal/blob"
	"annexvii/internal/config"
	"annexvii/internal/core"
	"annexvii/internal/payload"
	"annexvii/internal/referencedata"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// App is the wired runtime a command operates on.
type App struct {
	Service *core.Service
	Decoder *payload.Decoder
	Logger  *slog.Logger
	// Registry holds the operation collectors when metrics are "prometheus".
	Registry *prometheus.Registry

	closers []func() error
}

// Opener builds the App for one command invocation.
type Opener func(ctx context.Context) (*App, error)

// EnvOpener loads configuration from the environment and logs to stderr.
func EnvOpener(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return Open(ctx, *cfg, os.Stderr)
}

// Open wires storage, the archive, reference data and observability from cfg.
// Logs are written to logOut.
func Open(ctx context.Context, cfg config.Config, logOut io.Writer) (*App, error) {
	logger, err := NewLogger(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}
	app := &App{Logger: logger}

	decoder, err := payload.NewDecoder()
	if err != nil {
		return nil, err
	}
	app.Decoder = decoder

	repo, err := core.OpenRepository(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	app.closers = append(app.closers, repo.Close)

	archive, err := blob.Open(ctx, cfg.Blob)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("open archive: %w", err)
	}

	var refData referencedata.Provider = referencedata.Empty()
	if cfg.ReferenceDataPath != "" {
		data, err := referencedata.Load(cfg.ReferenceDataPath)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		refData = data
	}

	opts := []core.ServiceOption{
		core.WithLogger(logger),
		core.WithAuditRecorder(core.NewSlogAuditRecorder(logger)),
		core.WithArchive(archive),
		core.WithReferenceData(refData),
		core.WithValidationWorkers(cfg.ValidationWorkers),
	}
	metrics, err := app.metrics(cfg.Metrics)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if metrics != nil {
		opts = append(opts, core.WithMetricsRecorder(metrics))
	}
	tracer, err := app.tracer(cfg.Tracing, cfg.TracePath, logOut)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if tracer != nil {
		opts = append(opts, core.WithTracer(tracer))
	}

	app.Service = core.NewService(repo, opts...)
	logger.Debug("annexvii ready",
		"storage", cfg.Storage.Driver,
		"blob", cfg.Blob.Driver,
		"metrics", cfg.Metrics,
		"tracing", cfg.Tracing,
	)
	return app, nil
}

func (a *App) metrics(kind string) (core.MetricsRecorder, error) {
	switch strings.ToLower(kind) {
	case "", "none":
		return nil, nil
	case "expvar":
		return core.NewExpvarRecorder(""), nil
	case "prometheus":
		a.Registry = prometheus.NewRegistry()
		return core.NewPrometheusRecorder(a.Registry)
	}
	return nil, fmt.Errorf("unknown metrics recorder %q", kind)
}

func (a *App) tracer(kind, path string, fallback io.Writer) (core.Tracer, error) {
	switch strings.ToLower(kind) {
	case "", "none":
		return nil, nil
	case "jsonl":
		if path == "" {
			return core.NewJSONLinesTracer(fallback), nil
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open trace file: %w", err)
		}
		a.closers = append(a.closers, f.Close)
		return core.NewJSONLinesTracer(f), nil
	case "otel":
		provider := sdktrace.NewTracerProvider()
		otel.SetTracerProvider(provider)
		a.closers = append(a.closers, func() error { return provider.Shutdown(context.Background()) })
		return core.NewOTelTracer(provider), nil
	}
	return nil, fmt.Errorf("unknown tracer %q", kind)
}

// Close releases everything Open acquired, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// NewLogger builds the slog logger described by cfg.
func NewLogger(cfg config.Log, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", cfg.Format)
}
