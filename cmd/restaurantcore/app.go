package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"restaurantcore/internal/config"
	"restaurantcore/internal/core"
	"restaurantcore/internal/events"
	"restaurantcore/internal/shared/logging"
	"restaurantcore/pkg/domain"
)

// app holds the process-wide dependencies shared by every subcommand.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	store    domain.PersistentStore
	svc      *core.Service
	registry *prometheus.Registry
	closers  []func() error
}

func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(logOut, logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, AddSource: cfg.Log.AddSource})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := core.NewPrometheusMetricsRecorder(registry)
	if err != nil {
		return nil, err
	}

	store, err := core.OpenPersistentStore(ctx, cfg.Storage())
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, store: store, registry: registry}
	a.closers = append(a.closers, store.Close)

	var publisher core.ChangePublisher = events.LogPublisher{Logger: logger}
	if cfg.Kafka.Enabled() {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.closers = append(a.closers, kp.Close)
		publisher = kp
	}

	opts := []core.ServiceOption{
		core.WithLogger(logger),
		core.WithMetrics(metrics),
		core.WithPublisher(publisher),
		core.WithManagerPositionID(cfg.ManagerPositionID),
	}
	if cfg.Log.Trace {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(logOut)))
	}
	a.svc = core.NewService(store, opts...)
	logger.Debug("service ready", "storage", string(cfg.Storage().Driver), "kafka", cfg.Kafka.Enabled())
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
