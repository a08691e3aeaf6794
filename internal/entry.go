// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/modemfind/internal/apperr"
	"github.com/starford/modemfind/internal/catalog"
	"github.com/starford/modemfind/internal/checksum"
	"github.com/starford/modemfind/internal/discovery"
	"github.com/starford/modemfind/internal/models"
	"github.com/starford/modemfind/internal/sysfs"
	"github.com/starford/modemfind/internal/udev"
	"github.com/starford/modemfind/internal/watch"
)

// setup applies opts, validates the configuration and fills in defaults.
func setup(opts []Option) (*application, *slog.Logger, error) {
	app := &application{
		out:    os.Stdout,
		logOut: os.Stderr,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}
	if err := app.config.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg := app.config

	// Logs go to stderr; stdout carries the result.
	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("root", cfg.Discovery.Root),
		slog.Any("filters", cfg.Discovery.Filters),
		slog.Int("depth", cfg.Discovery.Depth),
		slog.String("model", cfg.Discovery.Model),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if app.catalog == nil {
		c, err := catalog.Load(cfg.Discovery.Catalog)
		if err != nil {
			return nil, nil, fmt.Errorf("load catalog: %w", err)
		}
		app.catalog = c
	}

	if app.source == nil {
		cmd, err := udev.NewCommand(cfg.Query.Command, cfg.Query.Timeout)
		if err != nil {
			return nil, nil, err
		}
		app.source = cmd
	}

	return app, logger, nil
}

// target resolves the model to look for.
func (a *application) target() (models.Model, error) {
	d := a.config.Discovery
	if d.AdHoc() {
		m := models.Model{Name: d.VendorID + ":" + d.ModelID, VendorID: d.VendorID, ModelID: d.ModelID}
		if err := catalog.ValidateModel(m); err != nil {
			return models.Model{}, fmt.Errorf("invalid device ids: %w", err)
		}
		return m, nil
	}
	return a.catalog.Lookup(d.Model)
}

// session starts a fresh discovery session.
func (a *application) session(logger *slog.Logger) *discovery.Engine {
	d := a.config.Discovery
	spec := sysfs.SearchSpec{Root: d.Root, Filters: d.Filters, Depth: d.Depth}
	return discovery.New(spec, a.source, discovery.WithLogger(logger))
}

// Run performs one discovery pass and prints the port range of the target
// model. It returns an error wrapping apperr.ErrDeviceNotFound when the
// model is not attached, or apperr.ErrQueryFailed when no candidate could
// be queried at all.
func Run(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}

	m, err := app.target()
	if err != nil {
		return err
	}

	engine := app.session(logger)
	d, err := engine.Locate(ctx, m)
	if err != nil {
		if skipped := engine.Skipped(); skipped != nil {
			logger.Info("some candidates were skipped", slog.String("reasons", skipped.Error()))
		}
		return err
	}

	return writeResult(app.out, app.config.App.Format, d)
}

// Models prints the model catalog.
func Models(_ context.Context, opts ...Option) error {
	app, _, err := setup(opts)
	if err != nil {
		return err
	}
	return writeModels(app.out, app.catalog.Models)
}

// Watch prints the port range of the target model every time it changes,
// rescanning when serial device nodes appear or disappear. It returns when
// ctx is cancelled or a termination signal arrives.
func Watch(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}

	m, err := app.target()
	if err != nil {
		return err
	}

	cfg := app.config
	last := ""
	rescan := func(ctx context.Context) {
		var found *models.Discovery
		d, err := app.session(logger).Locate(ctx, m)
		switch {
		case err == nil:
			found = &d
		case errors.Is(err, apperr.ErrDeviceNotFound):
		default:
			logger.Warn("rescan failed", slog.String("error", err.Error()))
			return
		}

		sum := checksum.Of(found)
		if sum == last {
			return
		}
		last = sum

		if found == nil {
			logger.Info("device not present", slog.String("model", m.Name))
			return
		}
		if err := writeResult(app.out, cfg.App.Format, *found); err != nil {
			logger.Error("write result failed", slog.String("error", err.Error()))
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return watch.Watch(gCtx, cfg.Watch.Dir, cfg.Watch.Patterns, cfg.Watch.Debounce, logger, rescan)
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("watch error", slog.String("error", err.Error()))
		return err
	}
	return nil
}
