// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-arcade/permsync/internal/config"
	"github.com/go-arcade/permsync/internal/declare"
	"github.com/go-arcade/permsync/internal/permsync"
	"github.com/go-arcade/permsync/pkg/log"
	"github.com/go-arcade/permsync/pkg/metrics"
	"github.com/go-arcade/permsync/pkg/pprof"
	"go.uber.org/zap"
)

type App struct {
	Syncer  *permsync.Syncer
	Metrics *metrics.Server
	Pprof   *pprof.Server
	Logger  *zap.Logger
	Loader  *config.Loader
}

// InitAppFunc is the wire injector building an App
type InitAppFunc func(loader *config.Loader, registry *declare.Registry) (*App, func(), error)

func NewApp(
	syncer *permsync.Syncer,
	metricsServer *metrics.Server,
	pprofServer *pprof.Server,
	logger *zap.Logger,
	loader *config.Loader,
) *App {
	return &App{
		Syncer:  syncer,
		Metrics: metricsServer,
		Pprof:   pprofServer,
		Logger:  logger,
		Loader:  loader,
	}
}

// Bootstrap loads configuration and declarations, then builds the App through initApp.
// A non-empty manifest overrides the manifest path from configuration.
func Bootstrap(configFile, manifest string, initApp InitAppFunc) (*App, func(), error) {
	loader, err := config.NewLoader(configFile)
	if err != nil {
		return nil, nil, err
	}

	registry := declare.NewRegistry()
	if manifest == "" {
		manifest = loader.Config().Manifest
	}
	if manifest != "" {
		loadManifest(registry, manifest)
	}

	app, cleanup, err := initApp(loader, registry)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize app: %w", err)
	}
	return app, cleanup, nil
}

// loadManifest never fails startup; an unreadable manifest leaves the registry empty,
// and a pass over an empty registry changes nothing.
func loadManifest(registry *declare.Registry, path string) {
	n, skipped, err := registry.LoadInto(path)
	if err != nil {
		log.Errorw("failed to load permission manifest, continuing without declarations", "path", path, "error", err)
		return
	}
	for _, e := range skipped {
		log.Warnw("permission manifest entry skipped", "path", path, "error", e)
	}
	log.Infow("permission manifest loaded", "path", path, "groups", n, "skipped", len(skipped))
}

// SyncOnce runs the startup pass
func (a *App) SyncOnce(ctx context.Context) *permsync.Outcome {
	return a.Syncer.Run(ctx, permsync.Event{Name: "startup"})
}

// Run syncs once at startup, serves metrics and waits for an exit signal.
// The sync outcome never stops the process.
func Run(app *App, cleanup func()) {
	logger := app.Logger.Sugar()

	if err := app.Metrics.Start(); err != nil {
		logger.Errorw("failed to start metrics server", "error", err)
	}
	if err := app.Pprof.Start(); err != nil {
		logger.Errorw("failed to start pprof server", "error", err)
	}

	app.Loader.Watch(func(cfg *config.AppConfig) {
		if err := log.Init(&cfg.Log); err != nil {
			logger.Warnw("failed to apply log configuration", "error", err)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	out := app.SyncOnce(ctx)
	if out.Err != nil {
		logger.Errorw("permission sync failed, continuing", "pass", out.PassID, "error", out.Err)
	}

	<-ctx.Done()
	logger.Infow("received signal, shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Metrics.Stop(shutdownCtx); err != nil {
		logger.Errorw("metrics server shutdown error", "error", err)
	}
	if err := app.Pprof.Stop(shutdownCtx); err != nil {
		logger.Errorw("pprof server shutdown error", "error", err)
	}

	cleanup()
	logger.Info("shutdown complete")
	_ = log.Sync()
}

// ExitCode maps a pass status to a process exit code for one-shot runs
func ExitCode(out *permsync.Outcome) int {
	switch out.Status {
	case permsync.StatusFailed:
		return 1
	case permsync.StatusPartialFailure:
		return 2
	default:
		return 0
	}
}
