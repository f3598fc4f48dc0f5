//go:build wireinject
// +build wireinject

package main

import (
	"github.com/go-arcade/permsync/internal/bootstrap"
	"github.com/go-arcade/permsync/internal/config"
	"github.com/go-arcade/permsync/internal/declare"
	"github.com/go-arcade/permsync/internal/permsync"
	"github.com/go-arcade/permsync/internal/repo"
	"github.com/go-arcade/permsync/pkg/cache"
	"github.com/go-arcade/permsync/pkg/database"
	"github.com/go-arcade/permsync/pkg/log"
	"github.com/go-arcade/permsync/pkg/metrics"
	"github.com/go-arcade/permsync/pkg/pprof"
	"github.com/google/wire"
)

func initApp(loader *config.Loader, registry *declare.Registry) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// configuration
		config.ProviderSet,
		// infrastructure
		log.ProviderSet,
		database.ProviderSet,
		cache.ProviderSet,
		metrics.ProviderSet,
		pprof.ProviderSet,
		// repositories
		repo.ProviderSet,
		// sync
		permsync.ProviderSet,
		bootstrap.NewApp,
	))
}
