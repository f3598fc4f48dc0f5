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

package config

import (
	"github.com/go-arcade/permsync/internal/permsync"
	"github.com/go-arcade/permsync/pkg/cache"
	"github.com/go-arcade/permsync/pkg/database"
	"github.com/go-arcade/permsync/pkg/log"
	"github.com/go-arcade/permsync/pkg/metrics"
	"github.com/go-arcade/permsync/pkg/pprof"
	"github.com/google/wire"
)

// ProviderSet provides the configuration sections
var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideLogConfig,
	ProvideDatabaseConfig,
	ProvideSyncConfig,
	ProvideMetricsConfig,
	ProvideRedisConfig,
	ProvidePprofConfig,
)

func ProvideConf(loader *Loader) *AppConfig {
	return loader.Config()
}

func ProvideLogConfig(appConf *AppConfig) *log.Conf {
	return &appConf.Log
}

func ProvideDatabaseConfig(appConf *AppConfig) database.Database {
	return appConf.Database
}

func ProvideSyncConfig(appConf *AppConfig) permsync.Config {
	return appConf.Sync
}

func ProvideMetricsConfig(appConf *AppConfig) metrics.MetricsConfig {
	metricsConfig := appConf.Metrics
	metricsConfig.SetDefaults()
	return metricsConfig
}

func ProvideRedisConfig(appConf *AppConfig) cache.Redis {
	return appConf.Redis
}

func ProvidePprofConfig(appConf *AppConfig) pprof.PprofConfig {
	pprofConfig := appConf.Pprof
	pprofConfig.SetDefaults()
	return pprofConfig
}
