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
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-arcade/permsync/internal/permsync"
	"github.com/go-arcade/permsync/pkg/cache"
	"github.com/go-arcade/permsync/pkg/database"
	"github.com/go-arcade/permsync/pkg/log"
	"github.com/go-arcade/permsync/pkg/metrics"
	"github.com/go-arcade/permsync/pkg/pprof"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PERMSYNC_SYNC_ENV
const EnvPrefix = "PERMSYNC"

type AppConfig struct {
	Log      log.Conf              `mapstructure:"log"`
	Database database.Database     `mapstructure:"database"`
	Sync     permsync.Config       `mapstructure:"sync"`
	Metrics  metrics.MetricsConfig `mapstructure:"metrics"`
	Redis    cache.Redis           `mapstructure:"redis"`
	Pprof    pprof.PprofConfig     `mapstructure:"pprof"`
	// Manifest is the declaration manifest path; empty means no manifest
	Manifest string `mapstructure:"manifest"`
}

// Loader reads the configuration file and keeps the latest decoded copy
type Loader struct {
	v    *viper.Viper
	path string

	mu  sync.RWMutex
	cfg *AppConfig
}

// NewLoader loads .env files, then the config file at path, then PERMSYNC_* overrides.
// An empty path runs on defaults and environment only.
func NewLoader(path string, envFiles ...string) (*Loader, error) {
	loadEnvFiles(envFiles)

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	l := &Loader{v: v, path: path}
	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}
	l.cfg = cfg
	log.Infow("config loaded", "path", path)
	return l, nil
}

// Config returns the current configuration
func (l *Loader) Config() *AppConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// Watch re-decodes the file on change and passes the new copy to onChange.
// A file that fails to decode keeps the previous configuration.
func (l *Loader) Watch(onChange func(*AppConfig)) {
	if l.path == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := l.decode()
		if err != nil {
			log.Warnw("ignoring invalid configuration change", "file", e.Name, "error", err)
			return
		}
		l.mu.Lock()
		l.cfg = cfg
		l.mu.Unlock()
		log.Infow("configuration reloaded", "file", e.Name)
		if onChange != nil {
			onChange(cfg)
		}
	})
	l.v.WatchConfig()
}

func (l *Loader) decode() (*AppConfig, error) {
	var cfg AppConfig
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks sections that would otherwise fail late
func (c *AppConfig) Validate() error {
	var errs []error
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	if _, err := c.Sync.Options(); err != nil {
		errs = append(errs, fmt.Errorf("sync: %w", err))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.path", "./logs")
	v.SetDefault("log.filename", "permsync.log")
	v.SetDefault("log.keepHours", 7)
	v.SetDefault("log.rotateSize", 100)
	v.SetDefault("log.rotateNum", 10)

	v.SetDefault("database.output", false)
	v.SetDefault("database.autoMigrate", false)
	v.SetDefault("database.maxOpenConns", 20)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.maxLifeTime", 300)
	v.SetDefault("database.maxIdleTime", 60)
	v.SetDefault("database.mysql.host", "127.0.0.1")
	v.SetDefault("database.mysql.port", "3306")
	v.SetDefault("database.mysql.user", "root")
	v.SetDefault("database.mysql.password", "")
	v.SetDefault("database.mysql.dbname", "permsync")

	v.SetDefault("sync.storagePermissions", true)
	v.SetDefault("sync.env", string(permsync.EnvDev))
	v.SetDefault("sync.policy", "")
	v.SetDefault("sync.menuId", permsync.DefaultMenuID)
	v.SetDefault("sync.batchSize", permsync.DefaultBatchSize)
	v.SetDefault("sync.timeout", "30s")
	v.SetDefault("sync.retry.attempts", 1)
	v.SetDefault("sync.retry.backoff", "500ms")

	v.SetDefault("metrics.enable", false)
	v.SetDefault("metrics.host", "0.0.0.0")
	v.SetDefault("metrics.port", 9464)

	v.SetDefault("redis.enable", false)
	v.SetDefault("redis.mode", "single")
	v.SetDefault("redis.address", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.poolSize", 10)
	v.SetDefault("redis.keyPattern", "perm:*")

	v.SetDefault("pprof.enable", false)
	v.SetDefault("pprof.host", "127.0.0.1")
	v.SetDefault("pprof.port", 6060)
	v.SetDefault("pprof.path", "/debug/pprof")

	v.SetDefault("manifest", "")
}

func loadEnvFiles(files []string) {
	if len(files) == 0 {
		files = []string{".env", ".env.local"}
	}
	for _, f := range files {
		// missing files are fine
		_ = godotenv.Load(f)
	}
}
