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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-arcade/permsync/internal/permsync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewLoader_Defaults(t *testing.T) {
	l, err := NewLoader("", writeFile(t, "empty.env", ""))
	require.NoError(t, err)
	cfg := l.Config()

	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.True(t, cfg.Sync.StoragePermissions)
	assert.Equal(t, "dev", cfg.Sync.Env)
	assert.Equal(t, permsync.DefaultMenuID, cfg.Sync.MenuID)
	assert.Equal(t, permsync.DefaultBatchSize, cfg.Sync.BatchSize)
	assert.Equal(t, 30*time.Second, cfg.Sync.Timeout)
	assert.Equal(t, 1, cfg.Sync.Retry.Attempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Sync.Retry.Backoff)
	assert.False(t, cfg.Redis.Enable)
	assert.Equal(t, 9464, cfg.Metrics.Port)
	assert.Equal(t, 6060, cfg.Pprof.Port)
}

func TestNewLoader_File(t *testing.T) {
	path := writeFile(t, "config.toml", `
manifest = "conf.d/permissions.yaml"

[log]
level = "DEBUG"

[database.mysql]
host = "db.internal"
dbname = "iam"

[sync]
env = "prod"
menuId = 12
batchSize = 200
timeout = "5s"

[sync.retry]
attempts = 3
`)
	l, err := NewLoader(path, writeFile(t, "empty.env", ""))
	require.NoError(t, err)
	cfg := l.Config()

	assert.Equal(t, "DEBUG", cfg.Log.Level)
	assert.Equal(t, "db.internal", cfg.Database.MySQL.Host)
	assert.Equal(t, "3306", cfg.Database.MySQL.Port)
	assert.Equal(t, "prod", cfg.Sync.Env)
	assert.Equal(t, int64(12), cfg.Sync.MenuID)
	assert.Equal(t, 200, cfg.Sync.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.Sync.Timeout)
	assert.Equal(t, 3, cfg.Sync.Retry.Attempts)
	assert.True(t, cfg.Sync.StoragePermissions)
	assert.Equal(t, "conf.d/permissions.yaml", cfg.Manifest)
}

func TestNewLoader_EnvOverride(t *testing.T) {
	t.Setenv("PERMSYNC_SYNC_ENV", "prod")
	t.Setenv("PERMSYNC_SYNC_STORAGEPERMISSIONS", "false")

	l, err := NewLoader("", writeFile(t, "empty.env", ""))
	require.NoError(t, err)
	assert.Equal(t, "prod", l.Config().Sync.Env)
	assert.False(t, l.Config().Sync.StoragePermissions)
}

func TestNewLoader_DotEnv(t *testing.T) {
	envFile := writeFile(t, ".env", "PERMSYNC_SYNC_MENUID=42\n")
	t.Cleanup(func() { _ = os.Unsetenv("PERMSYNC_SYNC_MENUID") })

	l, err := NewLoader("", envFile)
	require.NoError(t, err)
	assert.Equal(t, int64(42), l.Config().Sync.MenuID)
}

func TestNewLoader_Invalid(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := writeFile(t, "config.toml", "[sync]\nenv = \"staging\"\n")
	_, err = NewLoader(path, writeFile(t, "empty.env", ""))
	assert.ErrorContains(t, err, "staging")
}

func TestProvideMetricsConfig_Defaults(t *testing.T) {
	mc := ProvideMetricsConfig(&AppConfig{})
	assert.Equal(t, "0.0.0.0", mc.Host)
	assert.Equal(t, 9464, mc.Port)
}
