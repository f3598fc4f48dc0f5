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

package permsync

import (
	"fmt"
	"time"
)

// Config is the [sync] section
type Config struct {
	StoragePermissions bool          `mapstructure:"storagePermissions"`
	Env                string        `mapstructure:"env"`
	Policy             string        `mapstructure:"policy"`
	MenuID             int64         `mapstructure:"menuId"`
	BatchSize          int           `mapstructure:"batchSize"`
	Timeout            time.Duration `mapstructure:"timeout"`
	Retry              RetryConfig   `mapstructure:"retry"`
}

type RetryConfig struct {
	Attempts int           `mapstructure:"attempts"`
	Backoff  time.Duration `mapstructure:"backoff"`
}

// Options validates the config and converts it into syncer options
func (c Config) Options() ([]Option, error) {
	if c.BatchSize < 0 {
		return nil, fmt.Errorf("batchSize must not be negative, got %d", c.BatchSize)
	}
	env, err := ParseEnv(c.Env)
	if err != nil {
		return nil, err
	}
	opts := []Option{
		WithStoragePermissions(c.StoragePermissions),
		WithEnv(env),
		WithBatchSize(c.BatchSize),
		WithTimeout(c.Timeout),
		WithRetry(c.Retry.Attempts, c.Retry.Backoff),
	}
	if c.MenuID != 0 {
		opts = append(opts, WithMenuID(c.MenuID))
	}
	if c.Policy != "" {
		p, err := ParseDeletionPolicy(c.Policy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithPolicy(p))
	}
	return opts, nil
}
