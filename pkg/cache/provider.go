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

package cache

import (
	"github.com/go-arcade/permsync/pkg/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

// ProviderSet provides the redis client and the permission cache invalidator
var ProviderSet = wire.NewSet(ProvideRedis, ProvideInvalidator)

// ProvideRedis returns a nil client when redis is disabled
func ProvideRedis(conf Redis) (*redis.Client, func(), error) {
	if !conf.Enable {
		return nil, func() {}, nil
	}
	client, err := NewRedis(conf)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Warnw("failed to close redis", "error", err)
		}
	}
	return client, cleanup, nil
}

// ProvideInvalidator falls back to a no-op invalidator without a client
func ProvideInvalidator(conf Redis, client *redis.Client) Invalidator {
	if client == nil {
		return NopInvalidator{}
	}
	return NewPatternInvalidator(client, conf.KeyPattern)
}
