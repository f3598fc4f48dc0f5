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
	"context"
	"fmt"

	"github.com/go-arcade/permsync/pkg/log"
)

const (
	defaultKeyPattern = "perm:*"
	scanCount         = 200
)

// Invalidator drops cached permission catalogs after the table changed
type Invalidator interface {
	Invalidate(ctx context.Context) (int64, error)
}

// PatternInvalidator deletes every key matching a glob pattern
type PatternInvalidator struct {
	client  ICache
	pattern string
}

func NewPatternInvalidator(client ICache, pattern string) *PatternInvalidator {
	if pattern == "" {
		pattern = defaultKeyPattern
	}
	return &PatternInvalidator{client: client, pattern: pattern}
}

// Invalidate scans with SCAN and removes matches page by page; it returns the number of deleted keys
func (p *PatternInvalidator) Invalidate(ctx context.Context) (int64, error) {
	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := p.client.Scan(ctx, cursor, p.pattern, scanCount).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan %q: %w", p.pattern, err)
		}
		if len(keys) > 0 {
			n, err := p.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete %d keys: %w", len(keys), err)
			}
			deleted += n
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	log.Debugw("permission cache invalidated", "pattern", p.pattern, "deleted", deleted)
	return deleted, nil
}

// NopInvalidator is used when redis is disabled
type NopInvalidator struct{}

func (NopInvalidator) Invalidate(context.Context) (int64, error) { return 0, nil }
