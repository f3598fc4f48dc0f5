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
	"github.com/go-arcade/permsync/internal/declare"
	"github.com/go-arcade/permsync/internal/repo"
	"github.com/go-arcade/permsync/pkg/cache"
	"github.com/go-arcade/permsync/pkg/metrics"
	"github.com/google/wire"
)

// ProviderSet provides the syncer
var ProviderSet = wire.NewSet(ProvideSyncer)

func ProvideSyncer(
	conf Config,
	permRepo repo.IPermissionRepository,
	registry *declare.Registry,
	recorder *metrics.SyncRecorder,
	invalidator cache.Invalidator,
) (*Syncer, error) {
	opts, err := conf.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithRecorder(recorder), WithInvalidator(invalidator))
	return NewSyncer(permRepo, registry, opts...), nil
}
