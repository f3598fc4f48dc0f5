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
	"context"
	"time"
)

// Recorder receives pass metrics
type Recorder interface {
	ObservePass(status string, duration time.Duration)
	ObserveChanges(inserted, modified, removed int)
	ObserveBatch(ok bool)
}

type nopRecorder struct{}

func (nopRecorder) ObservePass(string, time.Duration) {}
func (nopRecorder) ObserveChanges(int, int, int)      {}
func (nopRecorder) ObserveBatch(bool)                 {}

// Invalidator drops cached permission catalogs after the table changed
type Invalidator interface {
	Invalidate(ctx context.Context) (int64, error)
}
