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
	"github.com/go-arcade/permsync/internal/model"
	"github.com/go-arcade/permsync/pkg/log"
)

// Counts summarizes a plan
type Counts struct {
	Total    int `json:"total"`
	Inserted int `json:"inserted"`
	Modified int `json:"modified"`
	Removed  int `json:"removed"`
}

// Plan is the ordered change list of a pass: soft-deletes first, then inserts and updates in declared order
type Plan struct {
	Changes []*model.Permission
	Counts  Counts
}

func (p *Plan) Empty() bool {
	return len(p.Changes) == 0
}

// Reconcile diffs declared against snapshot. Neither input is modified.
func Reconcile(snapshot *Snapshot, declared *DescriptorSet, policy DeletionPolicy) *Plan {
	work := declared.Clone()
	plan := &Plan{Counts: Counts{Total: work.Len()}}

	snapshot.Each(func(p *model.Permission) {
		d, ok := work.Get(p.PermissionCode)
		if !ok {
			if policy != DeleteOnMissing {
				log.Debugw("undeclared permission retained", "code", p.PermissionCode, "id", p.ID)
				return
			}
			removed := *p
			removed.Deleted = true
			plan.Changes = append(plan.Changes, &removed)
			plan.Counts.Removed++
			return
		}
		if d.SameAs(p) {
			work.Delete(p.PermissionCode)
			return
		}
		d.ID = p.ID
		plan.Counts.Modified++
	})

	for _, d := range work.Descriptors() {
		plan.Changes = append(plan.Changes, d.ToPermission())
	}
	plan.Counts.Inserted = len(plan.Changes) - plan.Counts.Modified - plan.Counts.Removed
	return plan
}
