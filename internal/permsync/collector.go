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
	"strconv"
	"strings"

	"github.com/go-arcade/permsync/internal/declare"
	"github.com/go-arcade/permsync/internal/model"
	"github.com/go-arcade/permsync/pkg/log"
)

// DefaultMenuID is assigned to every collected descriptor unless configured otherwise
const DefaultMenuID int64 = 3

// Collector turns declaration sites into descriptors
type Collector struct {
	menuID int64
}

func NewCollector(menuID int64) *Collector {
	return &Collector{menuID: menuID}
}

// Collect builds a fresh descriptor set from sites. Malformed declarations are skipped
// and returned as *DeclarationError.
func (c *Collector) Collect(sites []declare.Site) (*DescriptorSet, []error) {
	set := NewDescriptorSet()
	var errs []error
	for _, site := range sites {
		errs = append(errs, c.CollectInto(set, site)...)
	}
	return set, errs
}

// CollectInto adds one site's descriptors to set; safe for concurrent use on the same set
func (c *Collector) CollectInto(set *DescriptorSet, site declare.Site) []error {
	var errs []error
	for i, decl := range site.Declarations {
		if reason := validate(decl); reason != "" {
			errs = append(errs, &DeclarationError{Group: site.Group.Code, Index: i, Reason: reason})
			continue
		}

		prefix := effectivePrefix(site.Group, decl)
		for j, value := range decl.Values {
			d := &model.Descriptor{
				MenuID:         c.menuID,
				MenuCode:       site.Group.Code,
				MenuName:       site.Group.Name,
				PermissionCode: joinCode(prefix, value),
				PermissionName: nameAt(decl.Names, len(decl.Values), j),
				HighPriority:   decl.Origin.HighPriority(),
			}
			if !set.Offer(d) {
				log.Debugw("permission declaration shadowed by method declaration",
					"code", d.PermissionCode, "group", site.Group.Code)
			}
		}
	}
	return errs
}

func validate(d declare.Declaration) string {
	if len(d.Values) == 0 {
		return "no permission values"
	}
	if len(d.Names) == 0 {
		return "no permission names"
	}
	for i, v := range d.Values {
		if strings.TrimSpace(v) == "" {
			return "blank permission value at position " + strconv.Itoa(i)
		}
	}
	return ""
}

func effectivePrefix(g declare.Group, d declare.Declaration) string {
	if d.IgnorePrefix {
		return ""
	}
	if d.Prefix != "" {
		return d.Prefix
	}
	return g.Prefix
}

func joinCode(prefix, value string) string {
	if prefix == "" {
		return value
	}
	return prefix + ":" + value
}

// nameAt pairs names with values by position; on a length mismatch every value takes the last name
func nameAt(names []string, values, i int) string {
	if len(names) != values {
		return names[len(names)-1]
	}
	return names[i]
}
