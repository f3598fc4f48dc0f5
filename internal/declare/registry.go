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

package declare

import "sync"

// Registry collects declaration sites registered at startup
type Registry struct {
	mu    sync.RWMutex
	sites []Site
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends whole sites
func (r *Registry) Register(sites ...Site) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range sites {
		r.sites = append(r.sites, s.clone())
	}
}

// Group opens a new site for g; declarations are added through the returned builder
func (r *Registry) Group(g Group) *GroupBuilder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sites = append(r.sites, Site{Group: g})
	return &GroupBuilder{registry: r, index: len(r.sites) - 1}
}

// Sites returns a copy of the registered sites in registration order
func (r *Registry) Sites() []Site {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Site, len(r.sites))
	for i, s := range r.sites {
		out[i] = s.clone()
	}
	return out
}

// Len returns the number of registered sites
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sites)
}

// GroupBuilder adds declarations to one registered site
type GroupBuilder struct {
	registry *Registry
	index    int
}

// Class adds a group-wide declaration
func (b *GroupBuilder) Class(d Declaration) *GroupBuilder {
	d.Origin = OriginClass
	return b.add(d)
}

// Method adds a handler declaration
func (b *GroupBuilder) Method(d Declaration) *GroupBuilder {
	d.Origin = OriginMethod
	return b.add(d)
}

func (b *GroupBuilder) add(d Declaration) *GroupBuilder {
	d.Values = append([]string(nil), d.Values...)
	d.Names = append([]string(nil), d.Names...)

	b.registry.mu.Lock()
	defer b.registry.mu.Unlock()
	site := &b.registry.sites[b.index]
	site.Declarations = append(site.Declarations, d)
	return b
}
