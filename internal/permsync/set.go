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
	"sync"

	"github.com/go-arcade/permsync/internal/model"
)

// DescriptorSet is an insertion-ordered set of descriptors keyed by permission code
type DescriptorSet struct {
	mu    sync.RWMutex
	order []string
	items map[string]*model.Descriptor
}

func NewDescriptorSet() *DescriptorSet {
	return &DescriptorSet{items: make(map[string]*model.Descriptor)}
}

// Offer inserts d unless the code is held by a high-priority descriptor.
// An overwrite keeps the code's original position.
func (s *DescriptorSet) Offer(d *model.Descriptor) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.items[d.PermissionCode]; ok {
		if existing.HighPriority {
			return false
		}
	} else {
		s.order = append(s.order, d.PermissionCode)
	}
	s.items[d.PermissionCode] = d
	return true
}

// Put inserts or replaces d regardless of priority
func (s *DescriptorSet) Put(d *model.Descriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[d.PermissionCode]; !ok {
		s.order = append(s.order, d.PermissionCode)
	}
	s.items[d.PermissionCode] = d
}

func (s *DescriptorSet) Get(code string) (*model.Descriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.items[code]
	return d, ok
}

func (s *DescriptorSet) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[code]; !ok {
		return
	}
	delete(s.items, code)
	for i, c := range s.order {
		if c == code {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *DescriptorSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Descriptors returns the descriptors in insertion order
func (s *DescriptorSet) Descriptors() []*model.Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Descriptor, 0, len(s.order))
	for _, code := range s.order {
		out = append(out, s.items[code])
	}
	return out
}

// Codes returns the permission codes in insertion order
func (s *DescriptorSet) Codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Clone deep copies the set
func (s *DescriptorSet) Clone() *DescriptorSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := &DescriptorSet{
		order: append([]string(nil), s.order...),
		items: make(map[string]*model.Descriptor, len(s.items)),
	}
	for code, d := range s.items {
		cp := *d
		out.items[code] = &cp
	}
	return out
}

// Snapshot is the active persisted permissions keyed by code, in id order
type Snapshot struct {
	order  []string
	byCode map[string]*model.Permission
}

// NewSnapshot indexes perms by code; a later row with a duplicate code replaces the earlier one
func NewSnapshot(perms []*model.Permission) *Snapshot {
	s := &Snapshot{byCode: make(map[string]*model.Permission, len(perms))}
	for _, p := range perms {
		if _, ok := s.byCode[p.PermissionCode]; !ok {
			s.order = append(s.order, p.PermissionCode)
		}
		s.byCode[p.PermissionCode] = p
	}
	return s
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.byCode)
}

func (s *Snapshot) Get(code string) (*model.Permission, bool) {
	if s == nil {
		return nil, false
	}
	p, ok := s.byCode[code]
	return p, ok
}

// Each visits every record in order
func (s *Snapshot) Each(fn func(*model.Permission)) {
	if s == nil {
		return
	}
	for _, code := range s.order {
		fn(s.byCode[code])
	}
}
