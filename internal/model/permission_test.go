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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptor_SameAs(t *testing.T) {
	p := &Permission{MenuID: 3, MenuCode: "sys", MenuName: "System", PermissionCode: "user:add", PermissionName: "Add"}

	tests := []struct {
		name string
		d    Descriptor
		want bool
	}{
		{"identical", Descriptor{MenuID: 3, MenuCode: "sys", MenuName: "System", PermissionCode: "user:add", PermissionName: "Add"}, true},
		{"priority ignored", Descriptor{MenuID: 3, MenuCode: "sys", MenuName: "System", PermissionCode: "user:add", PermissionName: "Add", HighPriority: true}, true},
		{"menu name differs", Descriptor{MenuID: 3, MenuCode: "sys", MenuName: "Sys", PermissionCode: "user:add", PermissionName: "Add"}, false},
		{"menu id differs", Descriptor{MenuID: 4, MenuCode: "sys", MenuName: "System", PermissionCode: "user:add", PermissionName: "Add"}, false},
		{"permission name differs", Descriptor{MenuID: 3, MenuCode: "sys", MenuName: "System", PermissionCode: "user:add", PermissionName: ""}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.SameAs(p))
		})
	}
}

func TestDescriptor_ToPermission(t *testing.T) {
	d := &Descriptor{ID: 7, MenuID: 3, MenuCode: "sys", MenuName: "System", PermissionCode: "user:add", PermissionName: "Add", Deleted: true}
	p := d.ToPermission()

	assert.Equal(t, uint64(7), p.ID)
	assert.Equal(t, "user:add", p.PermissionCode)
	assert.True(t, p.Deleted)
	assert.Equal(t, "t_permission", p.TableName())
}
