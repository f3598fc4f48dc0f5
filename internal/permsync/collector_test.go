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
	"errors"
	"sync"
	"testing"

	"github.com/go-arcade/permsync/internal/declare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect_PrefixJoin(t *testing.T) {
	tests := []struct {
		name  string
		group declare.Group
		decl  declare.Declaration
		want  string
	}{
		{
			name:  "group prefix",
			group: declare.Group{Code: "sys", Prefix: "user"},
			decl:  declare.Declaration{Values: []string{"add"}, Names: []string{"Add"}},
			want:  "user:add",
		},
		{
			name:  "declaration prefix wins",
			group: declare.Group{Code: "sys", Prefix: "user"},
			decl:  declare.Declaration{Prefix: "role", Values: []string{"add"}, Names: []string{"Add"}},
			want:  "role:add",
		},
		{
			name:  "ignored prefix",
			group: declare.Group{Code: "sys", Prefix: "user"},
			decl:  declare.Declaration{Prefix: "role", IgnorePrefix: true, Values: []string{"add"}, Names: []string{"Add"}},
			want:  "add",
		},
		{
			name:  "empty prefix",
			group: declare.Group{Code: "sys"},
			decl:  declare.Declaration{Values: []string{"add"}, Names: []string{"Add"}},
			want:  "add",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, errs := NewCollector(DefaultMenuID).Collect([]declare.Site{{Group: tt.group, Declarations: []declare.Declaration{tt.decl}}})
			require.Empty(t, errs)
			assert.Equal(t, []string{tt.want}, set.Codes())
		})
	}
}

func TestCollect_NameMismatchTakesLastName(t *testing.T) {
	site := declare.Site{
		Group: declare.Group{Code: "sys", Name: "System", Prefix: "user"},
		Declarations: []declare.Declaration{
			{Values: []string{"add", "edit"}, Names: []string{"manage"}},
			{Values: []string{"a", "b"}, Names: []string{"first", "second", "third"}},
			{Values: []string{"x", "y"}, Names: []string{"X", "Y"}},
		},
	}
	set, errs := NewCollector(DefaultMenuID).Collect([]declare.Site{site})
	require.Empty(t, errs)

	names := map[string]string{}
	for _, d := range set.Descriptors() {
		names[d.PermissionCode] = d.PermissionName
		assert.Equal(t, DefaultMenuID, d.MenuID)
		assert.Equal(t, "sys", d.MenuCode)
		assert.Equal(t, "System", d.MenuName)
	}
	assert.Equal(t, map[string]string{
		"user:add":  "manage",
		"user:edit": "manage",
		"user:a":    "third",
		"user:b":    "third",
		"user:x":    "X",
		"user:y":    "Y",
	}, names)
}

func TestCollect_Priority(t *testing.T) {
	class := func(name string) declare.Declaration {
		return declare.Declaration{Values: []string{"add"}, Names: []string{name}, Origin: declare.OriginClass}
	}
	method := func(name string) declare.Declaration {
		return declare.Declaration{Values: []string{"add"}, Names: []string{name}, Origin: declare.OriginMethod}
	}

	tests := []struct {
		name     string
		decls    []declare.Declaration
		wantName string
		wantHigh bool
	}{
		{"method then class keeps method", []declare.Declaration{method("m"), class("c")}, "m", true},
		{"class then method takes method", []declare.Declaration{class("c"), method("m")}, "m", true},
		{"class then class takes later", []declare.Declaration{class("c1"), class("c2")}, "c2", false},
		{"method then method keeps first", []declare.Declaration{method("m1"), method("m2")}, "m1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, errs := NewCollector(DefaultMenuID).Collect([]declare.Site{{Group: declare.Group{Code: "g"}, Declarations: tt.decls}})
			require.Empty(t, errs)
			d, ok := set.Get("add")
			require.True(t, ok)
			assert.Equal(t, tt.wantName, d.PermissionName)
			assert.Equal(t, tt.wantHigh, d.HighPriority)
			assert.Equal(t, 1, set.Len())
		})
	}
}

func TestCollect_OverwriteKeepsPosition(t *testing.T) {
	site := declare.Site{
		Group: declare.Group{Code: "g"},
		Declarations: []declare.Declaration{
			{Values: []string{"a", "b", "c"}, Names: []string{"A", "B", "C"}},
			{Values: []string{"a"}, Names: []string{"A2"}},
		},
	}
	set, _ := NewCollector(DefaultMenuID).Collect([]declare.Site{site})
	assert.Equal(t, []string{"a", "b", "c"}, set.Codes())
	d, _ := set.Get("a")
	assert.Equal(t, "A2", d.PermissionName)
}

func TestCollect_Idempotent(t *testing.T) {
	sites := []declare.Site{
		{
			Group: declare.Group{Code: "sys", Name: "System", Prefix: "user"},
			Declarations: []declare.Declaration{
				{Values: []string{"list", "view"}, Names: []string{"List", "View"}, Origin: declare.OriginClass},
				{Values: []string{"list"}, Names: []string{"List all"}, Origin: declare.OriginMethod},
			},
		},
		{
			Group:        declare.Group{Code: "ops", Name: "Ops"},
			Declarations: []declare.Declaration{{Values: []string{"health"}, Names: []string{"Health"}}},
		},
	}
	c := NewCollector(DefaultMenuID)
	first, _ := c.Collect(sites)
	second, _ := c.Collect(sites)

	assert.Equal(t, first.Codes(), second.Codes())
	assert.Equal(t, first.Descriptors(), second.Descriptors())
}

func TestCollect_MalformedSkipped(t *testing.T) {
	site := declare.Site{
		Group: declare.Group{Code: "sys"},
		Declarations: []declare.Declaration{
			{Values: nil, Names: []string{"A"}},
			{Values: []string{"ok"}, Names: []string{"OK"}},
			{Values: []string{"x", " "}, Names: []string{"X"}},
			{Values: []string{"y"}},
		},
	}
	set, errs := NewCollector(7).Collect([]declare.Site{site})

	assert.Equal(t, []string{"ok"}, set.Codes())
	require.Len(t, errs, 3)
	for _, err := range errs {
		assert.True(t, errors.Is(err, ErrMalformedDeclaration))
	}
	var de *DeclarationError
	require.ErrorAs(t, errs[1], &de)
	assert.Equal(t, "sys", de.Group)
	assert.Equal(t, 2, de.Index)

	d, _ := set.Get("ok")
	assert.Equal(t, int64(7), d.MenuID)
}

func TestCollectInto_Concurrent(t *testing.T) {
	set := NewDescriptorSet()
	c := NewCollector(DefaultMenuID)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			origin := declare.OriginClass
			if i%2 == 0 {
				origin = declare.OriginMethod
			}
			c.CollectInto(set, declare.Site{
				Group:        declare.Group{Code: "g"},
				Declarations: []declare.Declaration{{Values: []string{"shared"}, Names: []string{"n"}, Origin: origin}},
			})
		}(i)
	}
	wg.Wait()

	d, ok := set.Get("shared")
	require.True(t, ok)
	assert.True(t, d.HighPriority, "a method declaration must never be replaced")
	assert.Equal(t, 1, set.Len())
}
