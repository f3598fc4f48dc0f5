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

import "fmt"

// Origin tells where a declaration was attached
type Origin string

const (
	// OriginClass is a group-wide declaration; it loses code collisions to method declarations
	OriginClass Origin = "class"
	// OriginMethod is a declaration on a single handler
	OriginMethod Origin = "method"
)

// HighPriority reports whether declarations of this origin win collisions
func (o Origin) HighPriority() bool {
	return o == OriginMethod
}

func (o Origin) Valid() bool {
	return o == OriginClass || o == OriginMethod
}

// Group is the menu a set of declarations belongs to
type Group struct {
	Code   string `yaml:"code"`
	Name   string `yaml:"name"`
	Prefix string `yaml:"prefix"`
}

// Declaration lists permission values with their display names.
// Values and Names are parallel; a length mismatch makes every value take the last name.
type Declaration struct {
	Prefix       string   `yaml:"prefix"`
	IgnorePrefix bool     `yaml:"ignorePrefix"`
	Values       []string `yaml:"values"`
	Names        []string `yaml:"names"`
	Origin       Origin   `yaml:"origin"`
}

// Site is a group together with its declarations, in processing order
type Site struct {
	Group        Group         `yaml:",inline"`
	Declarations []Declaration `yaml:"declarations"`
}

func (s Site) String() string {
	return fmt.Sprintf("%s(%d declarations)", s.Group.Code, len(s.Declarations))
}

func (s Site) clone() Site {
	out := Site{Group: s.Group, Declarations: make([]Declaration, len(s.Declarations))}
	for i, d := range s.Declarations {
		d.Values = append([]string(nil), d.Values...)
		d.Names = append([]string(nil), d.Names...)
		out.Declarations[i] = d
	}
	return out
}
