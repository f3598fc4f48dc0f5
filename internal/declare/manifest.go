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

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Manifest is the file form of a set of declaration sites
type Manifest struct {
	Groups []Site `yaml:"groups"`
}

// ManifestError describes a group or declaration skipped while loading a manifest.
// Declaration is -1 when the whole group was skipped.
type ManifestError struct {
	Group       int
	Code        string
	Declaration int
	Reason      string
}

func (e *ManifestError) Error() string {
	if e.Declaration < 0 {
		return fmt.Sprintf("manifest group %d: %s", e.Group, e.Reason)
	}
	return fmt.Sprintf("manifest group %d (%s) declaration %d: %s", e.Group, e.Code, e.Declaration, e.Reason)
}

// LoadManifest reads a YAML manifest from path
func LoadManifest(path string) ([]Site, []error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	sites, skipped, err := ParseManifest(data)
	if err != nil {
		return nil, nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return sites, skipped, nil
}

// ParseManifest decodes manifest bytes; a missing origin defaults to class.
// Groups without a code and declarations with an unknown origin are left out and
// returned as *ManifestError; only undecodable input is an error.
func ParseManifest(data []byte) ([]Site, []error, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	var skipped []error
	sites := make([]Site, 0, len(m.Groups))
	for i, g := range m.Groups {
		if g.Group.Code == "" {
			skipped = append(skipped, &ManifestError{Group: i, Declaration: -1, Reason: "code is required"})
			continue
		}
		decls := make([]Declaration, 0, len(g.Declarations))
		for j, d := range g.Declarations {
			if d.Origin == "" {
				d.Origin = OriginClass
			}
			if !d.Origin.Valid() {
				skipped = append(skipped, &ManifestError{
					Group: i, Code: g.Group.Code, Declaration: j,
					Reason: fmt.Sprintf("unknown origin %q", d.Origin),
				})
				continue
			}
			decls = append(decls, d)
		}
		g.Declarations = decls
		sites = append(sites, g)
	}
	return sites, skipped, nil
}

// LoadInto loads a manifest and registers its valid sites
func (r *Registry) LoadInto(path string) (int, []error, error) {
	sites, skipped, err := LoadManifest(path)
	if err != nil {
		return 0, nil, err
	}
	r.Register(sites...)
	return len(sites), skipped, nil
}
