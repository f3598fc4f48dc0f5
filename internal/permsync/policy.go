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
	"fmt"
	"strings"
)

// DeletionPolicy decides what happens to persisted permissions no longer declared
type DeletionPolicy string

const (
	// RetainOnMissing leaves undeclared rows alone
	RetainOnMissing DeletionPolicy = "retain-on-missing"
	// DeleteOnMissing soft-deletes undeclared rows
	DeleteOnMissing DeletionPolicy = "delete-on-missing"
)

func ParseDeletionPolicy(s string) (DeletionPolicy, error) {
	switch p := DeletionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case RetainOnMissing, DeleteOnMissing:
		return p, nil
	default:
		return "", fmt.Errorf("unknown deletion policy %q", s)
	}
}

// Env is the deployment environment
type Env string

const (
	EnvDev  Env = "dev"
	EnvProd Env = "prod"
)

func ParseEnv(s string) (Env, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev":
		return EnvDev, nil
	case "prod":
		return EnvProd, nil
	default:
		return "", fmt.Errorf("unknown env %q", s)
	}
}

// Policy returns the default deletion policy for the environment.
// Shared development databases hold declarations from several branches, so only prod deletes.
func (e Env) Policy() DeletionPolicy {
	if e == EnvProd {
		return DeleteOnMissing
	}
	return RetainOnMissing
}
