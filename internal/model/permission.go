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
	"github.com/go-arcade/permsync/pkg/database"
)

func init() {
	database.RegisterModels(&Permission{})
}

// Permission is a persisted permission point.
// PermissionCode is indexed but not unique: soft-deleted rows keep their code.
type Permission struct {
	BaseModel
	MenuID         int64  `gorm:"column:menu_id;not null;default:0" json:"menuId"`
	MenuCode       string `gorm:"column:menu_code;type:varchar(64);not null;default:''" json:"menuCode"`
	MenuName       string `gorm:"column:menu_name;type:varchar(128);not null;default:''" json:"menuName"`
	PermissionCode string `gorm:"column:permission_code;type:varchar(191);not null;index:idx_permission_code" json:"permissionCode"`
	PermissionName string `gorm:"column:permission_name;type:varchar(128);not null;default:''" json:"permissionName"`
	Deleted        bool   `gorm:"column:deleted;not null;default:false;index:idx_permission_deleted" json:"deleted"`
}

func (Permission) TableName() string {
	return "t_permission"
}

// PermissionColumns are written on every update, zero values included
var PermissionColumns = []string{
	"menu_id", "menu_code", "menu_name", "permission_code", "permission_name", "deleted", "updated_at",
}

// Descriptor is a permission as declared in code, before it is persisted
type Descriptor struct {
	MenuID         int64
	MenuCode       string
	MenuName       string
	PermissionCode string
	PermissionName string
	HighPriority   bool
	Deleted        bool
	// ID is the persisted identity; zero means insert
	ID uint64
}

// SameAs reports whether the declared fields equal the persisted ones
func (d *Descriptor) SameAs(p *Permission) bool {
	return d.MenuID == p.MenuID &&
		d.MenuCode == p.MenuCode &&
		d.MenuName == p.MenuName &&
		d.PermissionCode == p.PermissionCode &&
		d.PermissionName == p.PermissionName
}

// ToPermission converts the descriptor into a storage record
func (d *Descriptor) ToPermission() *Permission {
	return &Permission{
		BaseModel:      BaseModel{ID: d.ID},
		MenuID:         d.MenuID,
		MenuCode:       d.MenuCode,
		MenuName:       d.MenuName,
		PermissionCode: d.PermissionCode,
		PermissionName: d.PermissionName,
		Deleted:        d.Deleted,
	}
}
