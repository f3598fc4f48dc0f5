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

package repo

import (
	"context"
	"fmt"

	"github.com/go-arcade/permsync/internal/model"
	"github.com/go-arcade/permsync/pkg/database"
	"gorm.io/gorm"
)

type IPermissionRepository interface {
	// ListActive returns every non-deleted permission in id order
	ListActive(ctx context.Context) ([]*model.Permission, error)
	// BatchUpsertOrSoftDelete inserts rows without id and updates the rest by id
	BatchUpsertOrSoftDelete(ctx context.Context, perms []*model.Permission, batchSize int) error
}

type PermissionRepo struct {
	db database.IDatabase
}

func NewPermissionRepo(db database.IDatabase) IPermissionRepository {
	return &PermissionRepo{db: db}
}

// ListActive reads from the primary so a pass never diffs against a lagging replica
func (r *PermissionRepo) ListActive(ctx context.Context) ([]*model.Permission, error) {
	var perms []*model.Permission
	err := database.WriteDB(r.db.Database().WithContext(ctx)).
		Where("deleted = ?", false).
		Order("id ASC").
		Find(&perms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active permissions: %w", err)
	}
	return perms, nil
}

func (r *PermissionRepo) BatchUpsertOrSoftDelete(ctx context.Context, perms []*model.Permission, batchSize int) error {
	if len(perms) == 0 {
		return nil
	}

	// inserts are copies: gorm writes generated ids back even when the transaction
	// rolls back, and a retried batch must still insert them
	var inserts, updates []*model.Permission
	for _, p := range perms {
		if p.ID == 0 {
			cp := *p
			inserts = append(inserts, &cp)
		} else {
			updates = append(updates, p)
		}
	}

	return r.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(inserts) > 0 {
			if err := tx.CreateInBatches(inserts, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert %d permissions: %w", len(inserts), err)
			}
		}
		for _, p := range updates {
			if err := tx.Model(p).Select(model.PermissionColumns).Updates(p).Error; err != nil {
				return fmt.Errorf("failed to update permission %d: %w", p.ID, err)
			}
		}
		return nil
	})
}
