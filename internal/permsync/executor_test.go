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
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-arcade/permsync/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func changes(n int) []*model.Permission {
	out := make([]*model.Permission, n)
	for i := range out {
		out[i] = &model.Permission{PermissionCode: fmt.Sprintf("p%03d", i)}
	}
	return out
}

func TestApplyInBatches_PartitionAndContinueAfterFailure(t *testing.T) {
	store := newMemStore()
	store.failOn[1] = errBoom
	rec := &countingRecorder{}

	report := NewBatchExecutor(store, 1, 0, rec).ApplyInBatches(context.Background(), changes(250), 100)

	assert.Equal(t, []int{100, 100, 50}, store.callSizes())
	require.Len(t, report.Batches, 3)
	assert.NoError(t, report.Batches[0].Err)
	assert.NoError(t, report.Batches[2].Err)

	var be *BatchError
	require.ErrorAs(t, report.Batches[1].Err, &be)
	assert.Equal(t, 1, be.Index)
	assert.Equal(t, 100, be.Size)
	assert.ErrorIs(t, report.Err(), errBoom)

	assert.True(t, report.Failed())
	assert.Equal(t, 150, report.Applied())
	assert.Equal(t, 2, rec.batchOK)
	assert.Equal(t, 1, rec.batchBad)
}

func TestApplyInBatches_DefaultBatchSize(t *testing.T) {
	store := newMemStore()
	report := NewBatchExecutor(store, 1, 0, nil).ApplyInBatches(context.Background(), changes(1001), 0)

	assert.Equal(t, []int{DefaultBatchSize, 1}, store.callSizes())
	assert.False(t, report.Failed())
}

func TestApplyInBatches_Empty(t *testing.T) {
	store := newMemStore()
	report := NewBatchExecutor(store, 1, 0, nil).ApplyInBatches(context.Background(), nil, 10)

	assert.Empty(t, report.Batches)
	assert.Empty(t, store.callSizes())
	assert.NoError(t, report.Err())
}

func TestApplyInBatches_Retry(t *testing.T) {
	store := newMemStore()
	store.failOn[0] = errBoom

	report := NewBatchExecutor(store, 3, time.Millisecond, nil).ApplyInBatches(context.Background(), changes(5), 10)

	require.Len(t, report.Batches, 1)
	assert.NoError(t, report.Batches[0].Err)
	assert.Equal(t, 2, report.Batches[0].Attempts)
	assert.Equal(t, []int{5, 5}, store.callSizes())
}

func TestApplyInBatches_Timeout(t *testing.T) {
	store := newMemStore()
	store.block = true

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	report := NewBatchExecutor(store, 3, time.Millisecond, nil).ApplyInBatches(ctx, changes(3), 2)

	require.Len(t, report.Batches, 2)
	for _, b := range report.Batches {
		assert.ErrorIs(t, b.Err, ErrPersistTimeout)
		assert.True(t, errors.Is(b.Err, context.DeadlineExceeded))
	}
	assert.Equal(t, 1, report.Batches[0].Attempts, "deadline errors are not retried")
	assert.Zero(t, report.Batches[1].Attempts, "batches after the deadline never run")
	assert.Len(t, store.callSizes(), 1)
}
