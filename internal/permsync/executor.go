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
	"time"

	"github.com/go-arcade/permsync/internal/model"
	"github.com/go-arcade/permsync/pkg/log"
	"github.com/go-arcade/permsync/pkg/retry"
	"go.uber.org/zap"
)

// DefaultBatchSize is used when a non-positive batch size is requested
const DefaultBatchSize = 1000

// Writer persists one batch of changes
type Writer interface {
	BatchUpsertOrSoftDelete(ctx context.Context, perms []*model.Permission, batchSize int) error
}

// BatchResult is the outcome of one batch
type BatchResult struct {
	Index    int
	Size     int
	Attempts int
	Err      error
}

// BatchReport aggregates the batches of one pass
type BatchReport struct {
	Batches []BatchResult
}

// Applied is the number of records in successful batches
func (r *BatchReport) Applied() int {
	n := 0
	for _, b := range r.Batches {
		if b.Err == nil {
			n += b.Size
		}
	}
	return n
}

// Failures returns the error of every failed batch
func (r *BatchReport) Failures() []error {
	var errs []error
	for _, b := range r.Batches {
		if b.Err != nil {
			errs = append(errs, b.Err)
		}
	}
	return errs
}

func (r *BatchReport) Failed() bool {
	return len(r.Failures()) > 0
}

// Err joins every batch failure, or returns nil
func (r *BatchReport) Err() error {
	return errors.Join(r.Failures()...)
}

// BatchExecutor writes a change list in fixed-size batches. A failed batch never stops later ones.
type BatchExecutor struct {
	writer   Writer
	attempts int
	backoff  time.Duration
	recorder Recorder
}

func NewBatchExecutor(writer Writer, attempts int, backoff time.Duration, recorder Recorder) *BatchExecutor {
	if attempts < 1 {
		attempts = 1
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &BatchExecutor{writer: writer, attempts: attempts, backoff: backoff, recorder: recorder}
}

func (e *BatchExecutor) ApplyInBatches(ctx context.Context, changes []*model.Permission, batchSize int) *BatchReport {
	return e.apply(ctx, log.GetLogger(), changes, batchSize)
}

func (e *BatchExecutor) apply(ctx context.Context, lg *zap.SugaredLogger, changes []*model.Permission, batchSize int) *BatchReport {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	report := &BatchReport{}
	for index, start := 0, 0; start < len(changes); index, start = index+1, start+batchSize {
		end := min(start+batchSize, len(changes))
		chunk := changes[start:end]
		result := BatchResult{Index: index, Size: len(chunk)}

		if err := ctx.Err(); err != nil {
			result.Err = &BatchError{Index: index, Size: len(chunk), Err: persistErr(err)}
		} else {
			attempts, err := retry.Do(ctx, func(ctx context.Context) error {
				return e.writer.BatchUpsertOrSoftDelete(ctx, chunk, batchSize)
			},
				retry.WithMaxAttempts(e.attempts),
				retry.WithBackoff(retry.Fixed(e.backoff)),
				retry.WithOnRetry(func(attempt int, err error) {
					lg.Warnw("permission batch failed, retrying", "batch", index, "attempt", attempt, "error", err)
				}),
			)
			result.Attempts = attempts
			if err != nil {
				if ctx.Err() != nil {
					err = fmt.Errorf("%w: %w", persistErr(ctx.Err()), err)
				}
				result.Err = &BatchError{Index: index, Size: len(chunk), Err: err}
			}
		}

		if result.Err != nil {
			lg.Errorw("permission batch failed", "batch", index, "size", result.Size, "attempts", result.Attempts, "error", result.Err)
		} else {
			lg.Infow("permission batch applied", "batch", index, "size", result.Size, "attempts", result.Attempts)
		}
		e.recorder.ObserveBatch(result.Err == nil)
		report.Batches = append(report.Batches, result)
	}
	return report
}

func persistErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrPersistTimeout
	}
	return err
}
