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

	"github.com/go-arcade/permsync/internal/declare"
	"github.com/go-arcade/permsync/internal/model"
	"github.com/go-arcade/permsync/pkg/log"
	"github.com/go-arcade/permsync/pkg/safe"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Store is the permission storage a pass reads and writes
type Store interface {
	Writer
	ListActive(ctx context.Context) ([]*model.Permission, error)
}

// SiteSource yields the declaration sites of the application
type SiteSource interface {
	Sites() []declare.Site
}

// Hook is caller-specific startup logic run before the sync
type Hook func(ctx context.Context) error

// Event triggers a pass. Events with a parent come from nested startup contexts and are ignored.
type Event struct {
	Name   string
	Parent *Event
}

// Status is the result class of a pass
type Status string

const (
	StatusSkipped        Status = "skipped"
	StatusDisabled       Status = "disabled"
	StatusSucceeded      Status = "succeeded"
	StatusPartialFailure Status = "partial_failure"
	StatusFailed         Status = "failed"
)

// Outcome describes a finished pass
type Outcome struct {
	PassID            string
	Status            Status
	Counts            Counts
	Batches           *BatchReport
	DeclarationErrors []error
	HookErr           error
	Err               error
	Duration          time.Duration
}

// Syncer runs the permission sync once per process start
type Syncer struct {
	store              Store
	sites              SiteSource
	hook               Hook
	storagePermissions bool
	env                Env
	policy             DeletionPolicy
	menuID             int64
	batchSize          int
	timeout            time.Duration
	retryAttempts      int
	retryBackoff       time.Duration
	recorder           Recorder
	invalidator        Invalidator
}

// Option configures a Syncer
type Option func(*Syncer)

func WithHook(h Hook) Option {
	return func(s *Syncer) { s.hook = h }
}

func WithStoragePermissions(enabled bool) Option {
	return func(s *Syncer) { s.storagePermissions = enabled }
}

// WithEnv sets the environment; the deletion policy follows it unless WithPolicy is also given
func WithEnv(env Env) Option {
	return func(s *Syncer) { s.env = env }
}

func WithPolicy(p DeletionPolicy) Option {
	return func(s *Syncer) { s.policy = p }
}

func WithMenuID(id int64) Option {
	return func(s *Syncer) { s.menuID = id }
}

func WithBatchSize(n int) Option {
	return func(s *Syncer) { s.batchSize = n }
}

func WithTimeout(d time.Duration) Option {
	return func(s *Syncer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithRetry(attempts int, backoff time.Duration) Option {
	return func(s *Syncer) {
		s.retryAttempts = attempts
		s.retryBackoff = backoff
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Syncer) {
		if r != nil {
			s.recorder = r
		}
	}
}

func WithInvalidator(inv Invalidator) Option {
	return func(s *Syncer) { s.invalidator = inv }
}

func NewSyncer(store Store, sites SiteSource, opts ...Option) *Syncer {
	s := &Syncer{
		store:              store,
		sites:              sites,
		storagePermissions: true,
		env:                EnvDev,
		menuID:             DefaultMenuID,
		batchSize:          DefaultBatchSize,
		timeout:            defaultTimeout,
		retryAttempts:      1,
		recorder:           nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.policy == "" {
		s.policy = s.env.Policy()
	}
	return s
}

// Policy returns the effective deletion policy
func (s *Syncer) Policy() DeletionPolicy {
	return s.policy
}

// Run executes one pass. It never panics and never returns an error; failures are in the Outcome.
func (s *Syncer) Run(ctx context.Context, ev Event) *Outcome {
	if ev.Parent != nil {
		log.Debugw("permission sync skipped for nested event", "event", ev.Name)
		return &Outcome{Status: StatusSkipped}
	}

	start := time.Now()
	out := &Outcome{PassID: uuid.NewString()}
	lg := log.With("pass", out.PassID)
	defer func() {
		out.Duration = time.Since(start)
		safe.Do(func() { s.recorder.ObservePass(string(out.Status), out.Duration) })
		lg.Infow("permission sync finished", "status", out.Status, "duration", out.Duration,
			"total", out.Counts.Total, "inserted", out.Counts.Inserted,
			"modified", out.Counts.Modified, "removed", out.Counts.Removed)
	}()

	if s.hook != nil {
		if err := safe.Call(func() error { return s.hook(ctx) }); err != nil {
			out.HookErr = err
			lg.Warnw("startup hook failed", "error", err)
		}
	}

	if !s.storagePermissions {
		out.Status = StatusDisabled
		return out
	}

	if err := safe.Call(func() error { return s.sync(ctx, lg, out) }); err != nil {
		out.Status = StatusFailed
		out.Err = err
		var pe *safe.PanicError
		if errors.As(err, &pe) {
			lg.Errorw("permission sync panicked", "panic", pe.Value, "stack", string(pe.Stack))
		} else {
			lg.Errorw("permission sync failed", "error", err)
		}
		return out
	}

	if out.Batches != nil && out.Batches.Failed() {
		out.Status = StatusPartialFailure
	} else {
		out.Status = StatusSucceeded
	}
	return out
}

func (s *Syncer) sync(ctx context.Context, lg *zap.SugaredLogger, out *Outcome) error {
	var sites []declare.Site
	if s.sites != nil {
		sites = s.sites.Sites()
	}
	// no sites means nothing was declared at all, not that everything was removed
	if len(sites) == 0 {
		lg.Warnw("no permission declaration sites registered, nothing to sync", "policy", s.policy)
		out.Batches = &BatchReport{}
		return nil
	}

	perms, err := s.store.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load permission snapshot: %w", err)
	}
	snapshot := NewSnapshot(perms)

	declared, errs := NewCollector(s.menuID).Collect(sites)
	for _, e := range errs {
		lg.Warnw("permission declaration skipped", "error", e)
	}
	out.DeclarationErrors = errs

	plan := Reconcile(snapshot, declared, s.policy)
	out.Counts = plan.Counts
	s.recorder.ObserveChanges(plan.Counts.Inserted, plan.Counts.Modified, plan.Counts.Removed)
	lg.Infow("permission plan ready", "policy", s.policy, "snapshot", snapshot.Len(),
		"total", plan.Counts.Total, "inserted", plan.Counts.Inserted,
		"modified", plan.Counts.Modified, "removed", plan.Counts.Removed)

	if plan.Empty() {
		out.Batches = &BatchReport{}
		return nil
	}

	pctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	executor := NewBatchExecutor(s.store, s.retryAttempts, s.retryBackoff, s.recorder)
	out.Batches = executor.apply(pctx, lg, plan.Changes, s.batchSize)

	if s.invalidator != nil && out.Batches.Applied() > 0 {
		n, err := s.invalidator.Invalidate(ctx)
		if err != nil {
			lg.Warnw("failed to invalidate permission cache", "error", err)
		} else {
			lg.Debugw("permission cache invalidated", "keys", n)
		}
	}
	return nil
}
