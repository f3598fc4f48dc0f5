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
	"sync"
	"time"

	"github.com/go-arcade/permsync/internal/model"
)

// memStore is an in-memory Store; failOn lists batch call numbers (0 based) that fail
type memStore struct {
	mu       sync.Mutex
	rows     []*model.Permission
	nextID   uint64
	calls    [][]*model.Permission
	listErr  error
	failOn   map[int]error
	block    bool
	listHits int
}

func newMemStore(rows ...*model.Permission) *memStore {
	s := &memStore{failOn: map[int]error{}}
	for _, r := range rows {
		cp := *r
		s.rows = append(s.rows, &cp)
		if cp.ID > s.nextID {
			s.nextID = cp.ID
		}
	}
	return s
}

func (s *memStore) ListActive(context.Context) ([]*model.Permission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listHits++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []*model.Permission
	for _, r := range s.rows {
		if !r.Deleted {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) BatchUpsertOrSoftDelete(ctx context.Context, perms []*model.Permission, _ int) error {
	s.mu.Lock()
	call := len(s.calls)
	s.calls = append(s.calls, perms)
	block := s.block
	err := s.failOn[call]
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range perms {
		cp := *p
		if cp.ID == 0 {
			s.nextID++
			cp.ID = s.nextID
			s.rows = append(s.rows, &cp)
			continue
		}
		found := false
		for i, r := range s.rows {
			if r.ID == cp.ID {
				s.rows[i] = &cp
				found = true
			}
		}
		if !found {
			return fmt.Errorf("no row with id %d", cp.ID)
		}
	}
	return nil
}

func (s *memStore) callSizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sizes := make([]int, len(s.calls))
	for i, c := range s.calls {
		sizes[i] = len(c)
	}
	return sizes
}

type countingRecorder struct {
	mu       sync.Mutex
	passes   []string
	changes  [3]int
	batchOK  int
	batchBad int
}

func (r *countingRecorder) ObservePass(status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passes = append(r.passes, status)
}

func (r *countingRecorder) ObserveChanges(i, m, d int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes[0] += i
	r.changes[1] += m
	r.changes[2] += d
}

func (r *countingRecorder) ObserveBatch(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ok {
		r.batchOK++
	} else {
		r.batchBad++
	}
}

type stubInvalidator struct {
	calls int
	err   error
}

func (s *stubInvalidator) Invalidate(context.Context) (int64, error) {
	s.calls++
	return 1, s.err
}

var errBoom = errors.New("boom")
