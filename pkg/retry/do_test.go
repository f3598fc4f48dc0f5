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

package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_Success(t *testing.T) {
	attempts, err := Do(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestDo_RetrySuccess(t *testing.T) {
	calls := 0
	attempts, err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, WithMaxAttempts(3), WithBackoff(Fixed(time.Millisecond)))
	if err != nil {
		t.Errorf("expected no error after retries, got %v", err)
	}
	if attempts != 3 || calls != 3 {
		t.Errorf("expected 3 attempts, got attempts=%d calls=%d", attempts, calls)
	}
}

func TestDo_MaxAttempts(t *testing.T) {
	var retried []int
	attempts, err := Do(context.Background(), func(ctx context.Context) error {
		return errors.New("persistent error")
	},
		WithMaxAttempts(3),
		WithBackoff(Fixed(0)),
		WithOnRetry(func(attempt int, err error) { retried = append(retried, attempt) }),
	)
	if err == nil {
		t.Error("expected error after max attempts")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if len(retried) != 2 || retried[0] != 1 || retried[1] != 2 {
		t.Errorf("unexpected retry callbacks: %v", retried)
	}
}

func TestDo_NonRetryable(t *testing.T) {
	permanent := errors.New("permanent")
	attempts, err := Do(context.Background(), func(ctx context.Context) error {
		return permanent
	}, WithMaxAttempts(5), WithRetryIf(func(err error) bool { return !errors.Is(err, permanent) }))
	if !errors.Is(err, permanent) {
		t.Errorf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	attempts, err := Do(ctx, func(ctx context.Context) error {
		calls++
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if attempts != 0 || calls != 0 {
		t.Errorf("expected no attempts, got attempts=%d calls=%d", attempts, calls)
	}
}

func TestDo_DeadlineNotRetried(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return context.DeadlineExceeded
	}, WithMaxAttempts(4))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestExponentialBackoff(t *testing.T) {
	b := Exponential(10*time.Millisecond, 50*time.Millisecond)
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond, 50 * time.Millisecond}
	for i, w := range want {
		if got := b.Next(i); got != w {
			t.Errorf("Next(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestFullJitter(t *testing.T) {
	if FullJitter(0) != 0 {
		t.Error("expected zero jitter for zero duration")
	}
	for i := 0; i < 100; i++ {
		if d := FullJitter(time.Second); d < 0 || d >= time.Second {
			t.Fatalf("jitter out of range: %v", d)
		}
	}
}
