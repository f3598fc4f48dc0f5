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
)

var (
	// ErrMalformedDeclaration is wrapped by every *DeclarationError
	ErrMalformedDeclaration = errors.New("malformed permission declaration")
	// ErrPersistTimeout marks batches cut short by the persistence deadline
	ErrPersistTimeout = fmt.Errorf("permission persistence timed out: %w", context.DeadlineExceeded)
)

// DeclarationError reports a declaration skipped during collection
type DeclarationError struct {
	Group  string
	Index  int
	Reason string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("group %q declaration %d: %s", e.Group, e.Index, e.Reason)
}

func (e *DeclarationError) Unwrap() error {
	return ErrMalformedDeclaration
}

// BatchError reports one failed persistence batch
type BatchError struct {
	Index int
	Size  int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d (%d records): %v", e.Index, e.Size, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
