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

package safe

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/go-arcade/permsync/pkg/log"
)

// PanicError is returned by Call when fn panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("recovered from panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Go starts f in a new goroutine and logs any panic.
func Go(f func()) {
	go Do(f)
}

// Do runs f and logs any panic with its stack.
func Do(f func()) {
	if err := Call(func() error { f(); return nil }); err != nil {
		var pe *PanicError
		if errors.As(err, &pe) {
			log.Errorw("recovered from panic", "panic", pe.Value, "stack", string(pe.Stack))
		}
	}
}

// Call runs fn and converts a panic into a *PanicError.
func Call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}
