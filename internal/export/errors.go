/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders the current selection to a file in a user-chosen
// folder and classifies every failure into the closed outcome taxonomy.
package export

import (
	"errors"
	"fmt"

	"gorendition/internal/domain"
)

var (
	// ErrNoFolder is returned by Destinations when no folder was chosen.
	ErrNoFolder = errors.New("no destination folder")
	// ErrFileExists is returned by Destinations when the target exists and overwrite is off.
	ErrFileExists = errors.New("destination file exists")
)

// Error carries the outcome kind an export failure maps to.
type Error struct {
	Kind domain.Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(kind domain.Kind, err error) error { return &Error{Kind: kind, Err: err} }

// KindOf classifies err. nil is Success; errors without a kind are Unknown.
func KindOf(err error) domain.Kind {
	if err == nil {
		return domain.Success
	}
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return domain.Unknown
}
