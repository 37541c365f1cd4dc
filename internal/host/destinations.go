/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package host

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorendition/internal/dialog"
	"gorendition/internal/export"
)

// FolderPicker asks for a destination folder. An empty path means none was chosen.
type FolderPicker interface {
	PickFolder(ctx context.Context) (string, error)
}

// FixedFolder is a FolderPicker that always answers with the same folder.
type FixedFolder string

func (f FixedFolder) PickFolder(context.Context) (string, error) { return string(f), nil }

// TerminalFolderPicker prompts for a folder. Interrupt or end of input aborts the pick.
type TerminalFolderPicker struct {
	In      dialog.LineReader
	Label   string
	Suggest string
}

func (t TerminalFolderPicker) PickFolder(ctx context.Context) (string, error) {
	ans, err := dialog.Ask(ctx, t.In, t.Label, t.Suggest)
	if errors.Is(err, dialog.ErrCanceled) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if ans == "" {
		ans = t.Suggest
	}
	return ans, nil
}

// FolderDestinations creates output files in a folder chosen through Picker.
type FolderDestinations struct {
	Picker FolderPicker
}

func (d FolderDestinations) Create(ctx context.Context, name string, overwrite bool) (*os.File, error) {
	if d.Picker == nil {
		return nil, export.ErrNoFolder
	}
	dir, err := d.Picker.PickFolder(ctx)
	if err != nil {
		return nil, fmt.Errorf("pick folder: %w", err)
	}
	if dir == "" {
		return nil, export.ErrNoFolder
	}
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a folder", export.ErrNoFolder, dir)
	}
	return createIn(dir, name, overwrite)
}

// TempDestinations writes into a fresh temporary folder, for previews.
type TempDestinations struct {
	Dir string // parent; empty means os.TempDir()
}

func (d TempDestinations) Create(_ context.Context, name string, _ bool) (*os.File, error) {
	dir, err := os.MkdirTemp(d.Dir, "gorendition-preview-")
	if err != nil {
		return nil, fmt.Errorf("preview folder: %w", err)
	}
	return createIn(dir, name, true)
}

// createIn opens dir/name for writing. Without overwrite an existing file is
// reported as export.ErrFileExists and left untouched.
func createIn(dir, name string, overwrite bool) (*os.File, error) {
	path := filepath.Join(dir, filepath.Base(name))
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("%w: %s", export.ErrFileExists, path)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}
