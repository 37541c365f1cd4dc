/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gorendition/internal/domain"
)

func TestLoadFirstRunPersistsDefaults(t *testing.T) {
	s := NewStore(t.TempDir())
	got := s.Load(context.Background())
	if got != Defaults() {
		t.Fatalf("Load() = %+v, want defaults", got)
	}
	b, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("defaults not persisted: %v", err)
	}
	var onDisk Record
	if err := json.Unmarshal(b, &onDisk); err != nil || onDisk != Defaults() {
		t.Fatalf("persisted defaults mismatch: %+v (%v)", onDisk, err)
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()
	if _, err := s.Save(ctx, Record{RenditionType: domain.SVG, Scale: 3, Filename: "icon"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	a := s.Load(ctx)
	b := s.Load(ctx)
	if a != b {
		t.Fatalf("Load not idempotent: %+v vs %+v", a, b)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()
	records := []Record{
		{RenditionType: domain.PNG, Scale: 1, OverwriteFile: true, Filename: ""},
		{RenditionType: domain.JPG, Scale: 5, OverwriteFile: false, Filename: "hero banner", SkipNoFolderMessage: true},
		{RenditionType: domain.PDF, Scale: 2, OverwriteFile: true, Filename: "ロゴ"},
		{RenditionType: domain.SVG, Scale: 4, Filename: `quote"d`},
	}
	for _, rec := range records {
		stored, err := s.Save(ctx, rec)
		if err != nil {
			t.Fatalf("Save(%+v): %v", rec, err)
		}
		if stored != rec {
			t.Fatalf("Save returned %+v, want %+v", stored, rec)
		}
		if got := s.Load(ctx); got != rec {
			t.Fatalf("Load after Save = %+v, want %+v", got, rec)
		}
	}
}

func TestLoadResetsUnusableFile(t *testing.T) {
	cases := map[string]string{
		"not json":      "{oops",
		"scale too big": `{"renditionType":"png","scale":9,"overwriteFile":true,"filename":""}`,
		"unknown type":  `{"renditionType":"gif","scale":1,"overwriteFile":true,"filename":""}`,
		"missing field": `{"renditionType":"png","scale":1}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			s := NewStore(t.TempDir())
			if err := os.WriteFile(s.Path(), []byte(content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if got := s.Load(context.Background()); got != Defaults() {
				t.Fatalf("Load() = %+v, want defaults", got)
			}
			// the file has been repaired
			if _, err := s.read(); err != nil {
				t.Fatalf("file not repaired: %v", err)
			}
		})
	}
}

func TestSaveRejectsOutOfRangeRecord(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()
	want := Record{RenditionType: domain.PNG, Scale: 2, Filename: "keep"}
	if _, err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_, err := s.Save(ctx, Record{RenditionType: domain.PNG, Scale: 0})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if got := s.Load(ctx); got != want {
		t.Fatalf("rejected save must not touch the file: %+v", got)
	}
}

func TestLoadNeverFailsWhenDirUnwritable(t *testing.T) {
	// A regular file where the data directory should be makes every write fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := NewStore(blocker)
	if got := s.Load(context.Background()); got != Defaults() {
		t.Fatalf("Load() = %+v, want defaults", got)
	}
}
