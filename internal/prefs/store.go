/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package prefs persists the user's export preferences as a flat JSON object
// (prefs.json) in the per-installation data directory.
//
// Absence is the first-run case, not an error: Load synthesizes, persists and
// returns the defaults whenever the file is missing or unusable.
package prefs

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"gorendition/internal/domain"
	applog "gorendition/internal/log"
	"gorendition/internal/storage"
)

// FileName is the name of the preferences file inside the data directory.
const FileName = "prefs.json"

// Scale bounds.
const (
	MinScale = 1
	MaxScale = 5
)

// Record is the persisted settings record.
type Record struct {
	RenditionType       domain.RenditionType `json:"renditionType"`
	Scale               int                  `json:"scale"`
	OverwriteFile       bool                 `json:"overwriteFile"`
	Filename            string               `json:"filename"`
	SkipNoFolderMessage bool                 `json:"skipNoFolderMessage"`
}

// Defaults returns the record used on first run.
func Defaults() Record {
	return Record{
		RenditionType:       domain.PNG,
		Scale:               1,
		OverwriteFile:       true,
		Filename:            "",
		SkipNoFolderMessage: false,
	}
}

//go:embed prefs.schema.json
var schema []byte

var schemaLoader = gojsonschema.NewBytesLoader(schema)

// ErrInvalid is returned for a preferences file that does not conform to the schema.
var ErrInvalid = errors.New("invalid preferences file")

// Store reads and writes the preferences file. It holds no cached record:
// every Load goes to disk.
type Store struct {
	path string
	log  *slog.Logger
}

// NewStore returns a store for dir/prefs.json. The directory is created on first save.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName), log: applog.WithComponent("prefs")}
}

// Path returns the location of the preferences file.
func (s *Store) Path() string { return s.path }

// Load returns the persisted record. If none exists, or it cannot be read, parsed
// or validated, the defaults are persisted and returned. Load never fails.
func (s *Store) Load(ctx context.Context) Record {
	l := applog.WithOperation(s.log, "load")
	rec, err := s.read()
	if err == nil {
		return rec
	}
	if errors.Is(err, fs.ErrNotExist) {
		l.InfoContext(ctx, "no preferences yet, writing defaults", slog.String("path", s.path))
	} else {
		l.WarnContext(ctx, "preferences unusable, resetting to defaults", slog.String("path", s.path), slog.Any("err", err))
	}
	saved, serr := s.Save(ctx, Defaults())
	if serr != nil {
		l.ErrorContext(ctx, "persist default preferences failed", slog.Any("err", serr))
		return Defaults()
	}
	return saved
}

// Save replaces the preferences file atomically, reads it back and returns the
// record as it is now stored.
func (s *Store) Save(ctx context.Context, rec Record) (Record, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Record{}, fmt.Errorf("marshal preferences: %w", err)
	}
	data = append(data, '\n')
	if err := validate(data); err != nil {
		return Record{}, err
	}
	if err := storage.WriteFileAtomic(s.path, data); err != nil {
		return Record{}, fmt.Errorf("write preferences: %w", err)
	}
	stored, err := s.read()
	if err != nil {
		return Record{}, fmt.Errorf("confirm preferences: %w", err)
	}
	if stored != rec {
		return stored, fmt.Errorf("confirm preferences: stored record differs from written record")
	}
	applog.WithOperation(s.log, "save").DebugContext(ctx, "preferences saved",
		slog.String("path", s.path),
		slog.String("type", string(stored.RenditionType)),
		slog.Int("scale", stored.Scale))
	return stored, nil
}

// Reset overwrites the file with the defaults.
func (s *Store) Reset(ctx context.Context) (Record, error) {
	return s.Save(ctx, Defaults())
}

func (s *Store) read() (Record, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return Record{}, err
	}
	if err := validate(b); err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return Record{}, fmt.Errorf("parse preferences: %w", err)
	}
	return rec, nil
}

func validate(data []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !res.Valid() {
		errs := res.Errors()
		return fmt.Errorf("%w: %s (and %d more)", ErrInvalid, errs[0].String(), len(errs)-1)
	}
	return nil
}
