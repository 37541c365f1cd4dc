/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gorendition/internal/domain"
)

// BackupsDirName is the folder next to a document that holds timestamped backups.
const BackupsDirName = ".backups"

// DocumentHandle keeps track of a document loaded from / saved to disk.
type DocumentHandle struct {
	Path     string
	Document domain.Document
}

// Dir returns the folder containing the document; relative asset paths resolve against it.
func (h *DocumentHandle) Dir() string { return filepath.Dir(h.Path) }

// Create writes a new document at path. It fails if the file already exists.
func Create(path string, doc domain.Document) (*DocumentHandle, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("document path is required")
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("create document: %s already exists", path)
	}
	if doc.Artboards == nil {
		doc.Artboards = []domain.Artboard{}
	}
	h := &DocumentHandle{Path: path, Document: doc}
	if err := Save(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Open loads and validates a document. If the file cannot be read or does not
// conform to the schema, the latest backup is tried before giving up.
func Open(path string) (*DocumentHandle, error) {
	doc, err := readDocument(path)
	if err != nil {
		bdoc, berr := openFromLatestBackup(path)
		if berr != nil {
			return nil, fmt.Errorf("open document: %w; backup attempt: %v", err, berr)
		}
		return &DocumentHandle{Path: path, Document: *bdoc}, nil
	}
	return &DocumentHandle{Path: path, Document: *doc}, nil
}

func readDocument(path string) (*domain.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := ValidateDocument(b); err != nil {
		return nil, err
	}
	var d domain.Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &d, nil
}

// Save writes the document with transactional semantics and a timestamped
// backup of the previous version (if present).
func Save(h *DocumentHandle) error {
	if h == nil {
		return errors.New("nil DocumentHandle")
	}
	if h.Path == "" {
		return errors.New("invalid DocumentHandle: missing path")
	}
	data, err := json.MarshalIndent(h.Document, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	if _, statErr := os.Stat(h.Path); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", filepath.Base(h.Path), stamp)
		bpath := filepath.Join(h.Dir(), BackupsDirName, bname)
		if cerr := copyFile(h.Path, bpath); cerr != nil {
			return fmt.Errorf("backup current document: %w", cerr)
		}
	}
	return WriteFileAtomic(h.Path, data)
}

// openFromLatestBackup tries to open the latest timestamped backup of path.
func openFromLatestBackup(path string) (*domain.Document, error) {
	bdir := filepath.Join(filepath.Dir(path), BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	prefix := filepath.Base(path) + "."
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	return readDocument(candidates[len(candidates)-1])
}
