/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package settings reconciles stored preferences with the values a user edits in
// the settings dialog.
package settings

import (
	"math"

	"gorendition/internal/domain"
	"gorendition/internal/prefs"
)

// FormValues are the raw widget values of a confirmed settings dialog.
type FormValues struct {
	Filename      string
	RenditionType string  // value of the selected format option
	Scale         float64 // slider position
	Overwrite     bool    // checkbox state
}

// Seed holds the initial field values of the settings dialog.
type Seed struct {
	Filename string
	Formats  []domain.RenditionType
	// SelectedIndex is the position of the stored format in Formats, or -1 when
	// the stored format is not offered.
	SelectedIndex int
	Scale         int
	Overwrite     bool
}

// Selected returns the preselected format, falling back to the first offered one.
func (s Seed) Selected() domain.RenditionType {
	if s.SelectedIndex >= 0 && s.SelectedIndex < len(s.Formats) {
		return s.Formats[s.SelectedIndex]
	}
	if len(s.Formats) > 0 {
		return s.Formats[0]
	}
	return ""
}

// Values returns the form values a user would submit without touching anything.
func (s Seed) Values() FormValues {
	return FormValues{
		Filename:      s.Filename,
		RenditionType: string(s.Selected()),
		Scale:         float64(s.Scale),
		Overwrite:     s.Overwrite,
	}
}

// Reconciler knows the formats the host offers; their order is the host's.
type Reconciler struct {
	Formats []domain.RenditionType
}

func New(formats []domain.RenditionType) Reconciler {
	return Reconciler{Formats: append([]domain.RenditionType(nil), formats...)}
}

// SeedDialog passes the stored values through as initial field values. The format
// is preselected by value, never by position.
func (r Reconciler) SeedDialog(stored prefs.Record) Seed {
	return Seed{
		Filename:      stored.Filename,
		Formats:       append([]domain.RenditionType(nil), r.Formats...),
		SelectedIndex: r.indexOf(stored.RenditionType),
		Scale:         stored.Scale,
		Overwrite:     stored.OverwriteFile,
	}
}

// Reconcile overlays the editable fields of edited onto stored. Fields the dialog
// does not expose pass through. Input is normalized, never rejected.
func (r Reconciler) Reconcile(stored prefs.Record, edited FormValues) prefs.Record {
	out := stored
	out.Filename = edited.Filename
	out.OverwriteFile = edited.Overwrite
	out.Scale = NormalizeScale(edited.Scale, stored.Scale)
	if t, ok := domain.ParseRenditionType(edited.RenditionType); ok && r.indexOf(t) >= 0 {
		out.RenditionType = t
	}
	return out
}

func (r Reconciler) indexOf(t domain.RenditionType) int {
	for i, f := range r.Formats {
		if f == t {
			return i
		}
	}
	return -1
}

// NormalizeScale rounds v to the nearest integer within [MinScale, MaxScale].
// NaN keeps fallback (itself clamped); infinities clamp like any other value.
func NormalizeScale(v float64, fallback int) int {
	if math.IsNaN(v) {
		v = float64(fallback)
	}
	v = math.Max(prefs.MinScale, math.Min(prefs.MaxScale, v))
	return int(math.Round(v))
}
