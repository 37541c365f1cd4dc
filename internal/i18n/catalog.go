/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package i18n holds the localized strings of the settings dialog and the result
// dialog. Strings are keyed by the closed outcome enumeration, never by free-form
// keys, and every bundled language is checked for completeness when the catalog
// is built.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"gorendition/internal/domain"
)

//go:embed locales/*.yaml
var locales embed.FS

// Message is the heading/body/button triple of a result dialog. Checkbox is only
// set for kinds the user may suppress.
type Message struct {
	Heading  string
	Body     string
	Button   string
	Checkbox string
}

// Labels are the settings dialog strings.
type Labels struct {
	Title               string
	Filename            string
	FilenamePlaceholder string
	Format              string
	Scale               string
	Overwrite           string
	OK                  string
	Cancel              string
}

// ErrIncomplete is returned when a bundled language lacks a required string.
var ErrIncomplete = errors.New("incomplete translation")

// Catalog resolves messages for a language code such as "en", "ja" or "ja_JP".
type Catalog struct {
	bundle  *goi18n.Bundle
	tags    []language.Tag
	matcher language.Matcher
}

// New loads the embedded locale files and validates them.
func New() (*Catalog, error) {
	sub, err := fs.Sub(locales, "locales")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load builds a catalog from *.yaml files at the root of fsys. The file name
// (without extension) is the language tag. English is the fallback language.
func Load(fsys fs.FS) (*Catalog, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New("no locale files found")
	}
	sort.Strings(names)
	for _, name := range names {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := bundle.ParseMessageFileBytes(b, path.Base(name)); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	tags := bundle.LanguageTags()
	c := &Catalog{bundle: bundle, tags: tags, matcher: language.NewMatcher(tags)}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// requiredIDs lists every message id each language must define.
func requiredIDs() []string {
	ids := []string{
		"controls.title", "controls.filename", "controls.filenamePlaceholder", "controls.format",
		"controls.scale", "controls.overwrite", "controls.ok", "controls.cancel",
	}
	for _, k := range domain.Kinds() {
		ids = append(ids, k.String()+".heading", k.String()+".body", k.String()+".button")
		if k.Suppressible() {
			ids = append(ids, k.String()+".checkbox")
		}
	}
	return ids
}

// Validate checks that every bundled language defines every required string.
func (c *Catalog) Validate() error {
	var missing []string
	for _, tag := range c.tags {
		loc := goi18n.NewLocalizer(c.bundle, tag.String())
		for _, id := range requiredIDs() {
			_, got, err := loc.LocalizeWithTag(&goi18n.LocalizeConfig{
				MessageID:    id,
				TemplateData: map[string]string{"Format": "PNG"},
			})
			if err != nil || got != tag {
				missing = append(missing, tag.String()+":"+id)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

// Languages returns the bundled language tags.
func (c *Catalog) Languages() []language.Tag {
	return append([]language.Tag(nil), c.tags...)
}

// Match picks the bundled language closest to code; unknown codes get English.
func (c *Catalog) Match(code string) language.Tag {
	t, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
	if err != nil {
		return language.English
	}
	_, idx, conf := c.matcher.Match(t)
	if conf == language.No {
		return language.English
	}
	return c.tags[idx]
}

// Message returns the strings for kind in the language closest to code.
// format is substituted into bodies that mention the rendition type.
func (c *Catalog) Message(kind domain.Kind, code string, format domain.RenditionType) Message {
	loc := c.localizer(code)
	data := map[string]string{"Format": format.Label()}
	m := Message{
		Heading: c.lookup(loc, kind.String()+".heading", data),
		Body:    c.lookup(loc, kind.String()+".body", data),
		Button:  c.lookup(loc, kind.String()+".button", data),
	}
	if kind.Suppressible() {
		m.Checkbox = c.lookup(loc, kind.String()+".checkbox", data)
	}
	return m
}

// Labels returns the settings dialog strings in the language closest to code.
func (c *Catalog) Labels(code string) Labels {
	loc := c.localizer(code)
	return Labels{
		Title:               c.lookup(loc, "controls.title", nil),
		Filename:            c.lookup(loc, "controls.filename", nil),
		FilenamePlaceholder: c.lookup(loc, "controls.filenamePlaceholder", nil),
		Format:              c.lookup(loc, "controls.format", nil),
		Scale:               c.lookup(loc, "controls.scale", nil),
		Overwrite:           c.lookup(loc, "controls.overwrite", nil),
		OK:                  c.lookup(loc, "controls.ok", nil),
		Cancel:              c.lookup(loc, "controls.cancel", nil),
	}
}

func (c *Catalog) localizer(code string) *goi18n.Localizer {
	return goi18n.NewLocalizer(c.bundle, c.Match(code).String())
}

// lookup cannot miss after Validate; the id is returned as a last resort.
func (c *Catalog) lookup(loc *goi18n.Localizer, id string, data any) string {
	s, err := loc.Localize(&goi18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil && s == "" {
		return id
	}
	return s
}
