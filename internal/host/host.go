/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package host provides the collaborators the export pipeline needs from its
// environment: the supported formats, the UI language, the current selection
// and the destination folder.
package host

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	locale "github.com/jeandeaual/go-locale"

	"gorendition/internal/config"
	"gorendition/internal/domain"
	"gorendition/internal/export"
	applog "gorendition/internal/log"
	"gorendition/internal/rendition"
	"gorendition/internal/storage"
)

// ErrUnknownNode is returned by Resolve for an ID that is not in the document.
var ErrUnknownNode = errors.New("unknown node")

// Host is the environment of one invocation.
type Host struct {
	Config   config.AppConfig
	Document *storage.DocumentHandle

	// osLanguage defaults to go-locale's detection; tests replace it.
	osLanguage func() (string, error)
}

func New(cfg config.AppConfig, doc *storage.DocumentHandle) *Host {
	return &Host{Config: cfg, Document: doc, osLanguage: locale.GetLanguage}
}

// SupportedFormats returns the formats offered in the settings dialog.
func (h *Host) SupportedFormats() []domain.RenditionType {
	return rendition.Types()
}

// CurrentLanguage returns the configured language, else the OS language, else "en".
func (h *Host) CurrentLanguage() string {
	if lang := strings.TrimSpace(h.Config.General.Language); lang != "" {
		return lang
	}
	detect := h.osLanguage
	if detect == nil {
		detect = locale.GetLanguage
	}
	lang, err := detect()
	if err != nil || strings.TrimSpace(lang) == "" {
		applog.WithComponent("host").Debug("os language unavailable", slog.Any("err", err))
		return "en"
	}
	return lang
}

// Resolve looks up the selected node IDs in order. No IDs is an empty selection.
func (h *Host) Resolve(ids []string) (export.Selection, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if h.Document == nil {
		return nil, errors.New("no document open")
	}
	sel := make(export.Selection, 0, len(ids))
	for _, id := range ids {
		n, ok := h.Document.Document.Find(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
		}
		sel = append(sel, export.Item{Node: n, AssetDir: h.Document.Dir()})
	}
	return sel, nil
}
