/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package report shows the localized result of an export and honors the
// "don't show this message again" preference for the missing-folder case.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"gorendition/internal/domain"
	"gorendition/internal/i18n"
	applog "gorendition/internal/log"
	"gorendition/internal/prefs"
)

// Notice is one blocking acknowledgment dialog.
type Notice struct {
	Kind       domain.Kind
	Message    i18n.Message
	OutputPath string // set for Success
	OfferSkip  bool   // show Message.Checkbox
}

// Ack is the user's answer to a Notice.
type Ack struct {
	Skip bool // checkbox ticked
}

// Notifier shows a Notice and blocks until it is acknowledged.
type Notifier interface {
	Acknowledge(ctx context.Context, n Notice) (Ack, error)
}

// Messages resolves localized strings; *i18n.Catalog implements it.
type Messages interface {
	Message(kind domain.Kind, code string, format domain.RenditionType) i18n.Message
}

// Store is the preferences store as seen by the reporter.
type Store interface {
	Load(ctx context.Context) prefs.Record
	Save(ctx context.Context, rec prefs.Record) (prefs.Record, error)
}

type Reporter struct {
	Messages Messages
	Notifier Notifier
	Store    Store
}

// Report shows outcome in language lang and reports whether a dialog was shown.
// A NoFolder outcome is suppressed when the stored preferences, read fresh from
// disk, say so.
func (r *Reporter) Report(ctx context.Context, outcome domain.Outcome, lang string) (bool, error) {
	l := applog.WithOperation(applog.WithComponent("report"), "report")
	var current prefs.Record
	if outcome.Kind.Suppressible() {
		current = r.Store.Load(ctx)
		if current.SkipNoFolderMessage {
			l.DebugContext(ctx, "message suppressed", slog.String("kind", outcome.Kind.String()))
			return false, nil
		}
	}

	n := Notice{
		Kind:       outcome.Kind,
		Message:    r.Messages.Message(outcome.Kind, lang, formatOf(outcome.OutputPath)),
		OutputPath: outcome.OutputPath,
		OfferSkip:  outcome.Kind.Suppressible(),
	}
	ack, err := r.Notifier.Acknowledge(ctx, n)
	if err != nil {
		return false, fmt.Errorf("show %s message: %w", outcome.Kind, err)
	}
	l.InfoContext(ctx, "result shown", slog.String("kind", outcome.Kind.String()), slog.Bool("skip", ack.Skip))

	if n.OfferSkip && ack.Skip {
		current = r.Store.Load(ctx)
		current.SkipNoFolderMessage = true
		if _, err := r.Store.Save(ctx, current); err != nil {
			return true, fmt.Errorf("save message preference: %w", err)
		}
	}
	return true, nil
}

func formatOf(path string) domain.RenditionType {
	t, _ := domain.ParseRenditionType(strings.TrimPrefix(filepath.Ext(path), "."))
	return t
}
