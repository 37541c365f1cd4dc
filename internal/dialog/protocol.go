/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package dialog runs the modal settings dialog and persists the confirmed
// settings before handing them to the caller.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorendition/internal/i18n"
	applog "gorendition/internal/log"
	"gorendition/internal/prefs"
	"gorendition/internal/settings"
)

// ErrCanceled is returned by a Presenter when the user cancels or dismisses the dialog.
var ErrCanceled = errors.New("settings dialog canceled")

// Presenter shows the settings dialog and blocks until it closes.
type Presenter interface {
	ShowSettings(ctx context.Context, seed settings.Seed, labels i18n.Labels) (settings.FormValues, error)
}

// Store persists a confirmed record and returns it as stored.
type Store interface {
	Save(ctx context.Context, rec prefs.Record) (prefs.Record, error)
}

// Result is either Canceled or the settings that were saved.
type Result struct {
	Canceled bool
	Settings prefs.Record
}

// Protocol seeds, presents, reconciles and saves, in that order.
type Protocol struct {
	Reconciler settings.Reconciler
	Presenter  Presenter
	Store      Store
}

// Run shows the dialog seeded from stored. On confirm the reconciled record is
// saved before Run returns; on cancel nothing is written.
func (p *Protocol) Run(ctx context.Context, stored prefs.Record, labels i18n.Labels) (Result, error) {
	l := applog.WithOperation(applog.WithComponent("dialog"), "run")
	seed := p.Reconciler.SeedDialog(stored)
	values, err := p.Presenter.ShowSettings(ctx, seed, labels)
	if errors.Is(err, ErrCanceled) {
		l.InfoContext(ctx, "settings dialog canceled")
		return Result{Canceled: true}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("show settings: %w", err)
	}
	rec := p.Reconciler.Reconcile(stored, values)
	saved, err := p.Store.Save(ctx, rec)
	if err != nil {
		return Result{}, fmt.Errorf("save settings: %w", err)
	}
	l.InfoContext(ctx, "settings confirmed",
		slog.String("type", string(saved.RenditionType)),
		slog.Int("scale", saved.Scale),
		slog.Bool("overwrite", saved.OverwriteFile))
	return Result{Settings: saved}, nil
}
