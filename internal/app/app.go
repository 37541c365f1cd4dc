/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package app wires one export invocation: selection check, settings dialog,
// export and result report, strictly in that order.
package app

import (
	"context"
	"log/slog"

	"gorendition/internal/dialog"
	"gorendition/internal/domain"
	"gorendition/internal/export"
	"gorendition/internal/host"
	"gorendition/internal/i18n"
	applog "gorendition/internal/log"
	"gorendition/internal/prefs"
	"gorendition/internal/report"
	"gorendition/internal/settings"
)

type Environment interface {
	CurrentLanguage() string
}

type Preferences interface {
	Load(ctx context.Context) prefs.Record
}

type Localizer interface {
	Labels(code string) i18n.Labels
}

type SettingsDialog interface {
	Run(ctx context.Context, stored prefs.Record, labels i18n.Labels) (dialog.Result, error)
}

type Exporter interface {
	Export(ctx context.Context, sel export.Selection, s prefs.Record) domain.Outcome
}

type Reporter interface {
	Report(ctx context.Context, outcome domain.Outcome, lang string) (bool, error)
}

// Invocation holds the collaborators of one run. Nothing is cached between runs.
type Invocation struct {
	Env      Environment
	Prefs    Preferences
	Strings  Localizer
	Dialog   SettingsDialog
	Exporter Exporter
	Reporter Reporter
}

// Summary describes how a run ended.
type Summary struct {
	Canceled bool
	Outcome  domain.Outcome
	Reported bool
}

// Failed reports whether the run ended in an error outcome.
func (s Summary) Failed() bool { return !s.Canceled && s.Outcome.Kind.IsError() }

// Parts are the concrete pieces New wires together.
type Parts struct {
	Host         *host.Host
	Store        *prefs.Store
	Catalog      *i18n.Catalog
	Presenter    dialog.Presenter
	Destinations export.Destinations
	Renderer     export.Renderer
	Notifier     report.Notifier
}

// New builds an Invocation from concrete parts.
func New(p Parts) *Invocation {
	return &Invocation{
		Env:     p.Host,
		Prefs:   p.Store,
		Strings: p.Catalog,
		Dialog: &dialog.Protocol{
			Reconciler: settings.New(p.Host.SupportedFormats()),
			Presenter:  p.Presenter,
			Store:      p.Store,
		},
		Exporter: export.New(p.Destinations, p.Renderer, export.Options{
			Quality:     p.Host.Config.Render.Quality,
			EmbedImages: p.Host.Config.Render.EmbedImages,
		}),
		Reporter: &report.Reporter{Messages: p.Catalog, Notifier: p.Notifier, Store: p.Store},
	}
}

// Run executes the pipeline for sel. A canceled dialog ends the run silently.
func (inv *Invocation) Run(ctx context.Context, sel export.Selection) Summary {
	ctx, id := applog.NewInvocation(ctx)
	l := applog.WithOperation(applog.WithComponent("app"), "run")
	lang := inv.Env.CurrentLanguage()
	l.InfoContext(ctx, "invocation started", slog.String("id", id), slog.String("lang", lang), slog.Int("selected", len(sel)))

	if len(sel) == 0 {
		return inv.report(ctx, domain.Failed(domain.NoSelection), lang)
	}

	stored := inv.Prefs.Load(ctx)
	res, err := inv.Dialog.Run(ctx, stored, inv.Strings.Labels(lang))
	if err != nil {
		l.ErrorContext(ctx, "settings dialog failed", slog.Any("err", err))
		return inv.report(ctx, domain.Failed(domain.Unknown), lang)
	}
	if res.Canceled {
		l.InfoContext(ctx, "invocation canceled")
		return Summary{Canceled: true}
	}

	outcome := inv.Exporter.Export(ctx, sel, res.Settings)
	return inv.report(ctx, outcome, lang)
}

func (inv *Invocation) report(ctx context.Context, outcome domain.Outcome, lang string) Summary {
	shown, err := inv.Reporter.Report(ctx, outcome, lang)
	if err != nil {
		applog.WithComponent("app").ErrorContext(ctx, "report failed", slog.String("kind", outcome.Kind.String()), slog.Any("err", err))
	}
	return Summary{Outcome: outcome, Reported: shown}
}
