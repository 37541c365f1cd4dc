/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorendition/internal/config"
	"gorendition/internal/dialog"
	"gorendition/internal/domain"
	"gorendition/internal/export"
	"gorendition/internal/host"
	"gorendition/internal/i18n"
	"gorendition/internal/prefs"
	"gorendition/internal/rendition"
	"gorendition/internal/report"
	"gorendition/internal/settings"
	"gorendition/internal/storage"
)

type staticEnv string

func (e staticEnv) CurrentLanguage() string { return string(e) }

type fakeDialog struct {
	res   dialog.Result
	err   error
	calls int
}

func (f *fakeDialog) Run(context.Context, prefs.Record, i18n.Labels) (dialog.Result, error) {
	f.calls++
	return f.res, f.err
}

type fakeExporter struct {
	outcome domain.Outcome
	got     []prefs.Record
}

func (f *fakeExporter) Export(_ context.Context, _ export.Selection, s prefs.Record) domain.Outcome {
	f.got = append(f.got, s)
	return f.outcome
}

type fakeReporter struct {
	kinds []domain.Kind
	shown bool
}

func (f *fakeReporter) Report(_ context.Context, o domain.Outcome, _ string) (bool, error) {
	f.kinds = append(f.kinds, o.Kind)
	return f.shown, nil
}

type noStrings struct{}

func (noStrings) Labels(string) i18n.Labels { return i18n.Labels{} }

type countingPrefs struct{ loads int }

func (c *countingPrefs) Load(context.Context) prefs.Record { c.loads++; return prefs.Defaults() }

func selection() export.Selection {
	doc := storage.SampleDocument()
	n, _ := doc.Find("logo")
	return export.Selection{{Node: n}}
}

func TestRunEmptySelectionReportsWithoutDialog(t *testing.T) {
	d, ex, rep, p := &fakeDialog{}, &fakeExporter{}, &fakeReporter{shown: true}, &countingPrefs{}
	inv := &Invocation{Env: staticEnv("en"), Prefs: p, Strings: noStrings{}, Dialog: d, Exporter: ex, Reporter: rep}

	sum := inv.Run(context.Background(), nil)

	assert.Equal(t, domain.NoSelection, sum.Outcome.Kind)
	assert.True(t, sum.Reported)
	assert.True(t, sum.Failed())
	assert.Equal(t, 0, d.calls)
	assert.Equal(t, 0, p.loads)
	assert.Empty(t, ex.got)
	assert.Equal(t, []domain.Kind{domain.NoSelection}, rep.kinds)
}

func TestRunCancelShortCircuits(t *testing.T) {
	d, ex, rep := &fakeDialog{res: dialog.Result{Canceled: true}}, &fakeExporter{}, &fakeReporter{}
	inv := &Invocation{Env: staticEnv("en"), Prefs: &countingPrefs{}, Strings: noStrings{}, Dialog: d, Exporter: ex, Reporter: rep}

	sum := inv.Run(context.Background(), selection())

	assert.True(t, sum.Canceled)
	assert.False(t, sum.Failed())
	assert.Empty(t, ex.got)
	assert.Empty(t, rep.kinds)
}

func TestRunExportsConfirmedSettings(t *testing.T) {
	confirmed := prefs.Record{Filename: "logo", RenditionType: domain.PNG, Scale: 2, OverwriteFile: true}
	ex := &fakeExporter{outcome: domain.Succeeded("/out/logo.png")}
	rep := &fakeReporter{shown: true}
	inv := &Invocation{Env: staticEnv("en"), Prefs: &countingPrefs{}, Strings: noStrings{},
		Dialog: &fakeDialog{res: dialog.Result{Settings: confirmed}}, Exporter: ex, Reporter: rep}

	sum := inv.Run(context.Background(), selection())

	require.Len(t, ex.got, 1)
	assert.Equal(t, confirmed, ex.got[0])
	assert.Equal(t, domain.Success, sum.Outcome.Kind)
	assert.Equal(t, []domain.Kind{domain.Success}, rep.kinds)
}

func TestRunDialogErrorIsUnknown(t *testing.T) {
	ex, rep := &fakeExporter{}, &fakeReporter{shown: true}
	inv := &Invocation{Env: staticEnv("en"), Prefs: &countingPrefs{}, Strings: noStrings{},
		Dialog: &fakeDialog{err: errors.New("save settings: disk full")}, Exporter: ex, Reporter: rep}

	sum := inv.Run(context.Background(), selection())

	assert.Equal(t, domain.Unknown, sum.Outcome.Kind)
	assert.Empty(t, ex.got)
	assert.Equal(t, []domain.Kind{domain.Unknown}, rep.kinds)
}

type recordingNotifier struct{ notices []report.Notice }

func (r *recordingNotifier) Acknowledge(_ context.Context, n report.Notice) (report.Ack, error) {
	r.notices = append(r.notices, n)
	return report.Ack{}, nil
}

type cancelPresenter struct{}

func (cancelPresenter) ShowSettings(context.Context, settings.Seed, i18n.Labels) (settings.FormValues, error) {
	return settings.FormValues{}, dialog.ErrCanceled
}

func wire(t *testing.T, presenter dialog.Presenter, dest export.Destinations) (*Invocation, *prefs.Store, *recordingNotifier) {
	t.Helper()
	cat, err := i18n.New()
	require.NoError(t, err)
	store := prefs.NewStore(t.TempDir())
	cfg := config.Defaults()
	cfg.General.Language = "en"
	n := &recordingNotifier{}
	inv := New(Parts{
		Host:         host.New(cfg, nil),
		Store:        store,
		Catalog:      cat,
		Presenter:    presenter,
		Destinations: dest,
		Renderer:     rendition.New(),
		Notifier:     n,
	})
	return inv, store, n
}

func TestPipelineUnchangedSettingsExportLogoPNG(t *testing.T) {
	out := t.TempDir()
	inv, store, n := wire(t, dialog.AcceptPresenter{}, host.FolderDestinations{Picker: host.FixedFolder(out)})
	ctx := context.Background()
	stored := prefs.Record{Filename: "logo", RenditionType: domain.PNG, Scale: 2, OverwriteFile: true}
	_, err := store.Save(ctx, stored)
	require.NoError(t, err)

	sum := inv.Run(ctx, selection())

	require.Equal(t, domain.Success, sum.Outcome.Kind)
	assert.Equal(t, filepath.Join(out, "logo.png"), sum.Outcome.OutputPath)
	assert.Equal(t, stored, store.Load(ctx))
	_, err = os.Stat(sum.Outcome.OutputPath)
	assert.NoError(t, err)
	require.Len(t, n.notices, 1)
	assert.Equal(t, sum.Outcome.OutputPath, n.notices[0].OutputPath)
}

func TestPipelineCancelWritesNothing(t *testing.T) {
	out := t.TempDir()
	inv, store, n := wire(t, cancelPresenter{}, host.FolderDestinations{Picker: host.FixedFolder(out)})
	ctx := context.Background()
	before := store.Load(ctx)
	info, err := os.Stat(store.Path())
	require.NoError(t, err)

	sum := inv.Run(ctx, selection())

	assert.True(t, sum.Canceled)
	assert.Empty(t, n.notices)
	entries, _ := os.ReadDir(out)
	assert.Empty(t, entries)
	after, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime())
	assert.Equal(t, before, store.Load(ctx))
}

func TestPipelineNoFolderSuppressed(t *testing.T) {
	inv, store, n := wire(t, dialog.AcceptPresenter{}, host.FolderDestinations{Picker: host.FixedFolder("")})
	ctx := context.Background()
	rec := store.Load(ctx)
	rec.SkipNoFolderMessage = true
	_, err := store.Save(ctx, rec)
	require.NoError(t, err)

	sum := inv.Run(ctx, selection())

	assert.Equal(t, domain.NoFolder, sum.Outcome.Kind)
	assert.False(t, sum.Reported)
	assert.Empty(t, n.notices)
}

func TestPipelineNoFolderShownByDefault(t *testing.T) {
	inv, _, n := wire(t, dialog.AcceptPresenter{}, host.FolderDestinations{Picker: host.FixedFolder("")})

	sum := inv.Run(context.Background(), selection())

	assert.Equal(t, domain.NoFolder, sum.Outcome.Kind)
	assert.True(t, sum.Reported)
	require.Len(t, n.notices, 1)
	assert.True(t, n.notices[0].OfferSkip)
}
