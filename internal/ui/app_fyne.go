//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	rapp "gorendition/internal/app"
	"gorendition/internal/config"
	"gorendition/internal/crash"
	"gorendition/internal/domain"
	"gorendition/internal/export"
	"gorendition/internal/host"
	"gorendition/internal/i18n"
	applog "gorendition/internal/log"
	"gorendition/internal/prefs"
	"gorendition/internal/rendition"
	"gorendition/internal/storage"
	"gorendition/internal/version"
)

// Run opens docPath (or the built-in sample when empty) in a window that lists
// its nodes, previews the selected one and exports it.
func Run(docPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dataDir, err := cfg.DataDir()
	if err != nil {
		return err
	}
	defer crash.Recover(dataDir)
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("version", version.String()))

	doc := &storage.DocumentHandle{Path: "sample.json", Document: storage.SampleDocument()}
	if docPath != "" {
		if doc, err = storage.Open(docPath); err != nil {
			return err
		}
	}
	cat, err := i18n.New()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fyneApp := app.NewWithID("gorendition")
	w := fyneApp.NewWindow("GoRendition - " + doc.Document.Name)
	winPrefs := fyneApp.Preferences()
	winW := winPrefs.IntWithFallback("window.width", 900)
	winH := winPrefs.IntWithFallback("window.height", 600)
	w.Resize(fyne.NewSize(float32(max(winW, 640)), float32(max(winH, 480))))

	h := host.New(cfg, doc)
	store := prefs.NewStore(dataDir)
	parts := rapp.Parts{
		Host:         h,
		Store:        store,
		Catalog:      cat,
		Presenter:    settingsPresenter{w: w},
		Destinations: host.FolderDestinations{Picker: folderPicker{w: w}},
		Renderer:     rendition.New(),
		Notifier:     resultNotifier{w: w},
	}
	exportInv := rapp.New(parts)
	parts.Destinations = host.TempDestinations{}
	previewInv := rapp.New(parts)

	status := widget.NewLabel("Ready")
	preview := canvas.NewImageFromImage(nil)
	preview.FillMode = canvas.ImageFillContain
	preview.SetMinSize(fyne.NewSize(320, 240))

	rows := Outline(doc.Document)
	selected := -1
	list := widget.NewList(
		func() int { return len(rows) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(rows[i].Text()) },
	)
	list.OnSelected = func(id widget.ListItemID) {
		selected = int(id)
		n, ok := doc.Document.Find(rows[selected].ID)
		if !ok {
			return
		}
		if err := showPreview(ctx, preview, n, doc.Dir()); err != nil {
			l.Warn("preview failed", slog.String("node", n.ID), slog.Any("err", err))
			status.SetText("No preview for " + rows[selected].Label)
			return
		}
		status.SetText(rows[selected].Label)
	}
	list.OnUnselected = func(widget.ListItemID) { selected = -1 }

	// One pipeline at a time; the dialogs it opens are modal anyway.
	var running sync.Mutex
	start := func(inv *rapp.Invocation) {
		if !running.TryLock() {
			return
		}
		var ids []string
		if selected >= 0 {
			ids = []string{rows[selected].ID}
		}
		sel, err := h.Resolve(ids)
		if err != nil {
			running.Unlock()
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exporting…")
		go func(sel export.Selection) {
			defer running.Unlock()
			sum := inv.Run(ctx, sel)
			fyne.Do(func() { status.SetText(summaryText(sum)) })
		}(sel)
	}

	resetItem := fyne.NewMenuItem("Reset Preferences", func() {
		if _, err := store.Reset(ctx); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Preferences reset")
	})
	w.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Export…", func() { start(exportInv) }),
			fyne.NewMenuItem("Preview Export", func() { start(previewInv) }),
			fyne.NewMenuItemSeparator(),
			resetItem,
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("About", func() {
				dialog.ShowInformation("About", "GoRendition "+version.String(), w)
			}),
		),
	))

	exportBtn := widget.NewButton("Export…", func() { start(exportInv) })
	exportBtn.Importance = widget.HighImportance
	bottom := container.NewBorder(nil, nil, nil, container.NewHBox(
		widget.NewButton("Preview", func() { start(previewInv) }), exportBtn), status)
	split := container.NewHSplit(list, container.NewPadded(preview))
	split.Offset = 0.35
	w.SetContent(container.NewBorder(nil, bottom, nil, nil, split))

	w.SetOnClosed(func() {
		cancel()
		sz := w.Canvas().Size()
		winPrefs.SetInt("window.width", int(sz.Width))
		winPrefs.SetInt("window.height", int(sz.Height))
	})
	w.ShowAndRun()
	return nil
}

func showPreview(ctx context.Context, img *canvas.Image, n domain.Node, assetDir string) error {
	var buf bytes.Buffer
	if _, err := rendition.New().Render(ctx, rendition.Request{
		Node: n, AssetDir: assetDir, Output: &buf, Format: domain.PNG, Scale: 1, EmbedImages: true,
	}); err != nil {
		return err
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		return err
	}
	img.Image = decoded
	img.Refresh()
	return nil
}

func summaryText(s rapp.Summary) string {
	switch {
	case s.Canceled:
		return "Canceled"
	case s.Outcome.Kind == domain.Success:
		return "Saved " + s.Outcome.OutputPath
	default:
		return fmt.Sprintf("Export ended: %s", s.Outcome.Kind)
	}
}
