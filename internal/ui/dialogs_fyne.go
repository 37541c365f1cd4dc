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
	"context"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	rdialog "gorendition/internal/dialog"
	"gorendition/internal/i18n"
	applog "gorendition/internal/log"
	"gorendition/internal/prefs"
	"gorendition/internal/report"
	"gorendition/internal/settings"
)

// The types below are called from the pipeline goroutine. Each one builds its
// dialog on the UI thread with fyne.Do and blocks on a channel until it closes.
// Closing the window cancels ctx, which counts as dismissing the dialog.

type settingsPresenter struct{ w fyne.Window }

func (p settingsPresenter) ShowSettings(ctx context.Context, seed settings.Seed, labels i18n.Labels) (settings.FormValues, error) {
	type answer struct {
		values settings.FormValues
		ok     bool
	}
	done := make(chan answer, 1)
	fyne.Do(func() {
		nameEntry := widget.NewEntry()
		nameEntry.SetPlaceHolder(labels.FilenamePlaceholder)
		nameEntry.SetText(seed.Filename)

		options := make([]string, len(seed.Formats))
		for i, f := range seed.Formats {
			options[i] = f.Label()
		}
		formatSelect := widget.NewSelect(options, nil)
		if sel := seed.Selected(); sel != "" {
			formatSelect.SetSelected(sel.Label())
		}

		scaleValue := widget.NewLabel("")
		slider := widget.NewSlider(prefs.MinScale, prefs.MaxScale)
		slider.Step = 1
		slider.SetValue(float64(seed.Scale))
		scaleValue.SetText(scaleText(slider.Value))
		slider.OnChanged = func(v float64) { scaleValue.SetText(scaleText(v)) }

		overwrite := widget.NewCheck(labels.Overwrite, nil)
		overwrite.SetChecked(seed.Overwrite)

		form := widget.NewForm(
			widget.NewFormItem(labels.Filename, nameEntry),
			widget.NewFormItem(labels.Format, formatSelect),
			widget.NewFormItem(labels.Scale, container.NewBorder(nil, nil, nil, scaleValue, slider)),
			widget.NewFormItem("", overwrite),
		)
		d := dialog.NewCustomConfirm(labels.Title, labels.OK, labels.Cancel, form, func(ok bool) {
			if !ok {
				done <- answer{}
				return
			}
			v := settings.FormValues{
				Filename:  nameEntry.Text,
				Scale:     slider.Value,
				Overwrite: overwrite.Checked,
			}
			if i := formatSelect.SelectedIndex(); i >= 0 && i < len(seed.Formats) {
				v.RenditionType = string(seed.Formats[i])
			}
			done <- answer{values: v, ok: true}
		}, p.w)
		d.Resize(fyne.NewSize(440, 0))
		d.Show()
	})
	select {
	case a := <-done:
		if !a.ok {
			return settings.FormValues{}, rdialog.ErrCanceled
		}
		return a.values, nil
	case <-ctx.Done():
		return settings.FormValues{}, rdialog.ErrCanceled
	}
}

func scaleText(v float64) string {
	return fmt.Sprintf("%dx", int(v))
}

type resultNotifier struct{ w fyne.Window }

func (n resultNotifier) Acknowledge(ctx context.Context, notice report.Notice) (report.Ack, error) {
	done := make(chan report.Ack, 1)
	fyne.Do(func() {
		body := widget.NewLabel(notice.Message.Body)
		body.Wrapping = fyne.TextWrapWord
		items := []fyne.CanvasObject{body}
		if notice.OutputPath != "" {
			items = append(items, widget.NewLabelWithStyle(notice.OutputPath, fyne.TextAlignLeading, fyne.TextStyle{Monospace: true}))
		}
		var skip *widget.Check
		if notice.OfferSkip && notice.Message.Checkbox != "" {
			skip = widget.NewCheck(notice.Message.Checkbox, nil)
			items = append(items, skip)
		}
		d := dialog.NewCustom(notice.Message.Heading, notice.Message.Button, container.NewVBox(items...), n.w)
		d.SetOnClosed(func() {
			var ack report.Ack
			if skip != nil {
				ack.Skip = skip.Checked
			}
			done <- ack
		})
		d.Resize(fyne.NewSize(440, 0))
		d.Show()
	})
	select {
	case ack := <-done:
		return ack, nil
	case <-ctx.Done():
		return report.Ack{}, ctx.Err()
	}
}

type folderPicker struct{ w fyne.Window }

func (p folderPicker) PickFolder(ctx context.Context) (string, error) {
	done := make(chan string, 1)
	fyne.Do(func() {
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil {
				applog.WithComponent("ui").Error("folder dialog error", slog.Any("err", err))
			}
			if err != nil || uri == nil {
				done <- ""
				return
			}
			done <- uri.Path()
		}, p.w)
		fd.Show()
	})
	select {
	case dir := <-done:
		return dir, nil
	case <-ctx.Done():
		return "", nil
	}
}
