/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dialog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"gorendition/internal/i18n"
	"gorendition/internal/settings"
)

// LineReader is the part of *readline.Instance the terminal dialogs use.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

// TerminalPresenter asks for each settings field on the terminal. An empty answer
// keeps the seeded value and "-" clears the filename. Ctrl-C or Ctrl-D anywhere
// cancels the dialog.
type TerminalPresenter struct {
	In  LineReader
	Out io.Writer
}

func (t TerminalPresenter) ShowSettings(ctx context.Context, seed settings.Seed, labels i18n.Labels) (settings.FormValues, error) {
	v := seed.Values()
	fmt.Fprintln(t.Out, pterm.Info.Sprint(labels.Title))

	for i, f := range seed.Formats {
		mark := " "
		if f == seed.Selected() {
			mark = "*"
		}
		fmt.Fprintf(t.Out, "  %s %d) %s\n", mark, i+1, f.Label())
	}

	ans, err := t.ask(ctx, filenameLabel(labels, v.Filename), v.Filename)
	if err != nil {
		return settings.FormValues{}, err
	}
	switch ans {
	case "":
	case "-":
		v.Filename = ""
	default:
		v.Filename = ans
	}

	if ans, err = t.ask(ctx, labels.Format, string(seed.Selected())); err != nil {
		return settings.FormValues{}, err
	}
	if ans != "" {
		v.RenditionType = pickFormat(seed, ans)
	}

	if ans, err = t.ask(ctx, labels.Scale, strconv.Itoa(int(v.Scale))); err != nil {
		return settings.FormValues{}, err
	}
	if ans != "" {
		s, perr := strconv.ParseFloat(ans, 64)
		if perr != nil {
			s = math.NaN()
		}
		v.Scale = s
	}

	if ans, err = t.ask(ctx, labels.Overwrite, yesNo(v.Overwrite)); err != nil {
		return settings.FormValues{}, err
	}
	if ans != "" {
		v.Overwrite = isYes(ans)
	}

	if ans, err = t.ask(ctx, labels.OK+" / "+labels.Cancel, labels.OK); err != nil {
		return settings.FormValues{}, err
	}
	if ans != "" && !strings.EqualFold(ans, labels.OK) && !isYes(ans) {
		return settings.FormValues{}, ErrCanceled
	}
	return v, nil
}

func (t TerminalPresenter) ask(ctx context.Context, label, def string) (string, error) {
	return Ask(ctx, t.In, label, def)
}

// Ask prompts for one line. Interrupt and end of input report ErrCanceled.
func Ask(ctx context.Context, in LineReader, label, def string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prompt := label
	if def != "" {
		prompt += " [" + def + "]"
	}
	in.SetPrompt(pterm.NewStyle(pterm.FgCyan).Sprint(prompt) + ": ")
	line, err := in.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", ErrCanceled
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// pickFormat accepts a 1-based option number or a format name. Anything else is
// passed through for the reconciler to discard.
func pickFormat(seed settings.Seed, ans string) string {
	if n, err := strconv.Atoi(ans); err == nil && n >= 1 && n <= len(seed.Formats) {
		return string(seed.Formats[n-1])
	}
	return strings.ToLower(ans)
}

func filenameLabel(labels i18n.Labels, current string) string {
	if current == "" && labels.FilenamePlaceholder != "" {
		return labels.Filename + " (" + labels.FilenamePlaceholder + ")"
	}
	return labels.Filename
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func isYes(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes", "true", "1", "ok":
		return true
	}
	return false
}
