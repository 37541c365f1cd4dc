/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"gorendition/internal/domain"
)

// LineReader is the part of *readline.Instance the notifier uses.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

// TerminalNotifier prints a Notice and waits for Enter. Interrupt and end of
// input dismiss the notice like the button does. With NoWait the notice is only
// printed and In may be nil.
type TerminalNotifier struct {
	In     LineReader
	Out    io.Writer
	NoWait bool
}

func (t TerminalNotifier) Acknowledge(ctx context.Context, n Notice) (Ack, error) {
	if err := ctx.Err(); err != nil {
		return Ack{}, err
	}
	printer := pterm.Error
	if n.Kind == domain.Success {
		printer = pterm.Success
	} else if n.Kind.Suppressible() {
		printer = pterm.Warning
	}
	fmt.Fprintln(t.Out, printer.Sprint(n.Message.Heading))
	fmt.Fprintln(t.Out, n.Message.Body)
	if n.OutputPath != "" {
		fmt.Fprintln(t.Out, "  "+n.OutputPath)
	}

	var ack Ack
	if t.NoWait {
		return ack, nil
	}
	if n.OfferSkip && n.Message.Checkbox != "" {
		t.In.SetPrompt(n.Message.Checkbox + " [y/N]: ")
		line, err := t.In.Readline()
		if dismissed(err) {
			return ack, nil
		}
		if err != nil {
			return ack, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			ack.Skip = true
		}
	}

	t.In.SetPrompt(pterm.NewStyle(pterm.FgCyan).Sprint("["+n.Message.Button+"]") + " ")
	if _, err := t.In.Readline(); err != nil && !dismissed(err) {
		return ack, err
	}
	return ack, nil
}

func dismissed(err error) bool {
	return errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF)
}
