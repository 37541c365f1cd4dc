/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gorendition/internal/domain"
	applog "gorendition/internal/log"
	"gorendition/internal/prefs"
	"gorendition/internal/rendition"
)

// Item is one selected node. AssetDir resolves relative image sources.
type Item struct {
	Node     domain.Node
	AssetDir string
}

// Selection is the ordered host selection. Only the first item is rendered.
type Selection []Item

// Destinations opens the output file, asking the user for a folder if needed.
// It returns ErrNoFolder or ErrFileExists for those conditions.
type Destinations interface {
	Create(ctx context.Context, name string, overwrite bool) (*os.File, error)
}

// Renderer is the host render primitive.
type Renderer interface {
	Render(ctx context.Context, req rendition.Request) (rendition.Result, error)
}

// Options are the fixed render settings that are not user preferences.
type Options struct {
	Quality     int
	EmbedImages bool
}

// Orchestrator runs one export.
type Orchestrator struct {
	Destinations Destinations
	Renderer     Renderer
	Options      Options
	log          *slog.Logger
}

func New(dest Destinations, r Renderer, opt Options) *Orchestrator {
	return &Orchestrator{Destinations: dest, Renderer: r, Options: opt, log: applog.WithComponent("export")}
}

// FileName returns the output file name for s.
func FileName(s prefs.Record) string {
	return s.Filename + "." + string(s.RenditionType)
}

// Export renders the first item of sel with s. It never returns an error:
// every failure is an Outcome of the matching kind. Nothing is retried.
func (o *Orchestrator) Export(ctx context.Context, sel Selection, s prefs.Record) (out domain.Outcome) {
	l := o.logger()
	defer func() {
		if r := recover(); r != nil {
			l.ErrorContext(ctx, "export panicked", slog.Any("panic", r))
			out = domain.Failed(domain.Unknown)
		}
	}()
	path, err := o.export(ctx, sel, s)
	if err != nil {
		kind := KindOf(err)
		l.WarnContext(ctx, "export failed", slog.String("kind", kind.String()), slog.Any("err", err))
		return domain.Failed(kind)
	}
	l.InfoContext(ctx, "export finished", slog.String("path", path))
	return domain.Succeeded(path)
}

func (o *Orchestrator) export(ctx context.Context, sel Selection, s prefs.Record) (string, error) {
	if len(sel) == 0 {
		return "", fail(domain.Unknown, errors.New("empty selection"))
	}
	if len(sel) > 1 {
		o.logger().DebugContext(ctx, "rendering first selected item only", slog.Int("selected", len(sel)))
	}
	item := sel[0]

	f, err := o.Destinations.Create(ctx, FileName(s), s.OverwriteFile)
	switch {
	case errors.Is(err, ErrNoFolder):
		return "", fail(domain.NoFolder, err)
	case errors.Is(err, ErrFileExists):
		return "", fail(domain.FileExists, err)
	case err != nil:
		return "", fail(domain.Unknown, err)
	case f == nil:
		return "", fail(domain.NoFolder, ErrNoFolder)
	}
	path := f.Name()

	res, rerr := o.render(ctx, rendition.Request{
		Node:        item.Node,
		AssetDir:    item.AssetDir,
		Output:      f,
		OutputPath:  path,
		Format:      s.RenditionType,
		Scale:       s.Scale,
		Quality:     o.Options.Quality,
		EmbedImages: o.Options.EmbedImages,
	})
	if rerr != nil {
		rerr = fail(domain.RenditionsFailed, rerr)
	}
	if cerr := f.Close(); rerr == nil && cerr != nil {
		rerr = fail(domain.Unknown, fmt.Errorf("close output: %w", cerr))
	}
	if rerr != nil {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			o.logger().WarnContext(ctx, "remove partial output failed", slog.String("path", path), slog.Any("err", err))
		}
		return "", rerr
	}
	if res.OutputPath != "" {
		path = res.OutputPath
	}
	return path, nil
}

// render calls the render primitive. Every failure of the call, a panic
// included, is a render failure.
func (o *Orchestrator) render(ctx context.Context, req rendition.Request) (res rendition.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: renderer panicked: %v", rendition.ErrRender, r)
		}
	}()
	return o.Renderer.Render(ctx, req)
}

func (o *Orchestrator) logger() *slog.Logger {
	l := o.log
	if l == nil {
		l = applog.WithComponent("export")
	}
	return applog.WithOperation(l, "export")
}
