/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package rendition renders a single document node to an image file. It is the
// render primitive the export orchestrator delegates to: raster output (PNG, JPG)
// is drawn onto an RGBA canvas, SVG is written as markup, PDF goes through gofpdf.
package rendition

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"

	"gorendition/internal/domain"
	applog "gorendition/internal/log"
)

// ErrRender marks every failure that happened while producing the rendition itself.
var ErrRender = errors.New("rendition failed")

// maxSide caps the pixel size of a raster rendition.
const maxSide = 16384

// Types returns the formats this renderer supports, in the order pickers show them.
func Types() []domain.RenditionType {
	return []domain.RenditionType{domain.PNG, domain.JPG, domain.PDF, domain.SVG}
}

// Request describes one rendition.
type Request struct {
	Node        domain.Node
	AssetDir    string // base for relative image paths
	Output      io.Writer
	OutputPath  string
	Format      domain.RenditionType
	Scale       int
	Quality     int // JPEG only, 1..100
	EmbedImages bool
}

// Result reports what was written.
type Result struct {
	OutputPath string
	Width      int
	Height     int
}

// Renderer dispatches a Request to the format-specific writer.
type Renderer struct {
	log *slog.Logger
}

func New() *Renderer {
	return &Renderer{log: applog.WithComponent("rendition")}
}

// Render writes req.Node in req.Format to req.Output.
func (r *Renderer) Render(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if req.Output == nil {
		return Result{}, fmt.Errorf("%w: no output", ErrRender)
	}
	vp, err := newViewport(req.Node, req.Scale)
	if err != nil {
		return Result{}, err
	}
	l := applog.WithOperation(r.log, "render")
	l.DebugContext(ctx, "rendering",
		slog.String("node", req.Node.ID),
		slog.String("format", string(req.Format)),
		slog.Int("scale", vp.scale),
		slog.Int("w", vp.pxW), slog.Int("h", vp.pxH))

	switch req.Format {
	case domain.PNG:
		err = writePNG(req, vp)
	case domain.JPG:
		err = writeJPEG(req, vp)
	case domain.SVG:
		err = writeSVG(req, vp)
	case domain.PDF:
		err = writePDF(req, vp)
	default:
		err = fmt.Errorf("%w: unsupported format %q", ErrRender, req.Format)
	}
	if err != nil {
		l.ErrorContext(ctx, "render failed", slog.Any("err", err))
		return Result{}, err
	}
	return Result{OutputPath: req.OutputPath, Width: vp.pxW, Height: vp.pxH}, nil
}

// viewport maps document points of the rendered node onto output units.
type viewport struct {
	origin domain.Rect
	scale  int
	pxW    int
	pxH    int
}

func newViewport(n domain.Node, scale int) (viewport, error) {
	ext := n.Extent()
	if ext.Empty() {
		return viewport{}, fmt.Errorf("%w: node %q has no visible area", ErrRender, n.ID)
	}
	if scale < 1 {
		scale = 1
	}
	vp := viewport{
		origin: ext,
		scale:  scale,
		pxW:    int(math.Ceil(ext.Width * float64(scale))),
		pxH:    int(math.Ceil(ext.Height * float64(scale))),
	}
	if vp.pxW > maxSide || vp.pxH > maxSide {
		return viewport{}, fmt.Errorf("%w: %dx%d exceeds %d px", ErrRender, vp.pxW, vp.pxH, maxSide)
	}
	return vp, nil
}

// x, y, d convert document coordinates and lengths into output units.
func (v viewport) x(x float64) float64 { return (x - v.origin.X) * float64(v.scale) }
func (v viewport) y(y float64) float64 { return (y - v.origin.Y) * float64(v.scale) }
func (v viewport) d(l float64) float64 { return l * float64(v.scale) }

func (v viewport) rect(r domain.Rect) (x, y, w, h float64) {
	return v.x(r.X), v.y(r.Y), v.d(r.Width), v.d(r.Height)
}

func assetPath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func fontSize(run domain.TextRun) float64 {
	if run.Size <= 0 {
		return 12
	}
	return run.Size
}

func textColor(run domain.TextRun) domain.Color {
	if run.Color.IsZero() {
		return domain.Color{A: 255}
	}
	return run.Color
}
