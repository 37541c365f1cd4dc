/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package rendition

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // decoders for image nodes
	"image/jpeg"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"gorendition/internal/domain"
)

func writePNG(req Request, vp viewport) error {
	img, err := rasterize(req, vp, false)
	if err != nil {
		return err
	}
	if err := png.Encode(req.Output, img); err != nil {
		return fmt.Errorf("%w: encode png: %v", ErrRender, err)
	}
	return nil
}

func writeJPEG(req Request, vp viewport) error {
	// JPEG has no alpha channel; composite onto white like the PDF page.
	img, err := rasterize(req, vp, true)
	if err != nil {
		return err
	}
	q := req.Quality
	if q < 1 || q > 100 {
		q = 100
	}
	if err := jpeg.Encode(req.Output, img, &jpeg.Options{Quality: q}); err != nil {
		return fmt.Errorf("%w: encode jpeg: %v", ErrRender, err)
	}
	return nil
}

// rasterize draws the node tree onto a canvas sized to the viewport.
func rasterize(req Request, vp viewport, opaque bool) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, vp.pxW, vp.pxH))
	if opaque {
		draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	}
	if err := drawNode(img, req.Node, vp, req.AssetDir); err != nil {
		return nil, err
	}
	return img, nil
}

func drawNode(img *image.RGBA, n domain.Node, vp viewport, assetDir string) error {
	r := pixelRect(vp, n.Bounds)
	switch n.Kind {
	case domain.KindRect, domain.KindGroup:
		if !n.Fill.IsZero() {
			radius := vp.d(n.Radius)
			if radius > 0 {
				fillMask(img, r, n.Fill, roundedMask(r.Dx(), r.Dy(), radius))
			} else {
				fill(img, r, n.Fill)
			}
		}
		if n.Stroke.Width > 0 {
			strokeRect(img, r, n.Stroke.Color, strokePx(vp, n.Stroke.Width))
		}
	case domain.KindEllipse:
		if !n.Fill.IsZero() {
			fillMask(img, r, n.Fill, ellipseMask(r.Dx(), r.Dy(), 0))
		}
		if n.Stroke.Width > 0 {
			fillMask(img, r, n.Stroke.Color, ellipseMask(r.Dx(), r.Dy(), float64(strokePx(vp, n.Stroke.Width))))
		}
	case domain.KindText:
		drawText(img, r, n.Text)
	case domain.KindImage:
		if err := drawImage(img, r, assetPath(assetDir, n.Image)); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := drawNode(img, c, vp, assetDir); err != nil {
			return err
		}
	}
	return nil
}

func pixelRect(vp viewport, b domain.Rect) image.Rectangle {
	x, y, w, h := vp.rect(b)
	x0 := int(math.Round(x))
	y0 := int(math.Round(y))
	return image.Rect(x0, y0, x0+int(math.Round(w)), y0+int(math.Round(h)))
}

func strokePx(vp viewport, w float64) int {
	px := int(math.Round(vp.d(w)))
	if px < 1 {
		return 1
	}
	return px
}

func toNRGBA(c domain.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func fill(img *image.RGBA, r image.Rectangle, c domain.Color) {
	draw.Draw(img, r, &image.Uniform{C: toNRGBA(c)}, image.Point{}, draw.Over)
}

func fillMask(img *image.RGBA, r image.Rectangle, c domain.Color, mask *image.Alpha) {
	draw.DrawMask(img, r, &image.Uniform{C: toNRGBA(c)}, image.Point{}, mask, image.Point{}, draw.Over)
}

// strokeRect draws a rectangle border of width px inside r.
func strokeRect(img *image.RGBA, r image.Rectangle, c domain.Color, px int) {
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+px), c)
	fill(img, image.Rect(r.Min.X, r.Max.Y-px, r.Max.X, r.Max.Y), c)
	fill(img, image.Rect(r.Min.X, r.Min.Y+px, r.Min.X+px, r.Max.Y-px), c)
	fill(img, image.Rect(r.Max.X-px, r.Min.Y+px, r.Max.X, r.Max.Y-px), c)
}

// shapeMask builds a w×h alpha mask from a pixel-center inside test.
func shapeMask(w, h int, inside func(px, py float64) bool) *image.Alpha {
	m := image.NewAlpha(image.Rect(0, 0, max(w, 0), max(h, 0)))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if inside(float64(x)+0.5, float64(y)+0.5) {
				m.SetAlpha(x, y, color.Alpha{A: 255})
			}
		}
	}
	return m
}

// ellipseMask covers the ellipse inscribed in w×h. A positive ring width keeps
// only the outer ring of that thickness.
func ellipseMask(w, h int, ring float64) *image.Alpha {
	rx, ry := float64(w)/2, float64(h)/2
	inEllipse := func(px, py, ax, ay float64) bool {
		if ax <= 0 || ay <= 0 {
			return false
		}
		dx, dy := (px-rx)/ax, (py-ry)/ay
		return dx*dx+dy*dy <= 1
	}
	return shapeMask(w, h, func(px, py float64) bool {
		if !inEllipse(px, py, rx, ry) {
			return false
		}
		return ring <= 0 || !inEllipse(px, py, rx-ring, ry-ring)
	})
}

func roundedMask(w, h int, radius float64) *image.Alpha {
	fw, fh := float64(w), float64(h)
	radius = math.Min(radius, math.Min(fw, fh)/2)
	return shapeMask(w, h, func(px, py float64) bool {
		cx := math.Max(radius, math.Min(px, fw-radius))
		cy := math.Max(radius, math.Min(py, fh-radius))
		dx, dy := px-cx, py-cy
		return dx*dx+dy*dy <= radius*radius
	})
}

// drawText lays out runs top-down with the fixed 7x13 face; run sizes are not honored in raster output.
func drawText(img *image.RGBA, r image.Rectangle, runs []domain.TextRun) {
	face := basicfont.Face7x13
	m := face.Metrics()
	lineH := m.Height.Ceil()
	y := r.Min.Y + m.Ascent.Ceil()
	for _, run := range runs {
		d := &font.Drawer{
			Dst:  img,
			Src:  &image.Uniform{C: toNRGBA(textColor(run))},
			Face: face,
			Dot:  fixed.P(r.Min.X, y),
		}
		d.DrawString(run.Content)
		y += lineH
	}
}

func drawImage(img *image.RGBA, r image.Rectangle, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open image: %v", ErrRender, err)
	}
	defer func() { _ = f.Close() }()
	src, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("%w: decode image %s: %v", ErrRender, path, err)
	}
	draw.CatmullRom.Scale(img, r, src, src.Bounds(), draw.Over, nil)
	return nil
}
