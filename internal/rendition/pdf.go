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
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"gorendition/internal/domain"
	"gorendition/internal/version"
)

// writePDF renders the node on a single page sized to the node extent × scale.
// Units are points; images are always embedded.
func writePDF(req Request, vp viewport) error {
	w, h := float64(vp.pxW), float64(vp.pxH)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetTitle(req.Node.ID, true)
	pdf.SetCreator("gorendition "+version.String(), true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: w, Ht: h})
	// Built-in Helvetica keeps text vector without embedding
	pdf.SetFont("Helvetica", "", 12)

	pdfNode(pdf, req, vp, req.Node)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("%w: build pdf: %v", ErrRender, err)
	}
	if err := pdf.Output(req.Output); err != nil {
		return fmt.Errorf("%w: write pdf: %v", ErrRender, err)
	}
	return nil
}

func pdfNode(pdf *gofpdf.Fpdf, req Request, vp viewport, n domain.Node) {
	x, y, w, h := vp.rect(n.Bounds)
	style := pdfStyle(pdf, vp, n)
	switch n.Kind {
	case domain.KindRect, domain.KindGroup:
		if style != "" {
			pdf.Rect(x, y, w, h, style)
		}
	case domain.KindEllipse:
		if style != "" {
			pdf.Ellipse(x+w/2, y+h/2, w/2, h/2, 0, style)
		}
	case domain.KindText:
		cy := y
		for _, run := range n.Text {
			size := vp.d(fontSize(run))
			cy += size
			c := textColor(run)
			pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
			pdf.SetFont("Helvetica", "", size)
			pdf.Text(x, cy, run.Content)
			cy += size * 0.2
		}
	case domain.KindImage:
		path := assetPath(req.AssetDir, n.Image)
		if path != "" {
			if _, err := os.Stat(path); err != nil {
				pdf.SetError(fmt.Errorf("image %s: %w", path, err))
				return
			}
			opt := gofpdf.ImageOptions{ImageType: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."), ReadDpi: false}
			pdf.ImageOptions(path, x, y, w, h, false, opt, 0, "")
		}
	}
	pdf.SetAlpha(1, "Normal")
	for _, c := range n.Children {
		pdfNode(pdf, req, vp, c)
	}
}

// pdfStyle sets fill/draw state for n and returns the gofpdf style string ("", "F", "D", "FD").
func pdfStyle(pdf *gofpdf.Fpdf, vp viewport, n domain.Node) string {
	style := ""
	if !n.Fill.IsZero() {
		pdf.SetFillColor(int(n.Fill.R), int(n.Fill.G), int(n.Fill.B))
		pdf.SetAlpha(float64(n.Fill.A)/255, "Normal")
		style += "F"
	}
	if n.Stroke.Width > 0 {
		c := n.Stroke.Color
		pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		pdf.SetLineWidth(vp.d(n.Stroke.Width))
		style += "D"
	}
	return style
}
