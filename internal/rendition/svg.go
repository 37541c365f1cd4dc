/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package rendition

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"gorendition/internal/domain"
)

// writeSVG emits the node tree as SVG. The viewBox is in output units so that
// width/height and geometry agree at the requested scale.
func writeSVG(req Request, vp viewport) error {
	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" xmlns:xlink=\"http://www.w3.org/1999/xlink\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %d %d\">\n",
		vp.pxW, vp.pxH, vp.pxW, vp.pxH)
	if err := svgNode(wf, req, vp, req.Node, 1); err != nil {
		return err
	}
	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("%w: build svg: %v", ErrRender, werr)
	}
	if _, err := req.Output.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: write svg: %v", ErrRender, err)
	}
	return nil
}

func svgNode(wf func(string, ...any), req Request, vp viewport, n domain.Node, depth int) error {
	ind := strings.Repeat("  ", depth)
	x, y, w, h := vp.rect(n.Bounds)
	switch n.Kind {
	case domain.KindRect:
		wf("%s<rect id=\"%s\" x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\"", ind, svgEscape(n.ID), x, y, w, h)
		if n.Radius > 0 {
			wf(" rx=\"%g\"", vp.d(n.Radius))
		}
		wf("%s/>\n", svgPaint(n, vp))
	case domain.KindEllipse:
		wf("%s<ellipse id=\"%s\" cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\"%s/>\n",
			ind, svgEscape(n.ID), x+w/2, y+h/2, w/2, h/2, svgPaint(n, vp))
	case domain.KindText:
		cy := y
		for _, run := range n.Text {
			size := vp.d(fontSize(run))
			cy += size
			wf("%s<text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%g\" fill=\"%s\"%s>%s</text>\n",
				ind, x, cy, size, svgColor(textColor(run)), svgOpacity("fill-opacity", textColor(run)), svgEscape(run.Content))
			cy += size * 0.2
		}
	case domain.KindImage:
		href, err := svgImageHref(assetPath(req.AssetDir, n.Image), req.EmbedImages)
		if err != nil {
			return err
		}
		if href != "" {
			wf("%s<image id=\"%s\" x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" preserveAspectRatio=\"none\" xlink:href=\"%s\"/>\n",
				ind, svgEscape(n.ID), x, y, w, h, svgEscape(href))
		}
	case domain.KindGroup:
		wf("%s<g id=\"%s\">\n", ind, svgEscape(n.ID))
		if !n.Fill.IsZero() || n.Stroke.Width > 0 {
			wf("%s  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\"%s/>\n", ind, x, y, w, h, svgPaint(n, vp))
		}
		for _, c := range n.Children {
			if err := svgNode(wf, req, vp, c, depth+1); err != nil {
				return err
			}
		}
		wf("%s</g>\n", ind)
		return nil
	}
	return nil
}

// svgImageHref either inlines the image as a data URI or links the file.
func svgImageHref(path string, embed bool) (string, error) {
	if path == "" {
		return "", nil
	}
	if !embed {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("%w: resolve image: %v", ErrRender, err)
		}
		return "file://" + filepath.ToSlash(abs), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read image: %v", ErrRender, err)
	}
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mt == "" {
		mt = "application/octet-stream"
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

func svgPaint(n domain.Node, vp viewport) string {
	var sb strings.Builder
	if n.Fill.IsZero() {
		sb.WriteString(` fill="none"`)
	} else {
		fmt.Fprintf(&sb, ` fill="%s"%s`, svgColor(n.Fill), svgOpacity("fill-opacity", n.Fill))
	}
	if n.Stroke.Width > 0 {
		fmt.Fprintf(&sb, ` stroke="%s" stroke-width="%g"%s`, svgColor(n.Stroke.Color), vp.d(n.Stroke.Width), svgOpacity("stroke-opacity", n.Stroke.Color))
	}
	return sb.String()
}

func svgColor(c domain.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func svgOpacity(attr string, c domain.Color) string {
	if c.A == 255 {
		return ""
	}
	return fmt.Sprintf(` %s="%g"`, attr, float64(c.A)/255)
}

func svgEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
