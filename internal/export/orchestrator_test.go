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
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gorendition/internal/domain"
	"gorendition/internal/prefs"
	"gorendition/internal/rendition"
	"gorendition/internal/storage"
)

type dirDestinations struct {
	dir   string
	err   error
	names []string
}

func (d *dirDestinations) Create(_ context.Context, name string, overwrite bool) (*os.File, error) {
	d.names = append(d.names, name)
	if d.err != nil {
		return nil, d.err
	}
	p := filepath.Join(d.dir, name)
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(p, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil, ErrFileExists
	}
	return f, err
}

type fakeRenderer struct {
	err   error
	panic bool
	reqs  []rendition.Request
}

func (r *fakeRenderer) Render(_ context.Context, req rendition.Request) (rendition.Result, error) {
	r.reqs = append(r.reqs, req)
	if r.panic {
		panic("renderer exploded")
	}
	if r.err != nil {
		return rendition.Result{}, r.err
	}
	_, _ = req.Output.Write([]byte("x"))
	return rendition.Result{OutputPath: req.OutputPath, Width: 1, Height: 1}, nil
}

func sampleSelection(t *testing.T) Selection {
	t.Helper()
	doc := storage.SampleDocument()
	n, ok := doc.Find("logo")
	if !ok {
		t.Fatal("sample document has no logo node")
	}
	return Selection{{Node: n}}
}

func logoSettings() prefs.Record {
	return prefs.Record{Filename: "logo", RenditionType: domain.PNG, Scale: 2, OverwriteFile: true}
}

func TestExportPassesFilenameAndScale(t *testing.T) {
	dir := t.TempDir()
	dest := &dirDestinations{dir: dir}
	r := &fakeRenderer{}
	o := New(dest, r, Options{Quality: 90, EmbedImages: true})

	out := o.Export(context.Background(), sampleSelection(t), logoSettings())
	if out.Kind != domain.Success {
		t.Fatalf("kind = %v, want success", out.Kind)
	}
	if want := filepath.Join(dir, "logo.png"); out.OutputPath != want {
		t.Fatalf("path = %q, want %q", out.OutputPath, want)
	}
	if len(dest.names) != 1 || dest.names[0] != "logo.png" {
		t.Fatalf("destination names = %v", dest.names)
	}
	req := r.reqs[0]
	if req.Scale != 2 || req.Format != domain.PNG || req.Quality != 90 || !req.EmbedImages {
		t.Fatalf("request = %+v", req)
	}
}

func TestExportFailureKinds(t *testing.T) {
	cases := []struct {
		name string
		dest error
		rend error
		want domain.Kind
	}{
		{"no folder", ErrNoFolder, nil, domain.NoFolder},
		{"wrapped no folder", fmt.Errorf("picker: %w", ErrNoFolder), nil, domain.NoFolder},
		{"file exists", ErrFileExists, nil, domain.FileExists},
		{"destination broken", errors.New("permission denied"), nil, domain.Unknown},
		{"render failed", nil, fmt.Errorf("%w: bad node", rendition.ErrRender), domain.RenditionsFailed},
		{"render plain error", nil, errors.New("host render blew up"), domain.RenditionsFailed},
		{"render canceled", nil, context.Canceled, domain.RenditionsFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &fakeRenderer{err: tc.rend}
			o := New(&dirDestinations{dir: t.TempDir(), err: tc.dest}, r, Options{})
			out := o.Export(context.Background(), sampleSelection(t), logoSettings())
			if out.Kind != tc.want {
				t.Fatalf("kind = %v, want %v", out.Kind, tc.want)
			}
			if out.OutputPath != "" {
				t.Fatalf("failure carries path %q", out.OutputPath)
			}
			if tc.dest != nil && len(r.reqs) != 0 {
				t.Fatal("renderer invoked without a destination")
			}
		})
	}
}

func TestExportFileExistsWithoutOverwrite(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := logoSettings()
	s.OverwriteFile = false
	r := &fakeRenderer{}
	out := New(&dirDestinations{dir: dir}, r, Options{}).Export(context.Background(), sampleSelection(t), s)
	if out.Kind != domain.FileExists {
		t.Fatalf("kind = %v, want fileExists", out.Kind)
	}
	if len(r.reqs) != 0 {
		t.Fatal("renderer invoked for existing file")
	}
	b, _ := os.ReadFile(filepath.Join(dir, "logo.png"))
	if string(b) != "old" {
		t.Fatalf("existing file modified: %q", b)
	}
}

func TestExportRemovesOutputOnRenderFailure(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRenderer{err: fmt.Errorf("%w: boom", rendition.ErrRender)}
	New(&dirDestinations{dir: dir}, r, Options{}).Export(context.Background(), sampleSelection(t), logoSettings())
	if _, err := os.Stat(filepath.Join(dir, "logo.png")); !os.IsNotExist(err) {
		t.Fatalf("partial output left behind: %v", err)
	}
}

func TestExportEmptySelectionIsUnknown(t *testing.T) {
	out := New(&dirDestinations{dir: t.TempDir()}, &fakeRenderer{}, Options{}).Export(context.Background(), nil, logoSettings())
	if out.Kind != domain.Unknown {
		t.Fatalf("kind = %v, want unknown", out.Kind)
	}
}

func TestExportRendererPanicIsRenderFailure(t *testing.T) {
	dir := t.TempDir()
	out := New(&dirDestinations{dir: dir}, &fakeRenderer{panic: true}, Options{}).Export(context.Background(), sampleSelection(t), logoSettings())
	if out.Kind != domain.RenditionsFailed {
		t.Fatalf("kind = %v, want renditionsFailed", out.Kind)
	}
	if _, err := os.Stat(filepath.Join(dir, "logo.png")); !os.IsNotExist(err) {
		t.Fatalf("output of panicked render left behind: %v", err)
	}
}

func TestExportCanceledContextWithRealRenderer(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := New(&dirDestinations{dir: dir}, rendition.New(), Options{}).Export(ctx, sampleSelection(t), logoSettings())
	if out.Kind != domain.RenditionsFailed {
		t.Fatalf("kind = %v, want renditionsFailed", out.Kind)
	}
	if _, err := os.Stat(filepath.Join(dir, "logo.png")); !os.IsNotExist(err) {
		t.Fatalf("partial output left behind: %v", err)
	}
}

func TestExportRendersFirstItemOnly(t *testing.T) {
	doc := storage.SampleDocument()
	a, _ := doc.Find("button")
	b, _ := doc.Find("logo")
	r := &fakeRenderer{}
	New(&dirDestinations{dir: t.TempDir()}, r, Options{}).Export(context.Background(), Selection{{Node: a}, {Node: b}}, logoSettings())
	if len(r.reqs) != 1 || r.reqs[0].Node.ID != "button" {
		t.Fatalf("requests = %+v", r.reqs)
	}
}

func TestExportWithRealRenderer(t *testing.T) {
	dir := t.TempDir()
	o := New(&dirDestinations{dir: dir}, rendition.New(), Options{Quality: 100})
	out := o.Export(context.Background(), sampleSelection(t), logoSettings())
	if out.Kind != domain.Success {
		t.Fatalf("kind = %v", out.Kind)
	}
	f, err := os.Open(out.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Fatalf("empty image %v", img.Bounds())
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(nil) != domain.Success {
		t.Fatal("nil should be success")
	}
	if KindOf(errors.New("x")) != domain.Unknown {
		t.Fatal("plain error should be unknown")
	}
	err := fmt.Errorf("outer: %w", &Error{Kind: domain.FileExists, Err: ErrFileExists})
	if KindOf(err) != domain.FileExists {
		t.Fatal("wrapped kind lost")
	}
	if !errors.Is(err, ErrFileExists) {
		t.Fatal("Unwrap chain broken")
	}
}
