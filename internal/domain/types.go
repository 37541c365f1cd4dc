/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the design document model the renderer works on.
// A document is a set of artboards; each artboard holds a tree of nodes.
// All geometry is in document points with a top-left origin.

// Document is a design document as stored on disk (JSON).
type Document struct {
	Name      string     `json:"name"`
	Metadata  Metadata   `json:"metadata,omitempty"`
	Artboards []Artboard `json:"artboards"`
}

// Metadata contains optional descriptive metadata for a document.
type Metadata struct {
	Author string `json:"author,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// Artboard is a top-level frame. It is selectable like any node.
type Artboard struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Bounds     Rect   `json:"bounds"`
	Background Color  `json:"background,omitempty"`
	Nodes      []Node `json:"nodes"`
}

type NodeKind string

const (
	KindRect    NodeKind = "rect"
	KindEllipse NodeKind = "ellipse"
	KindText    NodeKind = "text"
	KindImage   NodeKind = "image"
	KindGroup   NodeKind = "group"
)

// Node is a drawable element. Children are only meaningful for groups.
type Node struct {
	ID       string    `json:"id"`
	Name     string    `json:"name,omitempty"`
	Kind     NodeKind  `json:"kind"`
	Bounds   Rect      `json:"bounds"`
	Fill     Color     `json:"fill,omitempty"`
	Stroke   Stroke    `json:"stroke,omitempty"`
	Radius   float64   `json:"radius,omitempty"`
	Text     []TextRun `json:"text,omitempty"`
	Image    string    `json:"image,omitempty"` // path, relative to the document file
	Children []Node    `json:"children,omitempty"`
}

// TextRun represents a run of text.
type TextRun struct {
	Content string  `json:"content"`
	Size    float64 `json:"size,omitempty"`
	Color   Color   `json:"color,omitempty"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Union returns the minimal rect containing both. Empty rects are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	minX := min(r.X, o.X)
	minY := min(r.Y, o.Y)
	maxX := max(r.X+r.Width, o.X+o.Width)
	maxY := max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// IsZero reports whether the color is fully zero, i.e. "not set".
func (c Color) IsZero() bool { return c == Color{} }

type Stroke struct {
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

// Find looks up a node or artboard by id. Artboards are returned as group nodes
// whose fill is the artboard background.
func (d *Document) Find(id string) (Node, bool) {
	if d == nil || id == "" {
		return Node{}, false
	}
	for _, ab := range d.Artboards {
		if ab.ID == id {
			return ab.AsNode(), true
		}
		if n, ok := findNode(ab.Nodes, id); ok {
			return n, true
		}
	}
	return Node{}, false
}

// AsNode converts the artboard into an equivalent group node.
func (a Artboard) AsNode() Node {
	return Node{ID: a.ID, Name: a.Name, Kind: KindGroup, Bounds: a.Bounds, Fill: a.Background, Children: a.Nodes}
}

func findNode(nodes []Node, id string) (Node, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
		if n, ok := findNode(n.Children, id); ok {
			return n, true
		}
	}
	return Node{}, false
}

// Extent returns the bounds of the node including all of its children.
func (n Node) Extent() Rect {
	r := n.Bounds
	for _, c := range n.Children {
		r = r.Union(c.Extent())
	}
	return r
}

// Walk visits n and its descendants depth-first, parents before children.
func (n Node) Walk(fn func(Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
