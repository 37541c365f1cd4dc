/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"strings"

	"gorendition/internal/domain"
)

// Entry is one row of the document outline.
type Entry struct {
	ID    string
	Label string
	Depth int
}

// Outline flattens doc into display rows, artboards first at depth 0.
func Outline(doc domain.Document) []Entry {
	var out []Entry
	for _, ab := range doc.Artboards {
		out = append(out, Entry{ID: ab.ID, Label: label(ab.Name, ab.ID, "artboard"), Depth: 0})
		for _, n := range ab.Nodes {
			appendNode(&out, n, 1)
		}
	}
	return out
}

func appendNode(out *[]Entry, n domain.Node, depth int) {
	*out = append(*out, Entry{ID: n.ID, Label: label(n.Name, n.ID, string(n.Kind)), Depth: depth})
	for _, c := range n.Children {
		appendNode(out, c, depth+1)
	}
}

func label(name, id, kind string) string {
	if name == "" {
		name = id
	}
	return fmt.Sprintf("%s (%s)", name, kind)
}

// Text renders e indented by depth.
func (e Entry) Text() string {
	return strings.Repeat("    ", e.Depth) + e.Label
}
