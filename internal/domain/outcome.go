/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "strings"

// RenditionType identifies an output image format. The value doubles as the file extension.
type RenditionType string

const (
	PNG RenditionType = "png"
	JPG RenditionType = "jpg"
	SVG RenditionType = "svg"
	PDF RenditionType = "pdf"
)

// ParseRenditionType normalizes s ("PNG", " jpeg ") into a known type.
func ParseRenditionType(s string) (RenditionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return PNG, true
	case "jpg", "jpeg":
		return JPG, true
	case "svg":
		return SVG, true
	case "pdf":
		return PDF, true
	}
	return "", false
}

// Label is the upper-case name shown in format pickers.
func (t RenditionType) Label() string { return strings.ToUpper(string(t)) }

// Kind is the closed set of invocation outcomes shown to the user.
type Kind int

const (
	Success Kind = iota
	NoSelection
	NoFolder
	FileExists
	RenditionsFailed
	Unknown
)

// Kinds returns every outcome kind, in declaration order.
func Kinds() []Kind {
	return []Kind{Success, NoSelection, NoFolder, FileExists, RenditionsFailed, Unknown}
}

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case NoSelection:
		return "noSelection"
	case NoFolder:
		return "noFolder"
	case FileExists:
		return "fileExists"
	case RenditionsFailed:
		return "renditionsFailed"
	default:
		return "unknown"
	}
}

// IsError is true for every kind but Success.
func (k Kind) IsError() bool { return k != Success }

// Suppressible reports whether the user may opt out of seeing this kind again.
func (k Kind) Suppressible() bool { return k == NoFolder }

// Outcome is the result of one export invocation. It is never persisted.
type Outcome struct {
	Kind       Kind
	OutputPath string // set for Success only
}

func Succeeded(path string) Outcome { return Outcome{Kind: Success, OutputPath: path} }

func Failed(k Kind) Outcome { return Outcome{Kind: k} }
