/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import "gorendition/internal/domain"

// SampleDocument returns a small two-artboard document used by the `sample`
// command and by tests across packages.
func SampleDocument() domain.Document {
	black := domain.Color{R: 0, G: 0, B: 0, A: 255}
	return domain.Document{
		Name:     "Sample",
		Metadata: domain.Metadata{Author: "gorendition", Notes: "generated sample"},
		Artboards: []domain.Artboard{
			{
				ID:         "home",
				Name:       "Home",
				Bounds:     domain.Rect{X: 0, Y: 0, Width: 320, Height: 240},
				Background: domain.Color{R: 255, G: 255, B: 255, A: 255},
				Nodes: []domain.Node{
					{
						ID:     "logo",
						Name:   "Logo",
						Kind:   domain.KindGroup,
						Bounds: domain.Rect{X: 20, Y: 20, Width: 160, Height: 48},
						Children: []domain.Node{
							{
								ID:     "logo-mark",
								Kind:   domain.KindEllipse,
								Bounds: domain.Rect{X: 20, Y: 20, Width: 48, Height: 48},
								Fill:   domain.Color{R: 230, G: 60, B: 40, A: 255},
								Stroke: domain.Stroke{Color: black, Width: 1},
							},
							{
								ID:     "logo-type",
								Kind:   domain.KindText,
								Bounds: domain.Rect{X: 76, Y: 30, Width: 104, Height: 24},
								Text:   []domain.TextRun{{Content: "ACME", Size: 18, Color: black}},
							},
						},
					},
					{
						ID:     "button",
						Name:   "Button",
						Kind:   domain.KindRect,
						Bounds: domain.Rect{X: 20, Y: 180, Width: 120, Height: 36},
						Fill:   domain.Color{R: 40, G: 110, B: 230, A: 255},
						Radius: 6,
					},
				},
			},
			{
				ID:     "empty",
				Name:   "Empty",
				Bounds: domain.Rect{X: 400, Y: 0, Width: 100, Height: 100},
				Nodes:  []domain.Node{},
			},
		},
	}
}
