/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"testing"

	"gorendition/internal/storage"
)

func TestOutline_SampleDocument(t *testing.T) {
	rows := Outline(storage.SampleDocument())
	want := []struct {
		id    string
		depth int
	}{
		{"home", 0}, {"logo", 1}, {"logo-mark", 2}, {"logo-type", 2}, {"button", 1}, {"empty", 0},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d: %+v", len(rows), len(want), rows)
	}
	for i, w := range want {
		if rows[i].ID != w.id || rows[i].Depth != w.depth {
			t.Fatalf("row %d = %+v, want %s at depth %d", i, rows[i], w.id, w.depth)
		}
	}
	if got := rows[2].Text(); got[:8] != "        " {
		t.Fatalf("depth 2 row not indented: %q", got)
	}
}
