/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSampleDocumentConformsToSchema(t *testing.T) {
	b, err := json.Marshal(SampleDocument())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := ValidateDocument(b); err != nil {
		t.Fatalf("sample document invalid: %v", err)
	}
}

func TestValidateDocumentRejects(t *testing.T) {
	cases := map[string]string{
		"not json":       `{`,
		"missing name":   `{"artboards": []}`,
		"unknown kind":   `{"name":"d","artboards":[{"id":"a","name":"A","bounds":{"x":0,"y":0,"width":1,"height":1},"nodes":[{"id":"n","kind":"star","bounds":{"x":0,"y":0,"width":1,"height":1}}]}]}`,
		"node no bounds": `{"name":"d","artboards":[{"id":"a","name":"A","bounds":{"x":0,"y":0,"width":1,"height":1},"nodes":[{"id":"n","kind":"rect"}]}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if err := ValidateDocument([]byte(doc)); !errors.Is(err, ErrInvalidDocument) {
				t.Fatalf("err = %v, want ErrInvalidDocument", err)
			}
		})
	}
}
