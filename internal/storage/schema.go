/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed document.schema.json
var documentSchema []byte

var documentSchemaLoader = gojsonschema.NewBytesLoader(documentSchema)

// ErrInvalidDocument is returned when a document does not conform to the schema.
var ErrInvalidDocument = errors.New("document does not conform to schema")

// ValidateDocument checks raw document JSON against the embedded schema.
func ValidateDocument(data []byte) error {
	return validate(documentSchemaLoader, data, ErrInvalidDocument)
}

// validate runs gojsonschema and folds the individual violations into one error wrapping sentinel.
func validate(schema gojsonschema.JSONLoader, data []byte, sentinel error) error {
	res, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", sentinel, strings.Join(msgs, "; "))
}
