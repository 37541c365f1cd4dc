/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"gorendition/internal/domain"
)

func TestBundledCatalogIsComplete(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.ElementsMatch(t, []language.Tag{language.English, language.Japanese}, c.Languages())

	for _, tag := range c.Languages() {
		for _, k := range domain.Kinds() {
			m := c.Message(k, tag.String(), domain.PNG)
			assert.NotEmpty(t, m.Heading, "%s/%s heading", tag, k)
			assert.NotEmpty(t, m.Body, "%s/%s body", tag, k)
			assert.NotEmpty(t, m.Button, "%s/%s button", tag, k)
			if k.Suppressible() {
				assert.NotEmpty(t, m.Checkbox, "%s/%s checkbox", tag, k)
			} else {
				assert.Empty(t, m.Checkbox, "%s/%s checkbox", tag, k)
			}
		}
		l := c.Labels(tag.String())
		assert.NotEmpty(t, l.Title)
		assert.NotEmpty(t, l.OK)
		assert.NotEmpty(t, l.Cancel)
	}
}

func TestMatchFallsBackToEnglish(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	assert.Equal(t, language.Japanese, c.Match("ja_JP"))
	assert.Equal(t, language.Japanese, c.Match("ja-JP"))
	assert.Equal(t, language.English, c.Match("en-GB"))
	assert.Equal(t, language.English, c.Match("fr"))
	assert.Equal(t, language.English, c.Match(""))
	assert.Equal(t, language.English, c.Match("???"))
}

func TestSuccessBodyNamesFormat(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	assert.Contains(t, c.Message(domain.Success, "en", domain.JPG).Body, "JPG")
	assert.Contains(t, c.Message(domain.Success, "ja", domain.SVG).Body, "SVG")
}

func TestJapaneseDiffersFromEnglish(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	en := c.Message(domain.FileExists, "en", domain.PNG)
	ja := c.Message(domain.FileExists, "ja", domain.PNG)
	assert.NotEqual(t, en.Heading, ja.Heading)
}

func TestLoadRejectsIncompleteLanguage(t *testing.T) {
	full, err := locales.ReadFile("locales/en.yaml")
	require.NoError(t, err)
	fsys := fstest.MapFS{
		"en.yaml": {Data: full},
		"de.yaml": {Data: []byte(`"controls.title": "Rendition exportieren"` + "\n")},
	}
	_, err = Load(fsys)
	require.ErrorIs(t, err, ErrIncomplete)
	assert.Contains(t, err.Error(), "de:noFolder.checkbox")
}

func TestLoadRequiresLocales(t *testing.T) {
	_, err := Load(fstest.MapFS{})
	require.Error(t, err)
}
