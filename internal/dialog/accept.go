/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dialog

import (
	"context"

	"gorendition/internal/domain"
	"gorendition/internal/i18n"
	"gorendition/internal/settings"
)

// Overrides are optional field values applied by AcceptPresenter. Nil pointers
// and an empty Format leave the seeded field alone.
type Overrides struct {
	Filename  *string
	Format    domain.RenditionType
	Scale     *float64
	Overwrite *bool
}

// AcceptPresenter confirms the dialog without user interaction, for scripted use.
type AcceptPresenter struct {
	Overrides Overrides
}

func (a AcceptPresenter) ShowSettings(ctx context.Context, seed settings.Seed, _ i18n.Labels) (settings.FormValues, error) {
	if err := ctx.Err(); err != nil {
		return settings.FormValues{}, err
	}
	v := seed.Values()
	o := a.Overrides
	if o.Filename != nil {
		v.Filename = *o.Filename
	}
	if o.Format != "" {
		v.RenditionType = string(o.Format)
	}
	if o.Scale != nil {
		v.Scale = *o.Scale
	}
	if o.Overwrite != nil {
		v.Overwrite = *o.Overwrite
	}
	return v, nil
}
