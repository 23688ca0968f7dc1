// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package render

import (
	"context"
	"errors"

	"github.com/euniverse/core/core/engineerror"
	"github.com/euniverse/core/core/imageedit"
	"github.com/euniverse/core/core/imagesource"
)

// Preview - the whole image at most maxSide pixels across, made from the finest level that is not
// needlessly big. Scale is preview pixels per full resolution pixel.
type Preview struct {
	Frame
	Scale float64
}

func (r *Renderer) previewLevel(maxSide int) int {
	level := 0
	for level+1 < r.src.Levels {
		w, h := r.src.LevelSize(level + 1)
		if max(w, h) < maxSide {
			break
		}
		level++
	}
	return level
}

func (r *Renderer) Preview(ctx context.Context, maxSide int) (*Preview, error) {
	params := r.pipeline.Params()
	level := r.previewLevel(maxSide)

	region, err := r.cache.ReadRegion(ctx, r.src, level, r.src.LevelBounds(level))
	blank := false
	if err != nil {
		if region == nil || !errors.Is(err, engineerror.ErrDecode) {
			return nil, err
		}
		r.log.Errorf("Preview of %v has blank tiles: %v", r.src.ID, err)
		blank = true
	}

	img, scale := imageedit.MakePreview(r.pipeline.Render(region, params), maxSide)
	return &Preview{
		Frame: Frame{Image: img, Contrast: params, BlankTiles: blank},
		Scale: scale / float64(imagesource.LevelFactor(level)),
	}, nil
}
