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

package tilecache

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/euniverse/core/core/engineerror"
	"github.com/euniverse/core/core/imagesource"
	"github.com/euniverse/core/core/raster"
	"golang.org/x/sync/errgroup"
)

// ReadRegion - copies rect (in level pixels, already inside the level) out of the cache into a new
// raster, fetching the tiles it overlaps in parallel. If any tile failed to decode the raster is still
// returned, blank where those tiles are, along with the first decode error. Any other error gives no
// raster.
func (c *Cache) ReadRegion(ctx context.Context, src *imagesource.Source, level int, rect image.Rectangle) (*raster.Raster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := raster.New(rect.Dx(), rect.Dy(), src.Bands())

	var decodeLock sync.Mutex
	var decodeErr error

	// Tiles are disjoint so each goroutine writes a separate part of out
	group, groupCtx := errgroup.WithContext(ctx)
	for _, t := range src.TilesOverlapping(level, rect) {
		t := t
		group.Go(func() error {
			ref, err := c.GetTile(groupCtx, src, level, t.Row, t.Col)
			if ref == nil {
				return err
			}
			defer ref.Release()

			if err != nil {
				if !errors.Is(err, engineerror.ErrDecode) {
					return err
				}
				decodeLock.Lock()
				if decodeErr == nil {
					decodeErr = err
				}
				decodeLock.Unlock()
			}

			tile := ref.Tile()
			part := tile.Bounds.Intersect(rect)
			return out.CopyFrom(tile.Data, part.Sub(tile.Bounds.Min), part.Min.Sub(rect.Min))
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, decodeErr
}
