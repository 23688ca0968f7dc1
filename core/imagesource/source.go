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

// Image sources: an immutable handle to decoded pixel data plus its astrometric
// solution, with the tile/resolution-level geometry the cache and cutouts use.
package imagesource

import (
	"fmt"
	"image"
	"regexp"

	"github.com/euniverse/core/core/raster"
	"github.com/euniverse/core/core/wcs"
)

const DefaultTileSize = 256

// RegionReader - gives access to full resolution samples. Implementations must be safe to call
// from several goroutines, the tile cache decodes on a worker pool.
type RegionReader interface {
	Bands() int
	ReadRegion(r image.Rectangle) (*raster.Raster, error)
}

// Source - an image that has been loaded into a session. Immutable once made.
type Source struct {
	ID       string
	Width    int
	Height   int
	TileSize int
	Levels   int

	// Survey tile name, if the file name had one (eg TILE102018211). Used when naming exports.
	TileID string

	WCS    *wcs.Solution
	reader RegionReader
}

// New - level 0 is full resolution, each level after halves it, until the whole image fits in one tile
func New(id string, reader RegionReader, width, height int, solution *wcs.Solution, tileSize int) (*Source, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image %v has invalid size %vx%v", id, width, height)
	}
	if reader == nil || solution == nil {
		return nil, fmt.Errorf("image %v needs a reader and an astrometric solution", id)
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	levels := 1
	for longest := max(width, height); longest > tileSize; longest = (longest + 1) / 2 {
		levels++
	}

	return &Source{
		ID:       id,
		Width:    width,
		Height:   height,
		TileSize: tileSize,
		Levels:   levels,
		TileID:   ExtractTileID(id),
		WCS:      solution,
		reader:   reader,
	}, nil
}

func (s *Source) Bands() int {
	return s.reader.Bands()
}

// Bounds - full resolution pixel bounds
func (s *Source) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// Contains - is a pixel coordinate inside the image
func (s *Source) Contains(p wcs.PixelCoord) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(s.Width) && p.Y < float64(s.Height)
}

// LevelFactor - how many full resolution pixels one level pixel spans, along each axis
func LevelFactor(level int) int {
	return 1 << uint(level)
}

func (s *Source) LevelSize(level int) (int, int) {
	f := LevelFactor(level)
	return (s.Width + f - 1) / f, (s.Height + f - 1) / f
}

func (s *Source) LevelBounds(level int) image.Rectangle {
	w, h := s.LevelSize(level)
	return image.Rect(0, 0, w, h)
}

// LevelScaleArcsec - pixel scale at a level
func (s *Source) LevelScaleArcsec(level int) float64 {
	return s.WCS.PixelScaleArcsec() * float64(LevelFactor(level))
}

// TileGrid - columns, rows of tiles at a level
func (s *Source) TileGrid(level int) (int, int) {
	w, h := s.LevelSize(level)
	return (w + s.TileSize - 1) / s.TileSize, (h + s.TileSize - 1) / s.TileSize
}

func (s *Source) ValidTile(level, row, col int) bool {
	if level < 0 || level >= s.Levels || row < 0 || col < 0 {
		return false
	}
	cols, rows := s.TileGrid(level)
	return row < rows && col < cols
}

// TileBounds - pixel bounds of a tile, in that level's pixels. Edge tiles are smaller.
func (s *Source) TileBounds(level, row, col int) image.Rectangle {
	r := image.Rect(col*s.TileSize, row*s.TileSize, (col+1)*s.TileSize, (row+1)*s.TileSize)
	return r.Intersect(s.LevelBounds(level))
}

// TileIndex - row/column of a tile within a level
type TileIndex struct {
	Row int
	Col int
}

// TilesOverlapping - tiles needed to cover r (level pixels), row major order
func (s *Source) TilesOverlapping(level int, r image.Rectangle) []TileIndex {
	r = r.Intersect(s.LevelBounds(level))
	if r.Empty() {
		return []TileIndex{}
	}

	result := []TileIndex{}
	for row := r.Min.Y / s.TileSize; row <= (r.Max.Y-1)/s.TileSize; row++ {
		for col := r.Min.X / s.TileSize; col <= (r.Max.X-1)/s.TileSize; col++ {
			result = append(result, TileIndex{Row: row, Col: col})
		}
	}
	return result
}

// DecodeTile - reads a tile's samples. Above level 0 each sample is the mean of the full
// resolution block under it. Reads happen a strip at a time so coarse tiles don't need the
// whole full resolution region in memory at once.
func (s *Source) DecodeTile(level, row, col int) (*raster.Raster, error) {
	if !s.ValidTile(level, row, col) {
		return nil, fmt.Errorf("tile %v/%v/%v outside image %v", level, row, col, s.ID)
	}

	bounds := s.TileBounds(level, row, col)
	f := LevelFactor(level)
	if f == 1 {
		return s.reader.ReadRegion(bounds)
	}

	out := raster.New(bounds.Dx(), bounds.Dy(), s.Bands())
	for y := 0; y < bounds.Dy(); y++ {
		strip := image.Rect(bounds.Min.X*f, (bounds.Min.Y+y)*f, bounds.Max.X*f, (bounds.Min.Y+y+1)*f).Intersect(s.Bounds())
		data, err := s.reader.ReadRegion(strip)
		if err != nil {
			return nil, err
		}
		avg := data.BlockAverage(f)
		if err := out.CopyFrom(avg, avg.Bounds(), image.Pt(0, y)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

var tileIDPattern = regexp.MustCompile(`(TILE\d+)\D`)

// ExtractTileID - pulls the survey tile name out of a file name, empty if there isn't one
func ExtractTileID(name string) string {
	m := tileIDPattern.FindStringSubmatch(name)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
