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

package catalog

import (
	"math"
	"strings"

	"github.com/euniverse/core/core/engineerror"
	"github.com/euniverse/core/core/wcs"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// Boxes are grown by this much before the tree search, so points sitting exactly on an edge (or on
// a split plane) can't be missed. Hits are checked exactly afterwards.
const searchPad = 1e-9

// skyPoint - kd-tree point: RA, Dec and which entry it is
type skyPoint struct {
	coord [2]float64
	idx   int
}

func (p skyPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.coord[d] - c.(skyPoint).coord[d]
}

func (p skyPoint) Dims() int {
	return 2
}

func (p skyPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(skyPoint)
	dx := p.coord[0] - q.coord[0]
	dy := p.coord[1] - q.coord[1]
	return dx*dx + dy*dy
}

type skyPoints []skyPoint

func (p skyPoints) Index(i int) kdtree.Comparable {
	return p[i]
}

func (p skyPoints) Len() int {
	return len(p)
}

func (p skyPoints) Pivot(d kdtree.Dim) int {
	return skyPlane{skyPoints: p, Dim: d}.Pivot()
}

func (p skyPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

func (p skyPoints) Bounds() *kdtree.Bounding {
	if len(p) == 0 {
		return nil
	}
	min := skyPoint{coord: p[0].coord, idx: -1}
	max := min
	for _, q := range p[1:] {
		for d := range q.coord {
			min.coord[d] = math.Min(min.coord[d], q.coord[d])
			max.coord[d] = math.Max(max.coord[d], q.coord[d])
		}
	}
	return &kdtree.Bounding{Min: min, Max: max}
}

// skyPlane - sorts points along one dimension, for median partitioning
type skyPlane struct {
	kdtree.Dim
	skyPoints
}

func (p skyPlane) Less(i, j int) bool {
	return p.skyPoints[i].coord[p.Dim] < p.skyPoints[j].coord[p.Dim]
}

func (p skyPlane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (p skyPlane) Slice(start, end int) kdtree.SortSlicer {
	p.skyPoints = p.skyPoints[start:end]
	return p
}

func (p skyPlane) Swap(i, j int) {
	p.skyPoints[i], p.skyPoints[j] = p.skyPoints[j], p.skyPoints[i]
}

// Index - immutable spatial index over catalog entries
type Index struct {
	entries []Entry
	tree    *kdtree.Tree
}

// NewIndex - copies the entries, with RA normalised to [0, 360)
func NewIndex(entries []Entry) (*Index, error) {
	ix := &Index{entries: make([]Entry, len(entries))}
	points := make(skyPoints, len(entries))

	for c, e := range entries {
		if math.IsNaN(e.Sky.RA) || math.IsInf(e.Sky.RA, 0) || !(e.Sky.Dec >= -90 && e.Sky.Dec <= 90) {
			return nil, engineerror.Configuration("catalog entry %v has invalid position %v, %v", e.ID, e.Sky.RA, e.Sky.Dec)
		}

		e.Sky.RA = wcs.NormaliseRA(e.Sky.RA)
		ix.entries[c] = e
		points[c] = skyPoint{coord: [2]float64{e.Sky.RA, e.Sky.Dec}, idx: c}
	}

	ix.tree = kdtree.New(points, true)
	return ix, nil
}

func (ix *Index) Len() int {
	return len(ix.entries)
}

// Query - entries inside the footprint, sorted by ID. The returned pointers refer to the index's
// own entries, treat them as read only.
func (ix *Index) Query(fp Footprint) []*Entry {
	seen := map[int]bool{}
	result := []*Entry{}
	if len(ix.entries) == 0 {
		return result
	}

	for _, box := range fp.Boxes() {
		bounds := &kdtree.Bounding{
			Min: skyPoint{coord: [2]float64{box.RAMin - searchPad, box.DecMin - searchPad}},
			Max: skyPoint{coord: [2]float64{box.RAMax + searchPad, box.DecMax + searchPad}},
		}

		ix.tree.DoBounded(bounds, func(c kdtree.Comparable, _ *kdtree.Bounding, _ int) bool {
			idx := c.(skyPoint).idx
			if !seen[idx] && fp.Contains(ix.entries[idx].Sky) {
				seen[idx] = true
				result = append(result, &ix.entries[idx])
			}
			return false
		})
	}

	SortByID(result)
	return result
}

// SortByID - ties (duplicate IDs) keep a stable position order
func SortByID(entries []*Entry) {
	slices.SortStableFunc(entries, func(a, b *Entry) int {
		if c := strings.Compare(a.ID, b.ID); c != 0 {
			return c
		}
		if a.Sky.RA != b.Sky.RA {
			if a.Sky.RA < b.Sky.RA {
				return -1
			}
			return 1
		}
		switch {
		case a.Sky.Dec < b.Sky.Dec:
			return -1
		case a.Sky.Dec > b.Sky.Dec:
			return 1
		}
		return 0
	})
}
