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

import "sync"

// TileRef - a pinned tile. Read what you need then Release it, don't keep the ref around between
// renders, request the tile again instead.
type TileRef struct {
	cache *Cache
	entry *entry
	once  sync.Once
}

func (c *Cache) makeRef(e *entry) *TileRef {
	return &TileRef{cache: c, entry: e}
}

func (r *TileRef) Tile() *Tile {
	return r.entry.tile
}

// Release - unpins the tile, safe to call more than once
func (r *TileRef) Release() {
	r.once.Do(func() {
		r.cache.release(r.entry)
	})
}
