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

// Tile cache: decoded tiles keyed by (image, level, row, col), bounded by bytes with LRU eviction.
// Tiles are handed out pinned, a pinned tile is never evicted. Misses are decoded on a small worker
// pool and concurrent requests for the same tile share one decode.
package tilecache

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/euniverse/core/core/engineerror"
	"github.com/euniverse/core/core/imagesource"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/raster"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

const (
	minWorkers = 2
	maxWorkers = 4

	DefaultCapacityBytes = 256 * 1024 * 1024
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilecache_hits_total",
		Help: "Tile requests served from the cache.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilecache_misses_total",
		Help: "Tile requests that needed a decode.",
	})
	cacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilecache_evictions_total",
		Help: "Tiles evicted to stay under the byte budget.",
	})
	cacheDecodeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilecache_decode_errors_total",
		Help: "Tile decodes that failed and were replaced by a blank tile.",
	})
	cacheBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tilecache_bytes",
		Help: "Bytes of decoded tile data currently cached.",
	})
)

// Key - identifies a tile across all images a cache holds
type Key struct {
	ImageID string
	Level   int
	Row     int
	Col     int
}

func (k Key) String() string {
	return fmt.Sprintf("%v/%v/%v/%v", k.ImageID, k.Level, k.Row, k.Col)
}

// Tile - immutable once in the cache. Bounds are in pixels of the tile's level. If the decode
// failed, Failed is set and Data is a zeroed raster of the right shape.
type Tile struct {
	Key    Key
	Bounds image.Rectangle
	Data   *raster.Raster
	Failed bool
	err    error
}

type entry struct {
	tile *Tile
	pins int
}

type Config struct {
	CapacityBytes int64
	Workers       int
}

type Stats struct {
	Entries       int
	Pinned        int
	Bytes         int64
	CapacityBytes int64
	Hits          uint64
	Misses        uint64
	Evictions     uint64
	DecodeErrors  uint64
}

type Cache struct {
	mu       sync.Mutex
	lru      *simplelru.LRU[Key, *entry]
	bytes    int64
	capacity int64
	stats    Stats

	flight  singleflight.Group
	workers *semaphore.Weighted
	log     logger.ILogger
}

func New(cfg Config, log logger.ILogger) *Cache {
	workers := cfg.Workers
	if workers < minWorkers {
		workers = minWorkers
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}

	capacity := cfg.CapacityBytes
	if capacity <= 0 {
		capacity = DefaultCapacityBytes
	}

	// Size is enforced in bytes by evictLocked, the LRU only keeps recency order
	lru, _ := simplelru.NewLRU[Key, *entry](math.MaxInt32, nil)

	log.Infof("Tile cache: %v bytes, %v decode workers", capacity, workers)
	return &Cache{
		lru:      lru,
		capacity: capacity,
		workers:  semaphore.NewWeighted(int64(workers)),
		log:      log,
	}
}

// GetTile - blocks until the tile is available or ctx is done. The returned ref must be released.
// If the tile could not be decoded, a ref to a blank placeholder is returned along with an error
// wrapping engineerror.ErrDecode, so a render can carry on without it.
func (c *Cache) GetTile(ctx context.Context, src *imagesource.Source, level, row, col int) (*TileRef, error) {
	if !src.ValidTile(level, row, col) {
		return nil, engineerror.OutOfFootprint("tile %v/%v/%v not in image %v", level, row, col, src.ID)
	}

	key := Key{ImageID: src.ID, Level: level, Row: row, Col: col}

	c.mu.Lock()
	if e, ok := c.lru.Get(key); ok {
		e.pins++
		c.stats.Hits++
		c.mu.Unlock()
		cacheHits.Inc()
		return c.makeRef(e), e.tile.err
	}
	c.stats.Misses++
	c.mu.Unlock()
	cacheMisses.Inc()

	// The decode runs in singleflight's own goroutine, so if we stop waiting it still completes and
	// lands in the cache for the next caller
	ch := c.flight.DoChan(key.String(), func() (interface{}, error) {
		return c.load(src, key), nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		tile := res.Val.(*Tile)
		e := c.pin(tile)
		return c.makeRef(e), tile.err
	}
}

func (c *Cache) load(src *imagesource.Source, key Key) *Tile {
	// Never cancelled: decodes always run to completion
	_ = c.workers.Acquire(context.Background(), 1)
	data, err := src.DecodeTile(key.Level, key.Row, key.Col)
	c.workers.Release(1)

	tile := &Tile{Key: key, Bounds: src.TileBounds(key.Level, key.Row, key.Col), Data: data}
	if err != nil {
		c.log.Errorf("Failed to decode tile %v: %v", key, err)
		tile.Failed = true
		tile.Data = raster.New(tile.Bounds.Dx(), tile.Bounds.Dy(), src.Bands())
		tile.err = engineerror.Decode(err, "tile %v", key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if tile.Failed {
		c.stats.DecodeErrors++
		cacheDecodeErrors.Inc()
	}
	if existing, ok := c.lru.Peek(key); ok {
		return existing.tile
	}
	// Eviction waits until the callers have pinned it, see pin()
	c.insertLocked(&entry{tile: tile})
	return tile
}

// pin - the tile we waited for may have been evicted before we got the lock, tiles are immutable
// so it's fine to put it back
func (c *Cache) pin(tile *Tile) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(tile.Key)
	if !ok {
		e = &entry{tile: tile}
		c.insertLocked(e)
	}
	e.pins++
	c.evictLocked()
	return e
}

func (c *Cache) insertLocked(e *entry) {
	c.lru.Add(e.tile.Key, e)
	c.bytes += e.tile.Data.SizeBytes()
	cacheBytes.Set(float64(c.bytes))
}

func (c *Cache) removeLocked(key Key, e *entry) {
	c.lru.Remove(key)
	c.bytes -= e.tile.Data.SizeBytes()
	cacheBytes.Set(float64(c.bytes))
}

// evictLocked - drops least recently used unpinned tiles until we're within capacity. If
// everything left is pinned we stay over budget until something is released.
func (c *Cache) evictLocked() {
	if c.bytes <= c.capacity {
		return
	}

	for _, key := range c.lru.Keys() {
		if c.bytes <= c.capacity {
			return
		}
		e, ok := c.lru.Peek(key)
		if !ok || e.pins > 0 {
			continue
		}
		c.removeLocked(key, e)
		c.stats.Evictions++
		cacheEvictions.Inc()
	}
}

func (c *Cache) release(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e.pins > 0 {
		e.pins--
	}
	c.evictLocked()
}

// InvalidateImage - drops the unpinned tiles of one image, eg when its session closes
func (c *Cache) InvalidateImage(imageID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for _, key := range c.lru.Keys() {
		if key.ImageID != imageID {
			continue
		}
		if e, ok := c.lru.Peek(key); ok && e.pins == 0 {
			c.removeLocked(key, e)
			dropped++
		}
	}
	return dropped
}

// Cached - is the tile currently held, doesn't affect recency
func (c *Cache) Cached(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Contains(key)
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = c.lru.Len()
	s.Bytes = c.bytes
	s.CapacityBytes = c.capacity
	for _, key := range c.lru.Keys() {
		if e, ok := c.lru.Peek(key); ok && e.pins > 0 {
			s.Pinned++
		}
	}
	return s
}
