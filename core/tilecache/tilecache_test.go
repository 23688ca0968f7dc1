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
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/euniverse/core/core/engineerror"
	"github.com/euniverse/core/core/imagesource"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/raster"
	"github.com/euniverse/core/core/wcs"
)

// countingReader - counts region reads, optionally blocks them until gate is closed, and fails
// them if failWith is set
type countingReader struct {
	inner    imagesource.RegionReader
	reads    int32
	gate     chan struct{}
	failWith error
}

func (r *countingReader) Bands() int {
	return r.inner.Bands()
}

func (r *countingReader) ReadRegion(rect image.Rectangle) (*raster.Raster, error) {
	atomic.AddInt32(&r.reads, 1)
	if r.gate != nil {
		<-r.gate
	}
	if r.failWith != nil {
		return nil, r.failWith
	}
	return r.inner.ReadRegion(rect)
}

func makeSource(t *testing.T, id string, reader imagesource.RegionReader, w, h int) *imagesource.Source {
	sol, err := wcs.FromScaleRotation(wcs.PixelCoord{X: float64(w) / 2, Y: float64(h) / 2}, wcs.SkyCoord{RA: 150, Dec: 2}, 0.1, 0)
	if err != nil {
		t.Fatal(err)
	}
	src, err := imagesource.New(id, reader, w, h, sol, 32)
	if err != nil {
		t.Fatal(err)
	}
	return src
}

func Example_cacheHitReturnsSameData() {
	src, _, err := imagesource.MakeSynthetic("TILE01_vis.tif", 64, 64, 1, 32, wcs.SkyCoord{RA: 10, Dec: 10}, 0.2)
	if err != nil {
		fmt.Println(err)
		return
	}

	l := &logger.MemLogger{}
	c := New(Config{CapacityBytes: 1 << 20, Workers: 9}, l)

	ctx := context.Background()
	a, errA := c.GetTile(ctx, src, 0, 1, 0)
	b, errB := c.GetTile(ctx, src, 0, 1, 0)
	fmt.Println(errA, errB)
	fmt.Println(a.Tile().Data == b.Tile().Data, a.Tile().Bounds, a.Tile().Data.At(0, 0, 0))

	s := c.Stats()
	fmt.Printf("entries=%v pinned=%v hits=%v misses=%v bytes=%v\n", s.Entries, s.Pinned, s.Hits, s.Misses, s.Bytes)

	a.Release()
	a.Release()
	b.Release()
	fmt.Printf("pinned=%v\n", c.Stats().Pinned)
	fmt.Println(l.Lines())

	_, err = c.GetTile(ctx, src, 0, 2, 0)
	fmt.Println(errors.Is(err, engineerror.ErrOutOfFootprint))

	// Output:
	// <nil> <nil>
	// true (0,32)-(32,64) 416
	// entries=1 pinned=1 hits=1 misses=1 bytes=4096
	// pinned=0
	// [INFO: Tile cache: 1048576 bytes, 4 decode workers]
	// true
}

func Test_ConcurrentRequestsDecodeOnce(t *testing.T) {
	data := raster.New(64, 64, 1)
	reader := &countingReader{inner: imagesource.MakeMemoryReader(data), gate: make(chan struct{})}
	src := makeSource(t, "img", reader, 64, 64)
	c := New(Config{CapacityBytes: 1 << 20, Workers: 2}, &logger.NullLogger{})

	const callers = 10
	results := make([]*TileRef, callers)
	wg := sync.WaitGroup{}
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ref, err := c.GetTile(context.Background(), src, 0, 0, 1)
			if err != nil {
				t.Errorf("caller %v: %v", i, err)
				return
			}
			results[i] = ref
		}(i)
	}

	// Give the callers a chance to pile up behind the blocked decode
	time.Sleep(50 * time.Millisecond)
	close(reader.gate)
	wg.Wait()

	if got := atomic.LoadInt32(&reader.reads); got != 1 {
		t.Errorf("got %v; want: %v", got, 1)
	}

	for i, ref := range results {
		if ref == nil {
			continue
		}
		if ref.Tile().Data != results[0].Tile().Data {
			t.Errorf("caller %v got a different raster", i)
		}
		ref.Release()
	}

	if s := c.Stats(); s.Pinned != 0 || s.Entries != 1 {
		t.Errorf("got %+v; want: 1 entry, none pinned", s)
	}
}

func Test_CancelledCallerStillCachesTile(t *testing.T) {
	reader := &countingReader{inner: imagesource.MakeMemoryReader(raster.New(64, 64, 1)), gate: make(chan struct{})}
	src := makeSource(t, "img", reader, 64, 64)
	c := New(Config{CapacityBytes: 1 << 20}, &logger.NullLogger{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ref, err := c.GetTile(ctx, src, 0, 0, 0)
	if ref != nil || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, %v; want: nil, %v", ref, err, context.DeadlineExceeded)
	}

	close(reader.gate)

	key := Key{ImageID: "img", Level: 0, Row: 0, Col: 0}
	deadline := time.Now().Add(2 * time.Second)
	for !c.Cached(key) {
		if time.Now().After(deadline) {
			t.Fatal("decode never landed in the cache")
		}
		time.Sleep(time.Millisecond)
	}

	ref, err = c.GetTile(context.Background(), src, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	ref.Release()

	if got := atomic.LoadInt32(&reader.reads); got != 1 {
		t.Errorf("got %v reads; want: %v", got, 1)
	}
	if s := c.Stats(); s.Hits != 1 || s.Misses != 1 {
		t.Errorf("got hits=%v misses=%v; want: 1, 1", s.Hits, s.Misses)
	}
}

func Test_PinnedTilesSurviveEviction(t *testing.T) {
	src := makeSource(t, "img", imagesource.MakeMemoryReader(raster.New(64, 64, 1)), 64, 64)

	// Room for exactly one 32x32 single band tile
	c := New(Config{CapacityBytes: 32 * 32 * 4}, &logger.NullLogger{})
	ctx := context.Background()

	keyA := Key{ImageID: "img", Row: 0, Col: 0}
	keyB := Key{ImageID: "img", Row: 0, Col: 1}

	a, err := c.GetTile(ctx, src, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.GetTile(ctx, src, 0, 0, 1)
	if err != nil {
		t.Fatal(err)
	}

	// Both pinned, so we're allowed to be over budget
	if s := c.Stats(); s.Entries != 2 || s.Bytes != 8192 {
		t.Errorf("got %+v; want: 2 entries, 8192 bytes", s)
	}

	b.Release()
	if !c.Cached(keyA) || c.Cached(keyB) {
		t.Errorf("got A=%v B=%v; want: A cached, B evicted", c.Cached(keyA), c.Cached(keyB))
	}

	a.Release()
	b, err = c.GetTile(ctx, src, 0, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()

	if c.Cached(keyA) || !c.Cached(keyB) {
		t.Errorf("got A=%v B=%v; want: A evicted, B cached", c.Cached(keyA), c.Cached(keyB))
	}
	if s := c.Stats(); s.Evictions != 2 || s.Bytes != 4096 {
		t.Errorf("got %+v; want: 2 evictions, 4096 bytes", s)
	}
}

func Test_DecodeErrorGivesPlaceholder(t *testing.T) {
	reader := &countingReader{inner: imagesource.MakeMemoryReader(raster.New(40, 40, 3)), failWith: errors.New("corrupt strip")}
	src := makeSource(t, "bad", reader, 40, 40)
	l := &logger.MemLogger{}
	c := New(Config{}, l)

	for i := 0; i < 2; i++ {
		ref, err := c.GetTile(context.Background(), src, 0, 1, 1)
		if !errors.Is(err, engineerror.ErrDecode) {
			t.Fatalf("got %v; want: decode error", err)
		}
		if ref == nil {
			t.Fatal("expected a placeholder tile")
		}

		tile := ref.Tile()
		if !tile.Failed || tile.Data.Width != 8 || tile.Data.Height != 8 || tile.Data.Bands != 3 {
			t.Errorf("got failed=%v %vx%vx%v; want: failed 8x8x3", tile.Failed, tile.Data.Width, tile.Data.Height, tile.Data.Bands)
		}
		for _, v := range tile.Data.Pix {
			if v != 0 {
				t.Fatalf("placeholder has non-zero sample %v", v)
			}
		}
		ref.Release()
	}

	if s := c.Stats(); s.DecodeErrors != 1 || s.Hits != 1 {
		t.Errorf("got %+v; want: 1 decode error, 1 hit", s)
	}
	if got := atomic.LoadInt32(&reader.reads); got != 1 {
		t.Errorf("got %v reads; want: %v", got, 1)
	}

	lines := l.Lines()
	want := "ERROR: Failed to decode tile bad/0/1/1: corrupt strip"
	if len(lines) != 2 || lines[1] != want {
		t.Errorf("got %v; want: %v", lines, want)
	}
}

func Example_invalidateImage() {
	srcA, _, _ := imagesource.MakeSynthetic("a", 64, 32, 1, 32, wcs.SkyCoord{RA: 1, Dec: 1}, 1)
	srcB, _, _ := imagesource.MakeSynthetic("b", 64, 32, 1, 32, wcs.SkyCoord{RA: 1, Dec: 1}, 1)
	c := New(Config{}, &logger.NullLogger{})
	ctx := context.Background()

	held, _ := c.GetTile(ctx, srcA, 0, 0, 0)
	r, _ := c.GetTile(ctx, srcA, 0, 0, 1)
	r.Release()
	r, _ = c.GetTile(ctx, srcB, 0, 0, 0)
	r.Release()

	fmt.Println(c.InvalidateImage("a"), c.Stats().Entries)
	held.Release()
	fmt.Println(c.InvalidateImage("a"), c.Stats().Entries)

	// Output:
	// 1 2
	// 1 1
}

func Test_ReadRegionSpansTiles(t *testing.T) {
	src, data, err := imagesource.MakeSynthetic("TILE02_vis.tif", 100, 100, 3, 32, wcs.SkyCoord{RA: 10, Dec: 10}, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	c := New(Config{}, &logger.NullLogger{})

	rect := image.Rect(10, 20, 70, 90)
	out, err := c.ReadRegion(context.Background(), src, 0, rect)
	if err != nil {
		t.Fatal(err)
	}

	want := raster.New(60, 70, 3)
	want.CopyFrom(data, rect, image.Point{})
	if !out.Equal(want) {
		t.Errorf("region differs from source")
	}

	s := c.Stats()
	if s.Entries != 9 || s.Pinned != 0 {
		t.Errorf("got %v entries, %v pinned; want: 9, 0", s.Entries, s.Pinned)
	}
}

func Test_ReadRegionWithDecodeError(t *testing.T) {
	reader := &countingReader{inner: imagesource.MakeMemoryReader(raster.New(64, 64, 1)), failWith: errors.New("corrupt")}
	src := makeSource(t, "bad", reader, 64, 64)
	c := New(Config{}, &logger.NullLogger{})

	out, err := c.ReadRegion(context.Background(), src, 0, image.Rect(0, 0, 64, 64))
	if !errors.Is(err, engineerror.ErrDecode) {
		t.Errorf("got %v; want: decode error", err)
	}
	if out == nil || out.Width != 64 || out.Height != 64 {
		t.Errorf("got %v; want: blank 64x64 raster", out)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if out, err := c.ReadRegion(ctx, src, 0, image.Rect(0, 0, 64, 64)); out != nil || !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, %v; want: cancelled", out, err)
	}
}
