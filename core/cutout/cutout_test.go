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

package cutout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"testing"

	"github.com/euniverse/core/core/contrast"
	"github.com/euniverse/core/core/engineerror"
	"github.com/euniverse/core/core/imagesource"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/raster"
	"github.com/euniverse/core/core/tilecache"
	"github.com/euniverse/core/core/wcs"
)

var refSky = wcs.SkyCoord{RA: 150, Dec: 2}

func makeExtractor(t testing.TB) (*Extractor, *raster.Raster) {
	src, data, err := imagesource.MakeSynthetic("TILE5_vis", 1024, 1024, 2, 128, refSky, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	cache := tilecache.New(tilecache.Config{CapacityBytes: 1 << 22}, &logger.NullLogger{})
	return NewExtractor(src, cache, 64, &logger.NullLogger{}), data
}

func Example_pickLevel() {
	e, _ := makeExtractor(&testing.T{})
	fmt.Println(e.src.Levels, e.PickLevel(1), e.PickLevel(10), e.PickLevel(15), e.PickLevel(30), e.PickLevel(60), e.PickLevel(5000))

	// Output:
	// 4 0 0 1 2 3 3
}

func expectedRegion(data *raster.Raster, factor int, r image.Rectangle) *raster.Raster {
	level := data.BlockAverage(factor)
	out := raster.New(r.Dx(), r.Dy(), data.Bands)
	out.CopyFrom(level, r, image.Point{})
	return out
}

func Test_ExtractMatchesSource(t *testing.T) {
	e, data := makeExtractor(t)

	for _, tc := range []struct {
		size   float64
		level  int
		region image.Rectangle
		origin image.Rectangle
	}{
		{6.3, 0, image.Rect(480, 480, 544, 544), image.Rect(480, 480, 544, 544)},
		{30, 2, image.Rect(90, 90, 166, 166), image.Rect(360, 360, 664, 664)},
		{60, 3, image.Rect(26, 26, 102, 102), image.Rect(208, 208, 816, 816)},
	} {
		c, err := e.Extract(context.Background(), refSky, tc.size)
		if err != nil {
			t.Fatal(err)
		}
		if c.Level != tc.level {
			t.Errorf("size %v: got level %v; want: %v", tc.size, c.Level, tc.level)
		}
		if c.Center != (wcs.PixelCoord{X: 512, Y: 512}) {
			t.Errorf("size %v: got centre %+v", tc.size, c.Center)
		}
		if c.Origin != tc.origin {
			t.Errorf("size %v: got origin %v; want: %v", tc.size, c.Origin, tc.origin)
		}

		want := expectedRegion(data, imagesource.LevelFactor(tc.level), tc.region)
		if !c.Raster.Equal(want) {
			t.Errorf("size %v: samples differ from source", tc.size)
		}

		again, err := e.Extract(context.Background(), refSky, tc.size)
		if err != nil {
			t.Fatal(err)
		}
		if !again.Raster.Equal(c.Raster) || again.Origin != c.Origin {
			t.Errorf("size %v: repeated extract differs", tc.size)
		}
		if &again.Raster.Pix[0] == &c.Raster.Pix[0] {
			t.Errorf("size %v: cutouts share memory", tc.size)
		}
	}

	if s := e.cache.Stats(); s.Pinned != 0 {
		t.Errorf("got %v pinned tiles; want: 0", s.Pinned)
	}
}

func Test_ExtractClipsAtEdge(t *testing.T) {
	e, data := makeExtractor(t)

	corner := e.src.WCS.ToSky(wcs.PixelCoord{X: 2, Y: 1020})
	c, err := e.Extract(context.Background(), corner, 6.3)
	if err != nil {
		t.Fatal(err)
	}

	wantRect := image.Rect(0, 988, 34, 1024)
	if c.Origin != wantRect || c.Raster.Width != 34 || c.Raster.Height != 36 {
		t.Errorf("got %v %vx%v; want: %v", c.Origin, c.Raster.Width, c.Raster.Height, wantRect)
	}
	if !c.Raster.Equal(expectedRegion(data, 1, wantRect)) {
		t.Errorf("samples differ from source")
	}
}

func Example_extractErrors() {
	e, _ := makeExtractor(&testing.T{})
	ctx := context.Background()

	_, err := e.Extract(ctx, wcs.SkyCoord{RA: 151, Dec: 2}, 10)
	fmt.Println(err, errors.Is(err, engineerror.ErrOutOfFootprint))

	_, err = e.Extract(ctx, wcs.SkyCoord{RA: 330, Dec: -2}, 10)
	fmt.Println(errors.Is(err, engineerror.ErrOutOfFootprint))

	_, err = e.Extract(ctx, refSky, 0)
	fmt.Println(err)

	// Output:
	// cutout centre 151, 2 is outside image TILE5_vis: out of footprint true
	// true
	// invalid cutout size 0 arcsec: configuration error
}

type brokenReader struct {
	imagesource.RegionReader
}

func (r brokenReader) ReadRegion(image.Rectangle) (*raster.Raster, error) {
	return nil, errors.New("truncated file")
}

func Test_ExtractFailsOnDecodeError(t *testing.T) {
	sol, _ := wcs.FromScaleRotation(wcs.PixelCoord{X: 100, Y: 100}, refSky, 1, 0)
	src, err := imagesource.New("broken", brokenReader{imagesource.MakeMemoryReader(raster.New(200, 200, 1))}, 200, 200, sol, 64)
	if err != nil {
		t.Fatal(err)
	}

	l := &logger.MemLogger{}
	e := NewExtractor(src, tilecache.New(tilecache.Config{}, &logger.NullLogger{}), 0, l)

	c, err := e.Extract(context.Background(), refSky, 20)
	if c != nil || !errors.Is(err, engineerror.ErrDecode) {
		t.Errorf("got %v, %v; want: decode error", c, err)
	}
	if len(l.Lines()) != 1 {
		t.Errorf("got %v; want: one error logged", l.Lines())
	}
}

func Test_CutoutPNG(t *testing.T) {
	e, _ := makeExtractor(t)
	c, err := e.Extract(context.Background(), refSky, 6.3)
	if err != nil {
		t.Fatal(err)
	}

	pipeline, _ := contrast.NewPipeline(contrast.DefaultParams(), &logger.NullLogger{})
	b, err := c.PNG(pipeline, contrast.Params{Lower: 0, Upper: 1000, Stretch: contrast.StretchAsinh})
	if err != nil {
		t.Fatal(err)
	}

	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 64, 64) {
		t.Errorf("got %v; want: 64x64", img.Bounds())
	}

	if _, err := c.PNG(pipeline, contrast.Params{Lower: 1, Upper: 0, Stretch: contrast.StretchLinear}); !errors.Is(err, engineerror.ErrConfiguration) {
		t.Errorf("got %v; want: configuration error", err)
	}
}
