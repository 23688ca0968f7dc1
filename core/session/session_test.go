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

package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/euniverse/core/core/catalog"
	"github.com/euniverse/core/core/contrast"
	"github.com/euniverse/core/core/engineerror"
	"github.com/euniverse/core/core/idgen"
	"github.com/euniverse/core/core/imagesource"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/render"
	"github.com/euniverse/core/core/tilecache"
	"github.com/euniverse/core/core/timestamper"
	"github.com/euniverse/core/core/viewport"
	"github.com/euniverse/core/core/wcs"
)

func openSession(t testing.TB, log logger.ILogger) (*Session, *tilecache.Cache) {
	src, _, err := imagesource.MakeSynthetic("TILE7_test", 1000, 500, 1, 128, wcs.SkyCoord{RA: 150, Dec: 2}, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	cache := tilecache.New(tilecache.Config{}, &logger.NullLogger{})
	cfg := Config{
		Viewport: viewport.Config{ScreenW: 200, ScreenH: 100},
		Contrast: contrast.Params{Lower: 0, Upper: 1000, Stretch: contrast.StretchAsinh},
	}

	s, err := Open(src, cache, cfg, &idgen.MockIDGenerator{IDs: []string{"s1", "t1", "t2"}}, &timestamper.MockTimeNowStamper{QueuedTimeStamps: []int64{1700000000, 1700000005}}, log)
	if err != nil {
		t.Fatal(err)
	}
	return s, cache
}

func waitForMarkers(t *testing.T, s *Session) *render.Frame {
	deadline := time.Now().Add(5 * time.Second)
	for {
		frame, err := s.Frame(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !frame.MarkersStale {
			return frame
		}
		if time.Now().After(deadline) {
			t.Fatalf("markers still stale for version %v", frame.State.Version)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func markerIDs(frame *render.Frame) []string {
	ids := []string{}
	for _, m := range frame.Markers {
		ids = append(ids, m.Entry.ID)
	}
	return ids
}

func Test_FrameFollowsViewportAndCatalog(t *testing.T) {
	s, _ := openSession(t, &logger.NullLogger{})
	defer s.Close()

	sol := s.Source.WCS
	frame, err := s.Frame(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !frame.MarkersStale || len(frame.Markers) != 0 {
		t.Errorf("before catalog load got stale=%v markers=%v", frame.MarkersStale, markerIDs(frame))
	}
	if frame.Image.Bounds() != image.Rect(0, 0, 200, 100) || frame.State.Zoom != 0.2 {
		t.Errorf("got %v zoom %v", frame.Image.Bounds(), frame.State.Zoom)
	}

	entries := []catalog.Entry{
		{ID: "a", Sky: sol.ToSky(wcs.PixelCoord{X: 500, Y: 250})},
		{ID: "b", Sky: sol.ToSky(wcs.PixelCoord{X: 100, Y: 100})},
		{ID: "c", Sky: wcs.SkyCoord{RA: 151, Dec: 2}},
	}
	if err := <-s.LoadCatalog(entries); err != nil {
		t.Fatal(err)
	}

	frame = waitForMarkers(t, s)
	if ids := fmt.Sprint(markerIDs(frame)); ids != "[a b]" {
		t.Errorf("fitted view: got %v; want: [a b]", ids)
	}

	s.Viewport.ResetZoom()
	frame = waitForMarkers(t, s)
	if ids := fmt.Sprint(markerIDs(frame)); ids != "[a]" {
		t.Errorf("zoomed view: got %v; want: [a]", ids)
	}
	if frame.State.Zoom != 1 {
		t.Errorf("got zoom %v; want: 1", frame.State.Zoom)
	}
}

func Test_CloseDropsTiles(t *testing.T) {
	l := &logger.MemLogger{}
	s, cache := openSession(t, l)

	if _, err := s.Frame(context.Background()); err != nil {
		t.Fatal(err)
	}
	if cache.Stats().Entries == 0 {
		t.Fatalf("frame cached no tiles")
	}

	s.Close()
	s.Close()

	if st := cache.Stats(); st.Entries != 0 || st.Bytes != 0 {
		t.Errorf("got %v entries, %v bytes after close; want: 0", st.Entries, st.Bytes)
	}

	opened, closed := 0, 0
	for _, line := range l.Lines() {
		if line == "INFO: Opened session s1 on image TILE7_test (1000x500, 1 bands, 4 levels)" {
			opened++
		}
		if strings.HasPrefix(line, "INFO: Closed session s1, dropped ") {
			closed++
		}
	}
	if opened != 1 || closed != 1 {
		t.Errorf("got %v open, %v close lines; want: 1, 1", opened, closed)
	}
}

func Test_SessionActions(t *testing.T) {
	s, _ := openSession(t, &logger.NullLogger{})
	defer s.Close()

	center := s.Source.WCS.ToSky(wcs.PixelCoord{X: 500, Y: 250})

	c, err := s.Cutouts.Extract(context.Background(), center, 5.1)
	if err != nil {
		t.Fatal(err)
	}
	if c.Level != 0 || c.Raster.Width != 52 || c.Raster.Height != 52 {
		t.Errorf("got level %v %vx%v", c.Level, c.Raster.Width, c.Raster.Height)
	}

	if err := s.Viewport.CenterOn(wcs.SkyCoord{RA: 160, Dec: 2}); !errors.Is(err, engineerror.ErrOutOfFootprint) {
		t.Errorf("got %v; want: out of footprint", err)
	}

	s.Targets.Add(center, "GL: arc")
	s.Targets.Add(center, "Gx: Ring")
	list := s.Targets.List()
	if len(list) != 2 || list[0].ID != "t1" || list[1].ID != "t2" || !list[1].CreatedAt.After(list[0].CreatedAt) {
		t.Errorf("got %+v", list)
	}

	snap, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Bounds() != image.Rect(0, 0, 200, 100) {
		t.Errorf("got snapshot %v", snap.Bounds())
	}

	preview, err := s.Preview(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if preview.Bounds() != image.Rect(0, 0, 1000, 500) {
		t.Errorf("got preview %v", preview.Bounds())
	}
	if c := preview.RGBAAt(500, 250); c != (color.RGBA{R: 255, G: 255, A: 255}) {
		t.Errorf("got target mark colour %v", c)
	}
}

func Test_AutoContrast(t *testing.T) {
	s, _ := openSession(t, &logger.NullLogger{})
	defer s.Close()

	p, err := s.AutoContrast(context.Background(), 1, 99)
	if err != nil {
		t.Fatal(err)
	}
	if p.Lower >= p.Upper || p.Stretch != contrast.StretchAsinh {
		t.Errorf("got %+v", p)
	}
	if got := s.Contrast.Params(); got.Lower != p.Lower || got.Upper != p.Upper {
		t.Errorf("got %+v; want: %+v", got, p)
	}

	_, err = s.AutoContrast(context.Background(), 50, 50)
	if !errors.Is(err, engineerror.ErrConfiguration) {
		t.Errorf("got %v; want: configuration error", err)
	}
	if got := s.Contrast.Params(); got.Lower != p.Lower || got.Upper != p.Upper {
		t.Errorf("params changed after failed auto contrast: %+v", got)
	}
}
