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

// Session - everything that belongs to one open image: its viewport, contrast, catalog, overlay markers
// and targets. Nothing here is global, a host can run several sessions side by side sharing one tile
// cache.
package session

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/euniverse/core/core/catalog"
	"github.com/euniverse/core/core/contrast"
	"github.com/euniverse/core/core/cutout"
	"github.com/euniverse/core/core/engineerror"
	"github.com/euniverse/core/core/idgen"
	"github.com/euniverse/core/core/imageedit"
	"github.com/euniverse/core/core/imagesource"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/overlay"
	"github.com/euniverse/core/core/render"
	"github.com/euniverse/core/core/targets"
	"github.com/euniverse/core/core/tilecache"
	"github.com/euniverse/core/core/timestamper"
	"github.com/euniverse/core/core/viewport"
	"github.com/euniverse/core/core/wcs"
)

type Config struct {
	Viewport        viewport.Config
	Contrast        contrast.Params
	MinCutoutPixels int
}

type Session struct {
	ID     string
	Source *imagesource.Source

	Viewport *viewport.Controller
	Contrast *contrast.Pipeline
	Catalog  *catalog.Holder
	Overlay  *overlay.Resolver
	Cutouts  *cutout.Extractor
	Targets  *targets.Manager

	cache       *tilecache.Cache
	renderer    *render.Renderer
	unsubscribe []func()
	closeOnce   sync.Once
	log         logger.ILogger
}

// Open - wires the components together. Viewport changes reach the overlay resolver when the viewport
// is ticked (Frame does this, or run Viewport.Run), catalog loads reach it as soon as the index is
// installed.
func Open(src *imagesource.Source, cache *tilecache.Cache, cfg Config, idGen idgen.IDGenerator, clock timestamper.ITimeStamper, log logger.ILogger) (*Session, error) {
	vp, err := viewport.New(src, cfg.Viewport, log)
	if err != nil {
		return nil, err
	}

	pipeline, err := contrast.NewPipeline(cfg.Contrast, log)
	if err != nil {
		return nil, err
	}

	holder := catalog.NewHolder(log)

	s := &Session{
		ID:       idGen.GenObjectID(),
		Source:   src,
		Viewport: vp,
		Contrast: pipeline,
		Catalog:  holder,
		Overlay:  overlay.NewResolver(src.WCS, holder, vp.State(), log),
		Cutouts:  cutout.NewExtractor(src, cache, cfg.MinCutoutPixels, log),
		Targets:  targets.NewManager(idGen, clock, log),
		cache:    cache,
		renderer: render.NewRenderer(src, cache, pipeline, log),
		log:      log,
	}

	s.unsubscribe = append(s.unsubscribe,
		vp.Subscribe(func(ch viewport.Change) {
			s.Overlay.Invalidate(ch.State)
		}),
		holder.Subscribe(s.Overlay.CatalogChanged),
	)

	log.Infof("Opened session %v on image %v (%vx%v, %v bands, %v levels)", s.ID, src.ID, src.Width, src.Height, src.Bands(), src.Levels)
	return s, nil
}

// LoadCatalog - indexes in the background, markers show as stale until it's done
func (s *Session) LoadCatalog(entries []catalog.Entry) <-chan error {
	return s.Catalog.LoadAsync(entries)
}

// Frame - renders the current viewport state with whatever markers are ready. MarkersStale is set if
// they were resolved for an older state or catalog.
func (s *Session) Frame(ctx context.Context) (*render.Frame, error) {
	s.Viewport.Tick()
	state := s.Viewport.State()

	frame, err := s.renderer.Render(ctx, state)
	if err != nil {
		return nil, err
	}

	markers := s.markersFor(state)
	frame.Markers = markers.Markers
	frame.MarkersStale = markers.Stale
	return frame, nil
}

// Markers - what the overlay has resolved, Stale unless it matches the current viewport state
func (s *Session) Markers() overlay.Snapshot {
	s.Viewport.Tick()
	return s.markersFor(s.Viewport.State())
}

func (s *Session) markersFor(state viewport.State) overlay.Snapshot {
	markers := s.Overlay.Markers()
	markers.Stale = markers.Stale || markers.Version != state.Version
	return markers
}

// AutoContrast - sets Lower/Upper from percentiles of the coarsest level, keeping the stretch
func (s *Session) AutoContrast(ctx context.Context, lowPct, highPct float64) (contrast.Params, error) {
	level := s.Source.Levels - 1
	region, err := s.cache.ReadRegion(ctx, s.Source, level, s.Source.LevelBounds(level))
	if err != nil {
		if region == nil || !errors.Is(err, engineerror.ErrDecode) {
			return contrast.Params{}, err
		}
		s.log.Errorf("Auto contrast for %v ignoring unreadable tiles: %v", s.Source.ID, err)
	}

	lower, upper, err := contrast.AutoClip(region, lowPct, highPct)
	if err != nil {
		return contrast.Params{}, err
	}

	params := s.Contrast.Params()
	params.Lower = lower
	params.Upper = upper
	if err := s.Contrast.SetParams(params); err != nil {
		return contrast.Params{}, err
	}

	s.log.Infof("Auto contrast %v..%v%% for %v: %v..%v", lowPct, highPct, s.Source.ID, lower, upper)
	return s.Contrast.Params(), nil
}

// Snapshot - the current frame with markers and targets drawn on
func (s *Session) Snapshot(ctx context.Context) (*image.RGBA, error) {
	frame, err := s.Frame(ctx)
	if err != nil {
		return nil, err
	}
	return render.Snapshot(frame, s.Source.WCS, s.Targets.List()), nil
}

// Preview - a quick look at the whole image with the targets marked on it
func (s *Session) Preview(ctx context.Context) (*image.RGBA, error) {
	preview, err := s.renderer.Preview(ctx, imageedit.PreviewMaxSide)
	if err != nil {
		return nil, err
	}

	records := s.Targets.List()
	if len(records) == 0 {
		return preview.Image, nil
	}

	locations := make([]wcs.PixelCoord, 0, len(records))
	for _, rec := range records {
		if p, err := s.Source.WCS.ToPixel(rec.Sky); err == nil {
			locations = append(locations, p)
		}
	}
	return imageedit.MarkLocations(preview.Image, locations, color.RGBA{R: 255, G: 255, A: 255}, preview.Scale), nil
}

// Close - stops background work and drops this image's tiles from the cache. Safe to call more than
// once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		for _, unsub := range s.unsubscribe {
			unsub()
		}
		s.Overlay.Close()
		dropped := s.cache.InvalidateImage(s.Source.ID)
		s.log.Infof("Closed session %v, dropped %v cached tiles", s.ID, dropped)
	})
}
