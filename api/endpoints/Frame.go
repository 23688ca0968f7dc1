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

package endpoints

import (
	"github.com/euniverse/core/api/handlers"
	apiRouter "github.com/euniverse/core/api/router"
	"github.com/euniverse/core/core/imageedit"
	"github.com/euniverse/core/core/overlay"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// Rendered images of the current view, and the markers that go on top of them

type MarkersResponse struct {
	Markers        []overlay.Marker `json:"markers"`
	Version        uint64           `json:"version"`
	Stale          bool             `json:"stale"`
	CatalogPending bool             `json:"catalogPending"`
}

func registerFrameHandler(router *apiRouter.ApiObjectRouter) {
	router.AddImageHandler("/frame.png", "GET", frameGet)
	router.AddImageHandler("/snapshot.png", "GET", snapshotGet)
	router.AddImageHandler("/preview.png", "GET", previewGet)
	router.AddJSONHandler("/markers", "GET", markersGet)
}

func frameGet(params handlers.ApiHandlerParams) ([]byte, error) {
	frame, err := params.Svcs.Session.Frame(params.Context())
	if err != nil {
		return nil, err
	}
	return imageedit.GetImageBytes(frame.Image, imageedit.FormatPNG)
}

func snapshotGet(params handlers.ApiHandlerParams) ([]byte, error) {
	img, err := params.Svcs.Session.Snapshot(params.Context())
	if err != nil {
		return nil, err
	}
	return imageedit.GetImageBytes(img, imageedit.FormatPNG)
}

func previewGet(params handlers.ApiHandlerParams) ([]byte, error) {
	img, err := params.Svcs.Session.Preview(params.Context())
	if err != nil {
		return nil, err
	}
	return imageedit.GetImageBytes(img, imageedit.FormatPNG)
}

func markersGet(params handlers.ApiHandlerParams) (interface{}, error) {
	sess := params.Svcs.Session
	snap := sess.Markers()

	result := MarkersResponse{
		Markers:        snap.Markers,
		Version:        snap.Version,
		Stale:          snap.Stale,
		CatalogPending: sess.Catalog.Pending(),
	}
	if result.Markers == nil {
		result.Markers = []overlay.Marker{}
	}
	return result, nil
}
