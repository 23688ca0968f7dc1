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
	"errors"
	"fmt"
	"strings"

	"github.com/euniverse/core/api/handlers"
	apiRouter "github.com/euniverse/core/api/router"
	"github.com/euniverse/core/api/targetstore"
	"github.com/euniverse/core/core/errorwithstatus"
	"github.com/euniverse/core/core/imagesource"
	"github.com/euniverse/core/core/targets"
	"github.com/euniverse/core/core/wcs"
)

const targetsPrefix = "targets"

type targetRequest struct {
	RA    float64 `json:"ra"`
	Dec   float64 `json:"dec"`
	Label string  `json:"label"`
}

type exportRequest struct {
	User string `json:"user"`
}

func registerTargetHandler(router *apiRouter.ApiObjectRouter) {
	router.AddJSONHandler(handlers.MakeEndpointPath(targetsPrefix), "GET", targetsGet)
	router.AddJSONHandler(handlers.MakeEndpointPath(targetsPrefix), "POST", targetsPost)
	router.AddJSONHandler(handlers.MakeEndpointPath(targetsPrefix, "classifiers"), "GET", classifiersGet)
	router.AddJSONHandler(handlers.MakeEndpointPath(targetsPrefix, "export"), "POST", targetsExport)

	// Saved list ids can be file paths, so they're a query param: ?id=
	router.AddJSONHandler(handlers.MakeEndpointPath(targetsPrefix, "saved"), "GET", targetsSavedGet)
}

func targetsGet(params handlers.ApiHandlerParams) (interface{}, error) {
	return params.Svcs.Session.Targets.List(), nil
}

func targetsPost(params handlers.ApiHandlerParams) (interface{}, error) {
	var req targetRequest
	if err := readRequestBody(params.Request, &req); err != nil {
		return nil, err
	}

	// Label is optional
	label := strings.TrimSpace(req.Label)
	if req.Dec < -90 || req.Dec > 90 {
		return nil, errorwithstatus.MakeBadRequestError(errors.New("target declination must be within -90..90"))
	}

	rec := params.Svcs.Session.Targets.Add(wcs.SkyCoord{RA: req.RA, Dec: req.Dec}, label)
	params.Svcs.Notifier.NotifyTargetAdded(rec)
	return rec, nil
}

type classifierItem struct {
	Label    string           `json:"label"`
	Category targets.Category `json:"category"`
	Colour   string           `json:"colour"`
}

func classifiersGet(params handlers.ApiHandlerParams) (interface{}, error) {
	result := make([]classifierItem, 0, len(targets.Classifiers))
	for _, label := range targets.Classifiers {
		category := targets.Record{Label: label}.Category()
		c := category.Colour()
		result = append(result, classifierItem{
			Label:    label,
			Category: category,
			Colour:   fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
		})
	}
	return result, nil
}

func targetsExport(params handlers.ApiHandlerParams) (interface{}, error) {
	var req exportRequest
	if err := readRequestBody(params.Request, &req); err != nil {
		return nil, err
	}

	user := strings.TrimSpace(req.User)
	if len(user) <= 0 {
		return nil, errorwithstatus.MakeBadRequestError(errors.New("user name is required to export targets"))
	}

	sess := params.Svcs.Session
	tileID := imagesource.ExtractTileID(sess.Source.ID)
	return params.Svcs.Targets.Save(params.Context(), user, tileID, sess.Targets.List())
}

func targetsSavedGet(params handlers.ApiHandlerParams) (interface{}, error) {
	id := params.PathParams["id"]
	if len(id) <= 0 {
		return nil, errorwithstatus.MakeBadRequestError(errors.New("missing query parameter: id"))
	}

	records, err := params.Svcs.Targets.Load(params.Context(), id)
	if errors.Is(err, targetstore.ErrListNotFound) {
		return nil, errorwithstatus.MakeNotFoundError(id)
	}
	return records, err
}
