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
	"github.com/euniverse/core/core/wcs"
)

type cutoutRequest struct {
	RA         float64 `json:"ra"`
	Dec        float64 `json:"dec"`
	SizeArcsec float64 `json:"sizeArcsec"`
}

func registerCutoutHandler(router *apiRouter.ApiObjectRouter) {
	router.AddImageHandler("/cutout", "POST", cutoutPost)
}

// Rendered with whatever contrast the view has right now
func cutoutPost(params handlers.ApiHandlerParams) ([]byte, error) {
	var req cutoutRequest
	if err := readRequestBody(params.Request, &req); err != nil {
		return nil, err
	}

	sess := params.Svcs.Session
	c, err := sess.Cutouts.Extract(params.Context(), wcs.SkyCoord{RA: req.RA, Dec: req.Dec}, req.SizeArcsec)
	if err != nil {
		return nil, err
	}

	return c.PNG(sess.Contrast, sess.Contrast.Params())
}
