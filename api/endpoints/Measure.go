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

// MeasureResponse - the ruler between two points, with both ends in sexagesimal for display
type MeasureResponse struct {
	wcs.Measurement
	FromText [2]string `json:"fromText"`
	ToText   [2]string `json:"toText"`
}

func registerMeasureHandler(router *apiRouter.ApiObjectRouter) {
	router.AddJSONHandler("/measure", "GET", measureGet)
}

func measureGet(params handlers.ApiHandlerParams) (interface{}, error) {
	var vals [4]float64
	for c, name := range []string{"ra1", "dec1", "ra2", "dec2"} {
		v, err := floatParam(params.PathParams, name)
		if err != nil {
			return nil, err
		}
		vals[c] = v
	}

	from := wcs.SkyCoord{RA: vals[0], Dec: vals[1]}
	to := wcs.SkyCoord{RA: vals[2], Dec: vals[3]}

	return MeasureResponse{
		Measurement: wcs.Measure(from, to),
		FromText:    [2]string{wcs.FormatRA(from.RA), wcs.FormatDec(from.Dec)},
		ToText:      [2]string{wcs.FormatRA(to.RA), wcs.FormatDec(to.Dec)},
	}, nil
}
