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
	"github.com/euniverse/core/core/contrast"
)

const contrastPrefix = "contrast"

type ContrastResponse struct {
	Params    contrast.Params    `json:"params"`
	Stretches []contrast.Stretch `json:"stretches"`
}

func registerContrastHandler(router *apiRouter.ApiObjectRouter) {
	router.AddJSONHandler(handlers.MakeEndpointPath(contrastPrefix), "GET", contrastGet)
	router.AddJSONHandler(handlers.MakeEndpointPath(contrastPrefix), "PUT", contrastPut)

	// Query params low & high are percentiles, default 0.5 and 99.5
	router.AddJSONHandler(handlers.MakeEndpointPath(contrastPrefix, "auto"), "POST", contrastAuto)
}

func makeContrastResponse(p contrast.Params) ContrastResponse {
	return ContrastResponse{Params: p, Stretches: contrast.Stretches()}
}

func contrastGet(params handlers.ApiHandlerParams) (interface{}, error) {
	return makeContrastResponse(params.Svcs.Session.Contrast.Params()), nil
}

// Invalid params are rejected and the previous ones stay in use
func contrastPut(params handlers.ApiHandlerParams) (interface{}, error) {
	var req contrast.Params
	if err := readRequestBody(params.Request, &req); err != nil {
		return nil, err
	}

	pipeline := params.Svcs.Session.Contrast
	if err := pipeline.SetParams(req); err != nil {
		return nil, err
	}

	result := pipeline.Params()
	params.Svcs.Notifier.NotifyContrastChanged(result)
	return makeContrastResponse(result), nil
}

func contrastAuto(params handlers.ApiHandlerParams) (interface{}, error) {
	low, err := floatParamOr(params.PathParams, "low", 0.5)
	if err != nil {
		return nil, err
	}
	high, err := floatParamOr(params.PathParams, "high", 99.5)
	if err != nil {
		return nil, err
	}

	result, err := params.Svcs.Session.AutoContrast(params.Context(), low, high)
	if err != nil {
		return nil, err
	}

	params.Svcs.Notifier.NotifyContrastChanged(result)
	return makeContrastResponse(result), nil
}
