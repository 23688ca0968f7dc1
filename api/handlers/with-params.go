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

package handlers

import (
	"context"
	"net/http"

	"github.com/euniverse/core/api/services"
	"github.com/euniverse/core/core/api"
)

// For endpoints that reply with JSON. The returned value is marshalled as the response body.
type ApiHandlerParams struct {
	Svcs       *services.APIServices
	PathParams map[string]string
	Request    *http.Request
}

// Context - cancelled if the client goes away, renders and exports should stop then
func (p ApiHandlerParams) Context() context.Context {
	return p.Request.Context()
}

type ApiHandlerFunc func(ApiHandlerParams) (interface{}, error)

type ApiHandlerJSON struct {
	*services.APIServices
	Handler ApiHandlerFunc
}

func (h ApiHandlerJSON) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Handler(ApiHandlerParams{h.APIServices, makePathParams(r), r})
	if err != nil {
		logHandlerErrors(err, h.APIServices.Log, w, r)
		return
	}

	api.ToJSON(w, resp)
}
