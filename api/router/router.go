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

package apiRouter

import (
	"net/http"

	"github.com/euniverse/core/api/handlers"
	"github.com/euniverse/core/api/services"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/gorilla/mux"
)

// Route - what was registered, the "kind" is which handler type serves it (json, image, public)
type Route struct {
	Method string
	Path   string
	Kind   string
}

type ApiObjectRouter struct {
	Routes map[string]Route
	Svcs   *services.APIServices
	Router *mux.Router
}

func NewAPIRouter(svcs *services.APIServices, router *mux.Router) ApiObjectRouter {
	return ApiObjectRouter{map[string]Route{}, svcs, router}
}

func (r *ApiObjectRouter) AddJSONHandler(path string, method string, handleFunc handlers.ApiHandlerFunc) {
	r.addHandler(path, method, "json", &handlers.ApiHandlerJSON{APIServices: r.Svcs, Handler: handleFunc})
}

func (r *ApiObjectRouter) AddImageHandler(path string, method string, handleFunc handlers.ApiImageHandlerFunc) {
	r.addHandler(path, method, "image", &handlers.ApiImageHandler{APIServices: r.Svcs, Render: handleFunc})
}

func (r *ApiObjectRouter) AddPublicHandler(path string, method string, handleFunc handlers.ApiHandlerGenericPublicFunc) {
	r.addHandler(path, method, "public", &handlers.ApiHandlerGenericPublic{APIServices: r.Svcs, Handler: handleFunc})
}

func (r *ApiObjectRouter) addHandler(path string, method string, kind string, handler http.Handler) {
	handlerToSave := handler

	// If needed, wrap in a sentry handler
	if r.Svcs.Config.EnvironmentName != "unit-test" && r.Svcs.Config.EnvironmentName != "local" {
		sentryHandler := sentryhttp.New(sentryhttp.Options{
			Repanic:         true,
			WaitForDelivery: true,
		})

		handlerToSave = sentryHandler.Handle(handler)
	}

	methodRoute := method + path

	if _, ok := r.Routes[methodRoute]; ok {
		r.Svcs.Log.Errorf("Path handler already defined for: %v, method: %v", path, method)
		return
	}

	r.Routes[methodRoute] = Route{Method: method, Path: path, Kind: kind}

	r.Router.Handle(path, handlerToSave).Methods(method)
}

func (r *ApiObjectRouter) GetRoutes() []Route {
	result := make([]Route, 0, len(r.Routes))
	for _, route := range r.Routes {
		result = append(result, route)
	}
	return result
}
