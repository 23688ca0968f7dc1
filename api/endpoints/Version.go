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
	"fmt"

	"github.com/euniverse/core/api/handlers"
	apiRouter "github.com/euniverse/core/api/router"
	"github.com/euniverse/core/api/services"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// Getting component versions

type ComponentVersion struct {
	Component string `json:"component"`
	Version   string `json:"version"`
}

type VersionResponse struct {
	Versions []ComponentVersion `json:"versions"`
}

func getAPIVersion() string {
	ver := services.ApiVersion
	if len(services.ApiVersion) <= 0 {
		ver = "(Local build)"
	}

	if len(services.GitHash) > 0 {
		hashEnd := 8
		if len(services.GitHash) < 8 {
			hashEnd = len(services.GitHash)
		}
		ver += "-" + services.GitHash[0:hashEnd]
	}

	return ver
}

func registerVersionHandler(router *apiRouter.ApiObjectRouter) {
	// User goes to root of API, returns HTML
	router.AddPublicHandler("/", "GET", rootRequest)

	router.AddJSONHandler("/version", "GET", versionGet)
}

func versionGet(params handlers.ApiHandlerParams) (interface{}, error) {
	return VersionResponse{
		Versions: []ComponentVersion{
			{Component: "API", Version: getAPIVersion()},
		},
	}, nil
}

func rootRequest(params handlers.ApiHandlerGenericPublicParams) error {
	params.Writer.Header().Add("Content-Type", "text/html")

	var start string = `<!DOCTYPE html>
<html lang="en"><head></head>
<body style="font-family: Arial, Helvetica, sans-serif">
<center>`
	var midtemplate = "<h1>EUniverse Explorer API</h1><p>Version %s</p><p>Image: %s"
	var mid = fmt.Sprintf(midtemplate, getAPIVersion(), params.Svcs.Session.Source.ID)
	var end string = `</p>
</center>
</body>`

	params.Writer.Write([]byte(start + mid + end))
	return nil
}
