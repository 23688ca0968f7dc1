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

// Helpers shared by the HTTP side of the explorer, kept out of api/ so the
// handlers and middleware can both use them without an import cycle
package api

import (
	"encoding/json"
	"net/http"

	"github.com/euniverse/core/core/utils"
)

// ToJSON - writes v pretty printed, with the content type set. A nil v gives an empty body.
func ToJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Add("Content-Type", "application/json")

	if v != nil {
		enc := json.NewEncoder(w)
		enc.SetIndent("", utils.PrettyPrintIndentForJSON)
		enc.Encode(v)
	}
}

// ToPNG - image bytes that must not be cached, frames change with every gesture
func ToPNG(w http.ResponseWriter, png []byte) {
	w.Header().Add("Content-Type", "image/png")
	w.Header().Add("Cache-Control", "no-store")
	w.Write(png)
}
