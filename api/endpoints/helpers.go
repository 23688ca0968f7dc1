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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/euniverse/core/core/errorwithstatus"
)

// readRequestBody - JSON body into req, anything unreadable is the caller's fault
func readRequestBody(r *http.Request, req interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return errorwithstatus.MakeBadRequestError(err)
	}
	if err := json.Unmarshal(body, req); err != nil {
		return errorwithstatus.MakeBadRequestError(fmt.Errorf("invalid request body: %v", err))
	}
	return nil
}

func floatParam(params map[string]string, name string) (float64, error) {
	str, ok := params[name]
	if !ok {
		return 0, errorwithstatus.MakeBadRequestError(fmt.Errorf("missing query parameter: %v", name))
	}
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, errorwithstatus.MakeBadRequestError(fmt.Errorf("query parameter %v is not a number: %v", name, str))
	}
	return val, nil
}

// floatParamOr - like floatParam but optional
func floatParamOr(params map[string]string, name string, def float64) (float64, error) {
	if _, ok := params[name]; !ok {
		return def, nil
	}
	return floatParam(params, name)
}
