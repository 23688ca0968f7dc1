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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/euniverse/core/api/config"
	"github.com/euniverse/core/api/services"
	"github.com/euniverse/core/api/targetstore"
	"github.com/euniverse/core/core/awsutil"
	"github.com/euniverse/core/core/contrast"
	"github.com/euniverse/core/core/fileaccess"
	"github.com/euniverse/core/core/idgen"
	"github.com/euniverse/core/core/imagesource"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/session"
	"github.com/euniverse/core/core/tilecache"
	"github.com/euniverse/core/core/timestamper"
	"github.com/euniverse/core/core/viewport"
	"github.com/euniverse/core/core/wcs"
)

const exportBucketForUnitTest = "explorer-exports"
const exportPrefixForUnitTest = "targets"
const imageIDForUnitTest = "EUC_MER_BGSUB-MOSAIC-VIS_TILE102018211-ABC123_20231114T221320"

// MakeMockSvcs - a 1000x500 synthetic image on a 200x100 screen, exports go to mock S3. Callers
// close the session. Panics rather than taking a *testing.T so examples can use it too.
func MakeMockSvcs(mockS3 *awsutil.MockS3Client, idGen idgen.IDGenerator, clock timestamper.ITimeStamper) *services.APIServices {
	if idGen == nil {
		idGen = &idgen.MockIDGenerator{IDs: []string{"sess1"}}
	}
	if clock == nil {
		clock = &timestamper.MockTimeNowStamper{}
	}

	log := &logger.NullLogger{}

	src, _, err := imagesource.MakeSynthetic(imageIDForUnitTest, 1000, 500, 1, 128, wcs.SkyCoord{RA: 150, Dec: 2}, 0.1)
	if err != nil {
		panic(err)
	}

	cfg := config.APIConfig{EnvironmentName: "unit-test", LogLevel: logger.LogInfo}

	sess, err := session.Open(
		src,
		tilecache.New(tilecache.Config{}, log),
		session.Config{
			Viewport: viewport.Config{ScreenW: 200, ScreenH: 100},
			Contrast: contrast.Params{Lower: 0, Upper: 1000, Stretch: contrast.StretchLinear},
		},
		idGen,
		clock,
		log,
	)
	if err != nil {
		panic(err)
	}

	fs := fileaccess.MakeS3Access(mockS3)

	return &services.APIServices{
		Config:      cfg,
		Log:         log,
		FS:          fs,
		IDGen:       idGen,
		TimeStamper: clock,
		Session:     sess,
		Targets:     targetstore.NewCSVStore(fs, exportBucketForUnitTest, exportPrefixForUnitTest, clock, log),
		Notifier:    &services.NullNotifier{},
	}
}

func executeRequest(req *http.Request, router http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func makeJSONRequest(method string, path string, body interface{}) *http.Request {
	var reqBody []byte
	switch b := body.(type) {
	case nil:
	case string:
		reqBody = []byte(b)
	default:
		var err error
		reqBody, err = json.Marshal(b)
		if err != nil {
			panic(err)
		}
	}

	req, _ := http.NewRequest(method, path, bytes.NewReader(reqBody))
	return req
}
