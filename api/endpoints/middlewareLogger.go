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
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"

	"github.com/euniverse/core/api/services"
	"github.com/euniverse/core/core/api"
	"github.com/euniverse/core/core/logger"
)

// How many chars of request body to display in logs
const bodyTextReqLogLength = 200

// How many chars of resp body to display in logs
const bodyTextRespLogHeadLength = 600

// If req/resp body is longer than the limits, we print this to show it was cut off
const logSnipIndicator = "\n    ---- >8 -------- >8 -------- >8 -------- >8 ----\n"

type LoggerMiddleware struct {
	*services.APIServices
}

func snip(text string, limit int) string {
	if len(text) > limit {
		return text[0:limit] + logSnipIndicator
	}
	return text
}

func (h *LoggerMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Read the body so we can log it, and give the next in chain a fresh reader
		reqBodyText := "REQ BODY ERROR"
		if r.Body != nil {
			bodyBytes, err := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			if err == nil {
				reqBodyText = snip(string(bodyBytes), bodyTextReqLogLength)
			}
		}

		buf := new(bytes.Buffer)
		w2 := &api.ResponseWriterWithCopy{RealWriter: w, Body: buf, Status: 0}

		next.ServeHTTP(w2, r)

		hadError := w2.Status != 0 && w2.Status != http.StatusOK && w2.Status != http.StatusNotModified && w2.Status != http.StatusSwitchingProtocols

		// Frames and cutouts are binary, don't dump them
		respBodyTxt := fmt.Sprintf("Body data length: %v bytes", buf.Len())
		if !strings.HasPrefix(w2.Header().Get("Content-Type"), "image/") {
			respBodyTxt = snip(buf.String(), bodyTextRespLogHeadLength)
		}

		level := logger.LogDebug
		if hadError {
			level = logger.LogError

			if w2.Status >= http.StatusInternalServerError {
				sentry.CaptureMessage(fmt.Sprintf("API returned %v for %v \"%v\", query params: %v. Response body: \"%v\"",
					w2.Status,
					r.Method,
					r.URL.Path,
					r.URL.Query(),
					respBodyTxt,
				))
			}
		}

		// Frames get requested on every gesture, only log them if something went wrong
		if hadError || (h.Config.LogLevel == logger.LogDebug && r.URL.Path != "/" && r.URL.Path != "/frame.png") {
			h.Log.Printf(level, "Request: %v (%v), body: %v\nResponse status: %v, body: %v", r.URL, r.Method, reqBodyText, w2.StatusText(), respBodyTxt)
		}
	})
}
