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

package api

import (
	"bufio"
	"bytes"
	"errors"
	"net"
	"net/http"
	"strconv"
)

// ResponseWriterWithCopy - Acts like a normal http response writer but stores a copy
// of the written bytes/status, so it can be logged by a middleware component
type ResponseWriterWithCopy struct {
	RealWriter http.ResponseWriter
	Body       *bytes.Buffer
	Status     int
}

func (w *ResponseWriterWithCopy) StatusText() string {
	if w.Status == 0 {
		return "OK"
	}
	return strconv.Itoa(w.Status)
}

func (w *ResponseWriterWithCopy) Header() http.Header {
	return w.RealWriter.Header()
}

func (w *ResponseWriterWithCopy) Write(p []byte) (int, error) {
	w.Body.Write(p)
	return w.RealWriter.Write(p)
}

func (w *ResponseWriterWithCopy) WriteHeader(statusCode int) {
	w.Status = statusCode
	w.RealWriter.WriteHeader(statusCode)
}

// Hijack - the websocket upgrade goes through our middleware too
func (w *ResponseWriterWithCopy) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.RealWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	return h.Hijack()
}
