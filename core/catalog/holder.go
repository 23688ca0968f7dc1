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

package catalog

import (
	"sync"
	"sync/atomic"

	"github.com/euniverse/core/core/engineerror"
	"github.com/euniverse/core/core/logger"
)

// Result - Pending is set while a newer catalog is still being indexed, the entries then come from the
// previous index (or there are none yet)
type Result struct {
	Entries []*Entry `json:"entries"`
	Pending bool     `json:"pending"`
}

// Holder - the current index of a session. Queries never wait for a build, they answer from whatever
// index is installed.
type Holder struct {
	index atomic.Pointer[Index]

	mu           sync.Mutex
	requestedGen uint64
	finishedGen  uint64
	installedGen uint64
	subs         map[int]func()
	nextSubID    int

	log logger.ILogger
}

func NewHolder(log logger.ILogger) *Holder {
	return &Holder{subs: map[int]func(){}, log: log}
}

func (h *Holder) Index() *Index {
	return h.index.Load()
}

func (h *Holder) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.finishedGen < h.requestedGen
}

func (h *Holder) Query(fp Footprint) (Result, error) {
	pending := h.Pending()
	ix := h.index.Load()
	if ix == nil {
		return Result{Entries: []*Entry{}, Pending: true}, engineerror.IndexNotReady("no catalog has been indexed yet")
	}
	return Result{Entries: ix.Query(fp), Pending: pending}, nil
}

// Load - builds and installs an index before returning
func (h *Holder) Load(entries []Entry) error {
	return h.build(h.request(), entries)
}

// LoadAsync - builds in the background, the returned channel gets the outcome. If another load was
// requested after this one, whichever is newest wins even if it finishes first.
func (h *Holder) LoadAsync(entries []Entry) <-chan error {
	gen := h.request()
	done := make(chan error, 1)
	go func() {
		done <- h.build(gen, entries)
	}()
	return done
}

func (h *Holder) request() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requestedGen++
	return h.requestedGen
}

func (h *Holder) build(gen uint64, entries []Entry) error {
	ix, err := NewIndex(entries)

	h.mu.Lock()
	if gen > h.finishedGen {
		h.finishedGen = gen
	}
	installed := false
	if err == nil && gen > h.installedGen {
		h.installedGen = gen
		h.index.Store(ix)
		installed = true
	}
	subs := make([]func(), 0, len(h.subs))
	for id := 0; id <= h.nextSubID; id++ {
		if fn, ok := h.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	h.mu.Unlock()

	if err != nil {
		h.log.Errorf("Catalog index build %v failed: %v", gen, err)
		return err
	}
	if !installed {
		h.log.Infof("Catalog index build %v superseded, discarded", gen)
		return nil
	}

	h.log.Infof("Catalog index build %v installed with %v entries", gen, ix.Len())
	for _, fn := range subs {
		fn()
	}
	return nil
}

// Subscribe - fn is called (on the building goroutine) each time a new index is installed
func (h *Holder) Subscribe(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextSubID++
	id := h.nextSubID
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}
