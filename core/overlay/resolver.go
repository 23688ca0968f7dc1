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

package overlay

import (
	"sync"
	"sync/atomic"

	"github.com/euniverse/core/core/catalog"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/viewport"
	"github.com/euniverse/core/core/wcs"
)

// Snapshot - the last published marker set. Version is the viewport version it was computed for,
// Stale is set if the viewport or catalog has changed since, or there's no catalog yet.
type Snapshot struct {
	Markers []Marker `json:"markers"`
	Version uint64   `json:"version"`
	Stale   bool     `json:"stale"`
}

type published struct {
	markers []Marker
	version uint64
	seq     uint64
	index   *catalog.Index
}

// Resolver - recomputes markers in the background. Readers always get the last complete set
// immediately, it's replaced when the next one is ready. Requests that arrive while a computation is
// running collapse into one, only the latest state matters.
type Resolver struct {
	solution *wcs.Solution
	holder   *catalog.Holder
	log      logger.ILogger

	mu     sync.Mutex
	latest viewport.State
	seq    uint64

	current atomic.Pointer[published]
	mailbox chan struct{}

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewResolver(solution *wcs.Solution, holder *catalog.Holder, initial viewport.State, log logger.ILogger) *Resolver {
	r := &Resolver{
		solution: solution,
		holder:   holder,
		log:      log,
		latest:   initial,
		mailbox:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	r.current.Store(&published{markers: []Marker{}})

	r.wg.Add(1)
	go r.run()

	r.request(initial)
	return r
}

// Markers - never blocks
func (r *Resolver) Markers() Snapshot {
	p := r.current.Load()

	r.mu.Lock()
	seq := r.seq
	r.mu.Unlock()

	index := r.holder.Index()
	stale := index == nil || p.seq != seq || p.index != index || r.holder.Pending()
	return Snapshot{Markers: p.markers, Version: p.version, Stale: stale}
}

// Invalidate - viewport changed, meant to be wired to the viewport's Subscribe
func (r *Resolver) Invalidate(state viewport.State) {
	r.request(state)
}

// CatalogChanged - a new index was installed, meant to be wired to the holder's Subscribe
func (r *Resolver) CatalogChanged() {
	r.mu.Lock()
	state := r.latest
	r.mu.Unlock()
	r.request(state)
}

func (r *Resolver) request(state viewport.State) {
	r.mu.Lock()
	r.latest = state
	r.seq++
	r.mu.Unlock()

	select {
	case r.mailbox <- struct{}{}:
	default:
		// Already signalled, the worker will pick up the latest state
	}
}

func (r *Resolver) run() {
	defer r.wg.Done()

	for {
		select {
		case <-r.done:
			return
		case <-r.mailbox:
		}

		r.mu.Lock()
		state := r.latest
		seq := r.seq
		r.mu.Unlock()

		index := r.holder.Index()
		markers := Resolve(state, r.solution, index)
		r.current.Store(&published{markers: markers, version: state.Version, seq: seq, index: index})
		r.log.Debugf("Resolved %v markers for viewport version %v", len(markers), state.Version)
	}
}

// Close - stops the worker, safe to call more than once
func (r *Resolver) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
	r.wg.Wait()
}
