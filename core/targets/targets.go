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

// Candidate targets the user has marked on the image. Records are only ever appended, and each
// manager hands out strictly increasing creation times so the list order is also time order.
package targets

import (
	"image/color"
	"strings"
	"sync"
	"time"

	"github.com/euniverse/core/core/idgen"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/timestamper"
	"github.com/euniverse/core/core/wcs"
)

type Category string

const (
	CategoryLens   Category = "GL"
	CategoryAGN    Category = "AGN"
	CategoryGalaxy Category = "Gx"
	CategoryOther  Category = ""
)

// Classifiers - the labels offered when marking a target, grouped by category prefix
var Classifiers = []string{
	"GL: lens",
	"GL: arc",
	"GL: multiple image",
	"GL: Einstein ring",
	"GL: DSPL",
	"AGN: Seyfert 1",
	"AGN: outflow",
	"Gx: Emissionline",
	"Gx: Ring",
	"Gx: Polar ring",
	"Gx: Stream",
	"Gx: Merger",
	"Gx: Irregular",
	"Gx: Dwarf",
	"Gx: weird",
}

// Colour - what targets of this category are drawn in
func (c Category) Colour() color.RGBA {
	switch c {
	case CategoryLens:
		return color.RGBA{R: 0, G: 200, B: 255, A: 255}
	case CategoryAGN:
		return color.RGBA{R: 220, G: 220, B: 0, A: 255}
	case CategoryGalaxy:
		return color.RGBA{R: 255, G: 50, B: 50, A: 255}
	}
	return color.RGBA{R: 255, G: 255, B: 255, A: 255}
}

type Record struct {
	ID        string       `json:"id"`
	Sky       wcs.SkyCoord `json:"sky"`
	Label     string       `json:"label"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Category - from the label prefix. Free text labels are CategoryOther.
func (r Record) Category() Category {
	for _, c := range []Category{CategoryLens, CategoryAGN, CategoryGalaxy} {
		if strings.HasPrefix(r.Label, string(c)) {
			return c
		}
	}
	return CategoryOther
}

type Manager struct {
	mu      sync.Mutex
	records []Record
	idGen   idgen.IDGenerator
	clock   timestamper.ITimeStamper
	log     logger.ILogger
}

func NewManager(idGen idgen.IDGenerator, clock timestamper.ITimeStamper, log logger.ILogger) *Manager {
	return &Manager{records: []Record{}, idGen: idGen, clock: clock, log: log}
}

// Add - appends a target. The same position can be added more than once. If the clock hasn't moved
// on since the previous record (or went backwards), the new record is stamped 1ms after it.
func (m *Manager) Add(sky wcs.SkyCoord, label string) Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := m.clock.GetTimeNow().UTC()
	if n := len(m.records); n > 0 {
		if last := m.records[n-1].CreatedAt; !created.After(last) {
			created = last.Add(time.Millisecond)
		}
	}

	rec := Record{
		ID:        m.idGen.GenObjectID(),
		Sky:       wcs.SkyCoord{RA: wcs.NormaliseRA(sky.RA), Dec: sky.Dec},
		Label:     label,
		CreatedAt: created,
	}
	m.records = append(m.records, rec)

	m.log.Infof("Added target %v at %v %v: %v", rec.ID, wcs.FormatRA(rec.Sky.RA), wcs.FormatDec(rec.Sky.Dec), label)
	return rec
}

// List - copy, in the order they were added
func (m *Manager) List() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]Record, len(m.records))
	copy(result, m.records)
	return result
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
