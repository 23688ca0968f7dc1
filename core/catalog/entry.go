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

// Catalog of sky objects: typed metadata, footprint queries over a kd-tree spatial index, and an
// atomically swapped holder so queries keep working while a new catalog is indexed.
package catalog

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/euniverse/core/core/wcs"
)

// Column names with a typed home in Metadata
const (
	KeyMag           = "MAG"
	KeyType          = "TYPE"
	KeySemiMajorAxis = "SEMIMAJOR_AXIS"
	KeyPositionAngle = "POSITION_ANGLE"
	KeyEllipticity   = "ELLIPTICITY"
	KeyTileID        = "TILE_ID"
)

// Value - an extension column value, either numeric or a string
type Value struct {
	Num   float64
	Str   string
	IsNum bool
}

func NumValue(f float64) Value {
	return Value{Num: f, IsNum: true}
}

func StrValue(s string) Value {
	return Value{Str: s}
}

func (v Value) String() string {
	if v.IsNum {
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	}
	return v.Str
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsNum {
		return []byte(strconv.FormatFloat(v.Num, 'g', -1, 64)), nil
	}
	return []byte(strconv.Quote(v.Str)), nil
}

// Metadata - the columns we know how to use are typed fields (nil/empty when the catalog doesn't have
// them), anything else lands in Extra
type Metadata struct {
	Mag           *float64         `json:"mag,omitempty"`
	Type          string           `json:"type,omitempty"`
	SemiMajorAxis *float64         `json:"semiMajorAxis,omitempty"`
	PositionAngle *float64         `json:"positionAngle,omitempty"`
	Ellipticity   *float64         `json:"ellipticity,omitempty"`
	TileID        string           `json:"tileId,omitempty"`
	Extra         map[string]Value `json:"extra,omitempty"`
}

// Set - stores a column value, typed if it's a known key of the right kind
func (m *Metadata) Set(key string, v Value) {
	num := func() *float64 {
		f := v.Num
		return &f
	}

	switch {
	case key == KeyMag && v.IsNum:
		m.Mag = num()
	case key == KeySemiMajorAxis && v.IsNum:
		m.SemiMajorAxis = num()
	case key == KeyPositionAngle && v.IsNum:
		m.PositionAngle = num()
	case key == KeyEllipticity && v.IsNum:
		m.Ellipticity = num()
	case key == KeyType:
		m.Type = v.String()
	case key == KeyTileID:
		m.TileID = v.String()
	default:
		if m.Extra == nil {
			m.Extra = map[string]Value{}
		}
		m.Extra[key] = v
	}
}

// Get - uniform lookup over typed fields and extras
func (m Metadata) Get(key string) (Value, bool) {
	numPtr := func(f *float64) (Value, bool) {
		if f == nil {
			return Value{}, false
		}
		return NumValue(*f), true
	}
	str := func(s string) (Value, bool) {
		return StrValue(s), s != ""
	}

	switch key {
	case KeyMag:
		if v, ok := numPtr(m.Mag); ok {
			return v, ok
		}
	case KeySemiMajorAxis:
		if v, ok := numPtr(m.SemiMajorAxis); ok {
			return v, ok
		}
	case KeyPositionAngle:
		if v, ok := numPtr(m.PositionAngle); ok {
			return v, ok
		}
	case KeyEllipticity:
		if v, ok := numPtr(m.Ellipticity); ok {
			return v, ok
		}
	case KeyType:
		if v, ok := str(m.Type); ok {
			return v, ok
		}
	case KeyTileID:
		if v, ok := str(m.TileID); ok {
			return v, ok
		}
	}

	v, ok := m.Extra[key]
	return v, ok
}

// Keys - every key with a value, sorted
func (m Metadata) Keys() []string {
	keys := []string{}
	for _, k := range []string{KeyMag, KeyType, KeySemiMajorAxis, KeyPositionAngle, KeyEllipticity, KeyTileID} {
		if _, ok := m.Get(k); ok {
			keys = append(keys, k)
		}
	}
	for k := range m.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entry - one catalog object. Immutable once it's in an index.
type Entry struct {
	ID   string       `json:"id"`
	Sky  wcs.SkyCoord `json:"sky"`
	Meta Metadata     `json:"meta"`
}

func (e Entry) String() string {
	return fmt.Sprintf("%v (%v, %v)", e.ID, e.Sky.RA, e.Sky.Dec)
}
