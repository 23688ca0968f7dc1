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
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/euniverse/core/core/engineerror"
	"github.com/euniverse/core/core/fileaccess"
	"github.com/euniverse/core/core/wcs"
	"github.com/pkg/errors"
)

const (
	fluxPrefix = "FLUX_"
	magPrefix  = "MAG_"

	// Magnitude given to sources with no positive flux
	faintMag = 99.0
)

// ColumnMap - which columns hold the ID and position. Empty fields use the survey catalog names.
type ColumnMap struct {
	ID  string
	RA  string
	Dec string
}

func DefaultColumns() ColumnMap {
	return ColumnMap{ID: "OBJECT_ID", RA: "RIGHT_ASCENSION", Dec: "DECLINATION"}
}

func (c ColumnMap) withDefaults() ColumnMap {
	d := DefaultColumns()
	if c.ID == "" {
		c.ID = d.ID
	}
	if c.RA == "" {
		c.RA = d.RA
	}
	if c.Dec == "" {
		c.Dec = d.Dec
	}
	return c
}

// FluxToABMag - flux in micro Jansky to AB magnitude
func FluxToABMag(fluxMicroJy float64) float64 {
	if !(fluxMicroJy > 0) {
		return faintMag
	}
	return -2.5*math.Log10(1e-6*fluxMicroJy) + 8.90
}

type column struct {
	name    string
	idx     int
	numeric bool
}

// ReadCSV - reads a catalog table with a header row. Columns that are empty in every row are dropped,
// columns where every non-empty value parses as a number are numeric, others are strings. For every
// FLUX_<band> column a MAG_<band> AB magnitude is derived unless the table already has one. If there's
// no MAG column, the first magnitude column becomes the entry's Mag.
func ReadCSV(r io.Reader, cols ColumnMap) ([]Entry, error) {
	cols = cols.withDefaults()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read catalog CSV")
	}
	if len(rows) == 0 {
		return nil, engineerror.Configuration("catalog CSV has no header row")
	}

	header := rows[0]
	rows = rows[1:]

	findCol := func(name string) (int, error) {
		for c, h := range header {
			if strings.TrimSpace(h) == name {
				return c, nil
			}
		}
		return -1, engineerror.Configuration("catalog CSV has no %v column", name)
	}

	idCol, err := findCol(cols.ID)
	if err != nil {
		return nil, err
	}
	raCol, err := findCol(cols.RA)
	if err != nil {
		return nil, err
	}
	decCol, err := findCol(cols.Dec)
	if err != nil {
		return nil, err
	}

	metaCols := []column{}
	names := map[string]bool{}
	for c, h := range header {
		h = strings.TrimSpace(h)
		if c == idCol || c == raCol || c == decCol {
			continue
		}
		names[h] = true

		hasValue := false
		numeric := true
		for _, row := range rows {
			v := cell(row, c)
			if v == "" {
				continue
			}
			hasValue = true
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				numeric = false
			}
		}

		// Pruned, nothing in it
		if !hasValue {
			continue
		}
		metaCols = append(metaCols, column{name: h, idx: c, numeric: numeric})
	}

	entries := make([]Entry, 0, len(rows))
	for rowIdx, row := range rows {
		ra, err := strconv.ParseFloat(cell(row, raCol), 64)
		if err != nil {
			return nil, errors.Errorf("catalog row %v: invalid RA %q", rowIdx+1, cell(row, raCol))
		}
		dec, err := strconv.ParseFloat(cell(row, decCol), 64)
		if err != nil {
			return nil, errors.Errorf("catalog row %v: invalid Dec %q", rowIdx+1, cell(row, decCol))
		}

		id := cell(row, idCol)
		if id == "" {
			id = strconv.Itoa(rowIdx + 1)
		}

		e := Entry{ID: id, Sky: wcs.SkyCoord{RA: wcs.NormaliseRA(ra), Dec: dec}}
		firstMag := ""

		for _, col := range metaCols {
			v := cell(row, col.idx)
			if v == "" {
				continue
			}

			if !col.numeric {
				e.Meta.Set(col.name, StrValue(v))
				continue
			}

			f, _ := strconv.ParseFloat(v, 64)
			e.Meta.Set(col.name, NumValue(f))

			if strings.HasPrefix(col.name, fluxPrefix) {
				magName := magPrefix + strings.TrimPrefix(col.name, fluxPrefix)
				if !names[magName] {
					e.Meta.Set(magName, NumValue(FluxToABMag(f)))
					if firstMag == "" {
						firstMag = magName
					}
				}
			} else if strings.HasPrefix(col.name, magPrefix) && firstMag == "" {
				firstMag = col.name
			}
		}

		if e.Meta.Mag == nil && firstMag != "" {
			if v, ok := e.Meta.Get(firstMag); ok {
				e.Meta.Set(KeyMag, v)
			}
		}

		entries = append(entries, e)
	}

	return entries, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// LoadCSV - reads a catalog table from local disk or S3
func LoadCSV(fs fileaccess.FileAccess, bucket string, path string, cols ColumnMap) ([]Entry, error) {
	data, err := fs.ReadObject(bucket, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog %v", path)
	}
	return ReadCSV(bytes.NewReader(data), cols)
}
