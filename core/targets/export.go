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

package targets

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/euniverse/core/core/fileaccess"
	"github.com/euniverse/core/core/utils"
	"github.com/euniverse/core/core/wcs"
	"github.com/pkg/errors"
)

var csvHeader = []string{"RA", "Dec", "Classifier"}

// ExportFileName - {tile}_{user}_{YYYYmmdd_HHMMSS}.csv. Images without a survey tile name use "image".
func ExportFileName(tileID string, user string, at time.Time) string {
	if tileID == "" {
		tileID = "image"
	}
	return fmt.Sprintf("%v_%v_%v.csv", fileaccess.MakeValidObjectName(tileID), fileaccess.MakeValidObjectName(user), utils.FormatFileNameTimestamp(at))
}

// WriteCSV - RA,Dec,Classifier rows in list order
func WriteCSV(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			strconv.FormatFloat(rec.Sky.RA, 'f', -1, 64),
			strconv.FormatFloat(rec.Sky.Dec, 'f', -1, 64),
			rec.Label,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func MakeCSV(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, records)
	return buf.Bytes(), err
}

// ReadCSV - reads back what WriteCSV wrote. The file has no IDs or times so those are left empty.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read targets CSV")
	}
	if len(rows) == 0 || !strings.EqualFold(strings.Join(rows[0], ","), strings.Join(csvHeader, ",")) {
		return nil, fmt.Errorf("targets CSV does not start with header %v", strings.Join(csvHeader, ","))
	}

	result := []Record{}
	for c, row := range rows[1:] {
		ra, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("targets CSV row %v: invalid RA %q", c+1, row[0])
		}
		dec, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("targets CSV row %v: invalid Dec %q", c+1, row[1])
		}
		result = append(result, Record{Sky: wcs.SkyCoord{RA: ra, Dec: dec}, Label: row[2]})
	}
	return result, nil
}
