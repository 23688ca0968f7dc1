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
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/euniverse/core/core/idgen"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/timestamper"
	"github.com/euniverse/core/core/wcs"
)

func Example_addKeepsOrderAndTimes() {
	l := &logger.MemLogger{}
	m := NewManager(
		&idgen.MockIDGenerator{IDs: []string{"t1", "t2", "t3"}},
		&timestamper.MockTimeNowStamper{QueuedTimeStamps: []int64{1700000000, 1700000000, 1699999990}},
		l,
	)

	m.Add(wcs.SkyCoord{RA: 150, Dec: 2}, "GL: lens")
	m.Add(wcs.SkyCoord{RA: 150, Dec: 2}, "GL: lens")
	m.Add(wcs.SkyCoord{RA: -10, Dec: -30.5}, "Gx: Merger")

	for _, rec := range m.List() {
		fmt.Printf("%v %v %v %v %v\n", rec.ID, rec.Sky.RA, rec.Sky.Dec, rec.Label, rec.CreatedAt.Format(time.RFC3339Nano))
	}
	fmt.Println(l.Lines()[0])

	// Output:
	// t1 150 2 GL: lens 2023-11-14T22:13:20Z
	// t2 150 2 GL: lens 2023-11-14T22:13:20.001Z
	// t3 350 -30.5 Gx: Merger 2023-11-14T22:13:20.002Z
	// INFO: Added target t1 at 10:00:00.00 +02:00:00.0: GL: lens
}

func Test_ListIsACopy(t *testing.T) {
	m := NewManager(&idgen.IDGen{}, &timestamper.UnixTimeNowStamper{}, &logger.NullLogger{})
	m.Add(wcs.SkyCoord{RA: 1, Dec: 1}, "AGN: outflow")

	list := m.List()
	list[0].Label = "changed"

	again := m.List()
	if len(again) != 1 || again[0].Label != "AGN: outflow" {
		t.Errorf("got %v; want: unchanged list", again)
	}
}

func Test_ConcurrentAddsAreOrdered(t *testing.T) {
	m := NewManager(&idgen.IDGen{}, &timestamper.UnixTimeNowStamper{}, &logger.NullLogger{})

	var wg sync.WaitGroup
	for c := 0; c < 50; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			m.Add(wcs.SkyCoord{RA: float64(c), Dec: 0}, Classifiers[c%len(Classifiers)])
		}(c)
	}
	wg.Wait()

	list := m.List()
	if len(list) != 50 || m.Len() != 50 {
		t.Fatalf("got %v records; want: 50", len(list))
	}

	ids := map[string]bool{}
	for c, rec := range list {
		ids[rec.ID] = true
		if c > 0 && !rec.CreatedAt.After(list[c-1].CreatedAt) {
			t.Errorf("record %v time %v not after %v", c, rec.CreatedAt, list[c-1].CreatedAt)
		}
	}
	if len(ids) != 50 {
		t.Errorf("got %v distinct ids; want: 50", len(ids))
	}
}

func Example_category() {
	for _, label := range []string{"GL: Einstein ring", "AGN: Seyfert 1", "Gx: Dwarf", "interesting blob", ""} {
		c := Record{Label: label}.Category()
		fmt.Printf("%q %q %v\n", label, c, c.Colour())
	}

	counts := map[Category]int{}
	for _, label := range Classifiers {
		counts[Record{Label: label}.Category()]++
	}
	fmt.Println(counts[CategoryLens], counts[CategoryAGN], counts[CategoryGalaxy], counts[CategoryOther])

	// Output:
	// "GL: Einstein ring" "GL" {0 200 255 255}
	// "AGN: Seyfert 1" "AGN" {220 220 0 255}
	// "Gx: Dwarf" "Gx" {255 50 50 255}
	// "interesting blob" "" {255 255 255 255}
	// "" "" {255 255 255 255}
	// 5 2 8 0
}

func Example_exportFileName() {
	at := time.Unix(1700000000, 0)
	fmt.Println(ExportFileName("TILE102018211", "jo smith", at))
	fmt.Println(ExportFileName("", "o'brien", at))

	// Output:
	// TILE102018211_jo_smith_20231114_221320.csv
	// image_obrien_20231114_221320.csv
}

func Example_csv() {
	records := []Record{
		{ID: "t1", Sky: wcs.SkyCoord{RA: 150.25, Dec: -2.5}, Label: "GL: lens"},
		{ID: "t2", Sky: wcs.SkyCoord{RA: 0.000125, Dec: 89.9}, Label: "Gx: Ring, faint"},
	}

	data, err := MakeCSV(records)
	fmt.Println(err)
	fmt.Print(string(data))

	back, err := ReadCSV(bytes.NewReader(data))
	fmt.Println(err)
	for _, rec := range back {
		fmt.Printf("%v|%v|%v|%v\n", rec.ID, rec.Sky.RA, rec.Sky.Dec, rec.Label)
	}

	_, err = ReadCSV(strings.NewReader("ra,dec,label\n1,2,x\n"))
	fmt.Println(err)
	_, err = ReadCSV(strings.NewReader("RA,Dec,Classifier\n1,north,x\n"))
	fmt.Println(err)

	// Output:
	// <nil>
	// RA,Dec,Classifier
	// 150.25,-2.5,GL: lens
	// 0.000125,89.9,"Gx: Ring, faint"
	// <nil>
	// |150.25|-2.5|GL: lens
	// |0.000125|89.9|Gx: Ring, faint
	// targets CSV does not start with header RA,Dec,Classifier
	// targets CSV row 1: invalid Dec "north"
}
