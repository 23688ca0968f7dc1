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
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/euniverse/core/core/engineerror"
	"github.com/euniverse/core/core/fileaccess"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/wcs"
)

const testCSV = `OBJECT_ID,RIGHT_ASCENSION,DECLINATION,FLUX_VIS,EMPTY_COL,SEMIMAJOR_AXIS,TYPE,NOTE
101,10.5,-3,1000000,,2.5,GALAXY,bright
102,-0.5,-3.25,100,,,STAR,
103,359.75,1,0,,1.5,,0.5
`

func Example_readCSV() {
	entries, err := ReadCSV(strings.NewReader(testCSV), ColumnMap{})
	fmt.Println(err, len(entries))

	for _, e := range entries {
		mag, _ := e.Meta.Get("MAG_VIS")
		fmt.Printf("%v mag=%.2f MAG=%.2f keys=%v\n", e, mag.Num, *e.Meta.Mag, e.Meta.Keys())
	}

	sma, _ := entries[0].Meta.Get(KeySemiMajorAxis)
	note, _ := entries[2].Meta.Get("NOTE")
	fmt.Println(sma, entries[0].Meta.Type, note.IsNum, note)

	_, err = ReadCSV(strings.NewReader("ID,RA\n1,2\n"), ColumnMap{ID: "ID", RA: "RA"})
	fmt.Println(err)
	_, err = ReadCSV(strings.NewReader("ID,RA,DEC\n1,x,2\n"), ColumnMap{ID: "ID", RA: "RA", Dec: "DEC"})
	fmt.Println(err)

	// Output:
	// <nil> 3
	// 101 (10.5, -3) mag=8.90 MAG=8.90 keys=[FLUX_VIS MAG MAG_VIS NOTE SEMIMAJOR_AXIS TYPE]
	// 102 (359.5, -3.25) mag=18.90 MAG=18.90 keys=[FLUX_VIS MAG MAG_VIS TYPE]
	// 103 (359.75, 1) mag=99.00 MAG=99.00 keys=[FLUX_VIS MAG MAG_VIS NOTE SEMIMAJOR_AXIS]
	// 2.5 GALAXY false 0.5
	// catalog CSV has no DECLINATION column: configuration error
	// catalog row 1: invalid RA "x"
}

func Example_loadCSV() {
	root, _ := os.MkdirTemp("", "catalog-test")
	defer os.RemoveAll(root)

	fs := &fileaccess.FSAccess{}
	fs.WriteObject(root, "TILE01/catalog.csv", []byte(testCSV))

	entries, err := LoadCSV(fs, root, "TILE01/catalog.csv", DefaultColumns())
	fmt.Println(len(entries), err)

	_, err = LoadCSV(fs, root, "TILE01/missing.csv", DefaultColumns())
	fmt.Println(fs.IsNotFoundError(err))

	// Output:
	// 3 <nil>
	// true
}

func makeEntries(coords ...float64) []Entry {
	result := []Entry{}
	for c := 0; c < len(coords); c += 2 {
		result = append(result, Entry{ID: fmt.Sprintf("e%02d", c/2), Sky: wcs.SkyCoord{RA: coords[c], Dec: coords[c+1]}})
	}
	return result
}

func printIDs(entries []*Entry) {
	ids := []string{}
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	fmt.Println(ids)
}

func Example_indexQuery() {
	ix, err := NewIndex(makeEntries(
		10, 10,
		20, 10,
		359, 10,
		1, 10,
		10, 20,
		180, 89.5,
		0, 89.5,
		15, 15,
	))
	fmt.Println(err, ix.Len())

	// Borders are inclusive
	printIDs(ix.Query(SkyRect{RAMin: 10, RAMax: 20, DecMin: 10, DecMax: 20}))

	// Wraps through RA 0
	printIDs(ix.Query(SkyRect{RAMin: 358, RAMax: 2, DecMin: 0, DecMax: 11}))

	// Cap around the pole
	printIDs(ix.Query(SkyCircle{Center: wcs.SkyCoord{RA: 90, Dec: 90}, RadiusDeg: 0.6}))

	// Circle straddling RA 0
	printIDs(ix.Query(SkyCircle{Center: wcs.SkyCoord{RA: 0, Dec: 10}, RadiusDeg: 1.01}))

	_, err = NewIndex(makeEntries(1, 95))
	fmt.Println(err)

	// Output:
	// <nil> 8
	// [e00 e01 e04 e07]
	// [e02 e03]
	// [e05 e06]
	// [e02 e03]
	// catalog entry e00 has invalid position 1, 95: configuration error
}

func randomFootprint(rnd *rand.Rand) Footprint {
	if rnd.Intn(2) == 0 {
		decMin := rnd.Float64()*180 - 90
		return SkyRect{
			RAMin:  rnd.Float64() * 360,
			RAMax:  rnd.Float64() * 360,
			DecMin: decMin,
			DecMax: decMin + rnd.Float64()*(90-decMin),
		}
	}
	return SkyCircle{
		Center:    wcs.SkyCoord{RA: rnd.Float64() * 360, Dec: rnd.Float64()*180 - 90},
		RadiusDeg: rnd.Float64() * 30,
	}
}

func Test_QueryMatchesBruteForce(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))

	entries := make([]Entry, 3000)
	for c := range entries {
		entries[c] = Entry{ID: fmt.Sprintf("%05d", c), Sky: wcs.SkyCoord{RA: rnd.Float64() * 360, Dec: rnd.Float64()*180 - 90}}
	}
	// Some on exact grid values so edges get hit
	for c := 0; c < 200; c++ {
		entries[c].Sky = wcs.SkyCoord{RA: float64(rnd.Intn(36) * 10), Dec: float64(rnd.Intn(19)*10 - 90)}
	}

	ix, err := NewIndex(entries)
	if err != nil {
		t.Fatal(err)
	}

	for trial := 0; trial < 300; trial++ {
		fp := randomFootprint(rnd)
		if trial%10 == 0 {
			fp = SkyRect{RAMin: float64(rnd.Intn(36) * 10), RAMax: float64(rnd.Intn(36) * 10), DecMin: -30, DecMax: 40}
		}

		want := []string{}
		for _, e := range entries {
			if fp.Contains(e.Sky) {
				want = append(want, e.ID)
			}
		}

		got := ix.Query(fp)
		if len(got) != len(want) {
			t.Fatalf("footprint %+v: got %v entries; want: %v", fp, len(got), len(want))
		}
		for c, e := range got {
			if e.ID != want[c] {
				t.Fatalf("footprint %+v: entry %v got %v; want: %v", fp, c, e.ID, want[c])
			}
		}
	}
}

func Test_HolderPendingAndSwap(t *testing.T) {
	l := &logger.MemLogger{}
	h := NewHolder(l)
	everything := SkyRect{RAMin: 0, RAMax: 360, DecMin: -90, DecMax: 90}

	res, err := h.Query(everything)
	if !errors.Is(err, engineerror.ErrIndexNotReady) || !res.Pending || len(res.Entries) != 0 {
		t.Errorf("got %+v, %v; want: pending, not ready", res, err)
	}

	notified := make(chan struct{}, 10)
	unsub := h.Subscribe(func() { notified <- struct{}{} })

	if err := h.Load(makeEntries(1, 1, 2, 2)); err != nil {
		t.Fatal(err)
	}
	res, err = h.Query(everything)
	if err != nil || res.Pending || len(res.Entries) != 2 {
		t.Errorf("got %+v, %v; want: 2 entries, not pending", res, err)
	}
	if len(notified) != 1 {
		t.Errorf("got %v notifications; want: 1", len(notified))
	}

	done := h.LoadAsync(makeEntries(1, 1, 2, 2, 3, 3))
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("async load never finished")
	}

	res, _ = h.Query(everything)
	if res.Pending || len(res.Entries) != 3 {
		t.Errorf("got %+v; want: 3 entries, not pending", res)
	}

	unsub()
	if err := h.Load(makeEntries(0, 100)); !errors.Is(err, engineerror.ErrConfiguration) {
		t.Errorf("got %v; want: configuration error", err)
	}

	// Failed build leaves the previous index in place
	res, _ = h.Query(everything)
	if len(res.Entries) != 3 || len(notified) != 2 {
		t.Errorf("got %v entries, %v notifications; want: 3, 2", len(res.Entries), len(notified))
	}

	want := []string{
		"INFO: Catalog index build 1 installed with 2 entries",
		"INFO: Catalog index build 2 installed with 3 entries",
		"ERROR: Catalog index build 3 failed: catalog entry e00 has invalid position 0, 100: configuration error",
	}
	if got := l.Lines(); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("got %v; want: %v", got, want)
	}
}

func Test_HolderKeepsNewestBuild(t *testing.T) {
	h := NewHolder(&logger.NullLogger{})

	// Newer build installed first, the older one finishing later must not replace it
	older := h.request()
	if err := h.Load(makeEntries(1, 1, 2, 2, 3, 3)); err != nil {
		t.Fatal(err)
	}
	if err := h.build(older, makeEntries(1, 1)); err != nil {
		t.Fatal(err)
	}

	if n := h.Index().Len(); n != 3 {
		t.Errorf("got %v; want: 3", n)
	}
	if h.Pending() {
		t.Errorf("expected nothing pending")
	}
}
