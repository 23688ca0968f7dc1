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

package fileaccess

import (
	"fmt"
	"os"
)

type testData struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func runTest(fs FileAccess, bucket string) {
	fmt.Printf("JSON: %v\n", fs.WriteJSON(bucket, "the-files/pretty.json", testData{Name: "Hello", Value: 778}))
	fmt.Printf("JSON subdir: %v\n", fs.WriteJSON(bucket, "the-files/subdir/ugly.json", testData{Name: "World", Value: 2}))

	exists, err := fs.ObjectExists(bucket, "the-files/data.bin")
	fmt.Printf("Exists1: %v|%v\n", exists, err)

	fmt.Printf("Binary: %v\n", fs.WriteObject(bucket, "the-files/data.bin", []byte{250, 130, 10, 0, 33}))

	exists, err = fs.ObjectExists(bucket, "the-files/data.bin")
	fmt.Printf("Exists2: %v|%v\n", exists, err)

	var contents testData
	err = fs.ReadJSON(bucket, "the-files/pretty.json", &contents, false)
	fmt.Printf("Read JSON: %v, %v\n", err, contents)

	data, err := fs.ReadObject(bucket, "the-files/data.bin")
	fmt.Printf("Read Binary: %v, %v\n", err, data)

	err = fs.ReadJSON(bucket, "the-files/prettyzzz.json", &contents, false)
	fmt.Printf("Read bad path, got not found error: %v\n", fs.IsNotFoundError(err))

	contents = testData{}
	err = fs.ReadJSON(bucket, "the-files/prettyzzz.json", &contents, true)
	fmt.Printf("Read bad path, empty allowed: %v, %v\n", err, contents)

	err = fs.ReadJSON(bucket, "the-files/data.bin", &contents, false)
	fmt.Printf("Read bad JSON failed: %v, not a \"not found\" error: %v\n", err != nil, !fs.IsNotFoundError(err))

	listing, err := fs.ListObjects(bucket, "the-files/")
	fmt.Printf("Listing: %v, %v\n", err, listing)

	listing, err = fs.ListObjects(bucket, "the-files/subdir")
	fmt.Printf("Listing subdir: %v, %v\n", err, listing)

	listing, err = fs.ListObjects(bucket, "the-files/subdir/ug")
	fmt.Printf("Listing with prefix: %v, %v\n", err, listing)

	listing, err = fs.ListObjects(bucket, "the-files/non-existant-path/ug")
	fmt.Printf("Listing bad path: %v, %v\n", err, listing)

	fmt.Printf("Delete bin: %v\n", fs.DeleteObject(bucket, "the-files/data.bin"))

	listing, err = fs.ListObjects(bucket, "")
	fmt.Printf("Listing2: %v, %v\n", err, listing)
}

func Example_localFileSystem() {
	root, err := os.MkdirTemp("", "fileaccess-test")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(root)

	runTest(&FSAccess{}, root)

	// Output:
	// JSON: <nil>
	// JSON subdir: <nil>
	// Exists1: false|<nil>
	// Binary: <nil>
	// Exists2: true|<nil>
	// Read JSON: <nil>, {Hello 778}
	// Read Binary: <nil>, [250 130 10 0 33]
	// Read bad path, got not found error: true
	// Read bad path, empty allowed: <nil>, { 0}
	// Read bad JSON failed: true, not a "not found" error: true
	// Listing: <nil>, [the-files/data.bin the-files/pretty.json the-files/subdir/ugly.json]
	// Listing subdir: <nil>, [the-files/subdir/ugly.json]
	// Listing with prefix: <nil>, [the-files/subdir/ugly.json]
	// Listing bad path: <nil>, []
	// Delete bin: <nil>
	// Listing2: <nil>, [the-files/pretty.json the-files/subdir/ugly.json]
}

func Example_makeValidObjectName() {
	fmt.Println(MakeValidObjectName("Peter's \"best\" targets/v2?"))

	// Output:
	// Peters_best_targets_v2
}

func Example_splitS3Url() {
	fmt.Println(SplitS3Url("s3://mosaics/TILE1234/image.tif"))
	fmt.Println(SplitS3Url("s3://mosaics"))
	fmt.Println(SplitS3Url("/local/path"))
	fmt.Println(IsS3Url("s3://x/y"), IsS3Url("x/y"))

	// Output:
	// mosaics TILE1234/image.tif <nil>
	//   failed to get bucket from S3 url: s3://mosaics
	//   not a valid S3 url: /local/path
	// true false
}
