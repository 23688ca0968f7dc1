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

package utils

import (
	"fmt"
	"time"
)

func Example_formatFileNameTimestamp() {
	fmt.Println(FormatFileNameTimestamp(time.Date(2024, 3, 9, 17, 4, 5, 999, time.FixedZone("X", 3600))))

	// Output:
	// 20240309_160405
}

func Example_printJSON() {
	v := struct {
		Name  string
		Items []int
	}{"cat", []int{1, 2}}

	fmt.Println(PrintJSON(v, true))
	fmt.Println(PrintJSON(func() {}, false))

	// Output:
	// {"Name": "cat","Items": [1,2]}
	// <json: unsupported type: func()>
}
