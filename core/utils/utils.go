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

// Small helpers shared across packages
package utils

import (
	"encoding/json"
	"strings"
	"time"
)

const PrettyPrintIndentForJSON = "    "

// FileNameTimestampFormat - sortable, no characters that are awkward in file or object names
const FileNameTimestampFormat = "20060102_150405"

func FormatFileNameTimestamp(t time.Time) string {
	return t.UTC().Format(FileNameTimestampFormat)
}

// PrintJSON - pretty printed, or flattened onto one line, mostly for logging config and test output
func PrintJSON(anyJson interface{}, flat bool) string {
	b, err := json.MarshalIndent(anyJson, "", PrettyPrintIndentForJSON)
	if err != nil {
		return "<" + err.Error() + ">"
	}

	result := string(b)
	if flat {
		result = strings.ReplaceAll(result, "\n", "")
		result = strings.ReplaceAll(result, PrettyPrintIndentForJSON, "")
	}
	return result
}
