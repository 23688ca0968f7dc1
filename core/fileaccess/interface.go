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

// Storage access for mosaics, catalogs and exported target lists. Code is
// written against FileAccess so the same paths work on a local disk or in S3.
package fileaccess

import (
	"fmt"
	"strings"
)

// FileAccess - a "bucket" is the root directory for local files, or the S3 bucket name
type FileAccess interface {
	ListObjects(bucket string, prefix string) ([]string, error)
	ObjectExists(bucket string, path string) (bool, error)

	ReadObject(bucket string, path string) ([]byte, error)
	WriteObject(bucket string, path string, data []byte) error

	ReadJSON(bucket string, path string, itemsPtr interface{}, emptyIfNotFound bool) error
	WriteJSON(bucket string, path string, itemsPtr interface{}) error

	DeleteObject(bucket string, path string) error

	IsNotFoundError(err error) bool
}

// MakeValidObjectName - strips characters that cause trouble in object keys and file names,
// eg user names going into an export file name
func MakeValidObjectName(name string) string {
	name = strings.ReplaceAll(name, "?", "")
	name = strings.ReplaceAll(name, "$", "")
	name = strings.ReplaceAll(name, "#", "")
	name = strings.ReplaceAll(name, "!", "")
	name = strings.ReplaceAll(name, "'", "")
	name = strings.ReplaceAll(name, "\"", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, " ", "_")
	return name
}

// SplitS3Url - s3://bucket/some/path => bucket, some/path
func SplitS3Url(url string) (string, string, error) {
	trimmedUrl := strings.TrimPrefix(url, "s3://")
	if trimmedUrl == url {
		return "", "", fmt.Errorf("not a valid S3 url: %v", url)
	}

	// Get the bit before the first slash, that's the bucket
	slashPos := strings.Index(trimmedUrl, "/")
	if slashPos <= 0 {
		return "", "", fmt.Errorf("failed to get bucket from S3 url: %v", url)
	}

	return trimmedUrl[0:slashPos], trimmedUrl[slashPos+1:], nil
}

// IsS3Url - does this look like something SplitS3Url can handle
func IsS3Url(url string) bool {
	return strings.HasPrefix(url, "s3://")
}
