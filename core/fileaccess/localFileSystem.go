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
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/euniverse/core/core/utils"
)

// FSAccess - file access on the local file system, the bucket is a root directory
type FSAccess struct {
}

// ListObjects - like S3, the prefix doesn't have to end on a directory boundary. Results are
// relative to the root and sorted.
func (fsa *FSAccess) ListObjects(rootPath string, prefix string) ([]string, error) {
	result := []string{}

	rootOnly := path.Join(rootPath) // Using path.Join to make it match the fullPath cleans off ./ for example
	walkFrom := fsa.filePath(rootPath, path.Dir(prefix))
	if strings.HasSuffix(prefix, "/") || prefix == "" {
		walkFrom = fsa.filePath(rootPath, prefix)
	}

	err := filepath.Walk(walkFrom, func(pathFound string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		// pathFound contains the root directory, so we chop it off
		toSave := filepath.ToSlash(pathFound)
		if strings.HasPrefix(toSave, rootOnly+"/") {
			toSave = toSave[len(rootOnly)+1:]
		}
		if strings.HasPrefix(toSave, prefix) {
			result = append(result, toSave)
		}
		return nil
	})

	if err != nil && fsa.IsNotFoundError(err) {
		return []string{}, nil
	}

	sort.Strings(result)
	return result, err
}

func (fsa *FSAccess) ObjectExists(rootPath string, filePath string) (bool, error) {
	_, err := os.Stat(fsa.filePath(rootPath, filePath))
	if err == nil {
		return true, nil
	}
	if fsa.IsNotFoundError(err) {
		return false, nil
	}
	return false, err
}

func (fsa *FSAccess) ReadObject(rootPath string, filePath string) ([]byte, error) {
	return os.ReadFile(fsa.filePath(rootPath, filePath))
}

func (fsa *FSAccess) WriteObject(rootPath string, filePath string, data []byte) error {
	fullPath := fsa.filePath(rootPath, filePath)

	// Ensure any subdirs in between are created
	err := os.MkdirAll(filepath.Dir(fullPath), 0777)
	if err != nil {
		return err
	}

	// Write the file out, this will create if needed else truncate and write
	return os.WriteFile(fullPath, data, 0666)
}

func (fsa *FSAccess) ReadJSON(rootPath string, filePath string, itemsPtr interface{}, emptyIfNotFound bool) error {
	fileData, err := fsa.ReadObject(rootPath, filePath)

	// If it's not there and we're told to ignore that, leave itemsPtr as is
	if err != nil {
		if emptyIfNotFound && fsa.IsNotFoundError(err) {
			return nil
		}
		return err
	}

	return json.Unmarshal(fileData, itemsPtr)
}

func (fsa *FSAccess) WriteJSON(rootPath string, filePath string, itemsPtr interface{}) error {
	fileData, err := json.MarshalIndent(itemsPtr, "", utils.PrettyPrintIndentForJSON)
	if err != nil {
		return err
	}

	return fsa.WriteObject(rootPath, filePath, fileData)
}

func (fsa *FSAccess) DeleteObject(rootPath string, filePath string) error {
	return os.Remove(fsa.filePath(rootPath, filePath))
}

func (fsa *FSAccess) IsNotFoundError(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func (fsa *FSAccess) filePath(rootPath string, filePath string) string {
	return filepath.FromSlash(path.Join(rootPath, filePath))
}
