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

// Saving and reloading target lists. The CSV store writes the RA,Dec,Classifier files the survey team
// collects (locally or to S3), the DB stores keep the full records so IDs and times survive a reload.
package targetstore

import (
	"context"
	"errors"
	"time"

	"github.com/euniverse/core/core/targets"
)

// SavedList - what was written. ID is what Load takes: a path for CSV, a list id for the DBs.
type SavedList struct {
	ID      string    `json:"id"`
	User    string    `json:"user"`
	TileID  string    `json:"tileId"`
	SavedAt time.Time `json:"savedAt"`
	Count   int       `json:"count"`
}

// ErrListNotFound - Load was given an id nothing was saved under
var ErrListNotFound = errors.New("target list not found")

type Store interface {
	Save(ctx context.Context, user string, tileID string, records []targets.Record) (SavedList, error)
	Load(ctx context.Context, id string) ([]targets.Record, error)
}
