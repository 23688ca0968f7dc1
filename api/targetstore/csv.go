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

package targetstore

import (
	"bytes"
	"context"
	"path"

	"github.com/euniverse/core/core/fileaccess"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/targets"
	"github.com/euniverse/core/core/timestamper"
	"github.com/pkg/errors"
)

type CSVStore struct {
	fs     fileaccess.FileAccess
	bucket string
	prefix string
	clock  timestamper.ITimeStamper
	log    logger.ILogger
}

// NewCSVStore - files are written to bucket under prefix. For local files the bucket is the root dir.
func NewCSVStore(fs fileaccess.FileAccess, bucket string, prefix string, clock timestamper.ITimeStamper, log logger.ILogger) *CSVStore {
	return &CSVStore{fs: fs, bucket: bucket, prefix: prefix, clock: clock, log: log}
}

func (s *CSVStore) Save(ctx context.Context, user string, tileID string, records []targets.Record) (SavedList, error) {
	savedAt := s.clock.GetTimeNow()
	filePath := path.Join(s.prefix, targets.ExportFileName(tileID, user, savedAt))

	data, err := targets.MakeCSV(records)
	if err != nil {
		return SavedList{}, err
	}
	if err := s.fs.WriteObject(s.bucket, filePath, data); err != nil {
		return SavedList{}, errors.Wrapf(err, "failed to write targets to %v", filePath)
	}

	s.log.Infof("Saved %v targets for %v to %v", len(records), user, filePath)
	return SavedList{ID: filePath, User: user, TileID: tileID, SavedAt: savedAt, Count: len(records)}, nil
}

func (s *CSVStore) Load(ctx context.Context, id string) ([]targets.Record, error) {
	data, err := s.fs.ReadObject(s.bucket, id)
	if err != nil && s.fs.IsNotFoundError(err) {
		return nil, errors.Wrap(ErrListNotFound, id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read targets from %v", id)
	}
	return targets.ReadCSV(bytes.NewReader(data))
}
