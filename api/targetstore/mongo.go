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
	"context"
	"time"

	"github.com/euniverse/core/api/dbCollections"
	"github.com/euniverse/core/core/idgen"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/targets"
	"github.com/euniverse/core/core/timestamper"
	"github.com/euniverse/core/core/wcs"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type targetDoc struct {
	ID            string  `bson:"id"`
	RA            float64 `bson:"ra"`
	Dec           float64 `bson:"dec"`
	Label         string  `bson:"label"`
	CreatedUnixNs int64   `bson:"createdUnixNs"`
}

type targetListDoc struct {
	ID           string      `bson:"_id"`
	User         string      `bson:"user"`
	TileID       string      `bson:"tileId"`
	SavedUnixSec int64       `bson:"savedUnixSec"`
	Targets      []targetDoc `bson:"targets"`
}

type MongoStore struct {
	coll  *mongo.Collection
	idGen idgen.IDGenerator
	clock timestamper.ITimeStamper
	log   logger.ILogger
}

func NewMongoStore(db *mongo.Database, idGen idgen.IDGenerator, clock timestamper.ITimeStamper, log logger.ILogger) *MongoStore {
	return &MongoStore{coll: db.Collection(dbCollections.TargetListsName), idGen: idGen, clock: clock, log: log}
}

func (s *MongoStore) Save(ctx context.Context, user string, tileID string, records []targets.Record) (SavedList, error) {
	savedAt := s.clock.GetTimeNow()
	doc := targetListDoc{
		ID:           s.idGen.GenObjectID(),
		User:         user,
		TileID:       tileID,
		SavedUnixSec: savedAt.Unix(),
		Targets:      make([]targetDoc, 0, len(records)),
	}
	for _, rec := range records {
		doc.Targets = append(doc.Targets, targetDoc{
			ID:            rec.ID,
			RA:            rec.Sky.RA,
			Dec:           rec.Sky.Dec,
			Label:         rec.Label,
			CreatedUnixNs: rec.CreatedAt.UnixNano(),
		})
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return SavedList{}, errors.Wrap(err, "failed to save target list")
	}

	s.log.Infof("Saved %v targets for %v as list %v", len(records), user, doc.ID)
	return SavedList{ID: doc.ID, User: user, TileID: tileID, SavedAt: savedAt, Count: len(records)}, nil
}

func (s *MongoStore) Load(ctx context.Context, id string) ([]targets.Record, error) {
	var doc targetListDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.Wrap(ErrListNotFound, id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read target list %v", id)
	}

	result := make([]targets.Record, 0, len(doc.Targets))
	for _, t := range doc.Targets {
		result = append(result, targets.Record{
			ID:        t.ID,
			Sky:       wcs.SkyCoord{RA: t.RA, Dec: t.Dec},
			Label:     t.Label,
			CreatedAt: time.Unix(0, t.CreatedUnixNs).UTC(),
		})
	}
	return result, nil
}
