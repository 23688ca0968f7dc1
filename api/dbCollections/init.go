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

package dbCollections

import (
	"context"

	"github.com/euniverse/core/core/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slices"
)

// InitCollections - makes sure the collections we write to exist, and have the indexes lookups need
func InitCollections(ctx context.Context, db *mongo.Database, iLog logger.ILogger) error {
	collectionsRequired := []string{
		TargetListsName,
	}

	existingCollections, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return err
	}

	for _, collName := range collectionsRequired {
		if !slices.Contains(existingCollections, collName) {
			iLog.Infof("Mongo collection %v doesn't exist, pre-creating it...", collName)
			if err := db.CreateCollection(ctx, collName); err != nil {
				return err
			}
		}
	}

	_, err = db.Collection(TargetListsName).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "user", Value: 1}, {Key: "savedUnixSec", Value: -1}}})
	return err
}
