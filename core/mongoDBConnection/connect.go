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

// Connecting to the Mongo DB that stores saved target lists: a local one (docker, or LOCAL_MONGO_URI) when
// no secret is configured, otherwise a remote one whose details come from AWS Secrets Manager.
package mongoDBConnection

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/euniverse/core/core/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 5 * time.Second

func Connect(
	sess *session.Session, // Can be nil for local connection
	mongoSecret string, // empty for local connection
	iLog logger.ILogger,
) (*mongo.Client, error) {
	if len(mongoSecret) <= 0 {
		uri, set := os.LookupEnv("LOCAL_MONGO_URI")
		if !set {
			uri = "mongodb://localhost"
		}
		iLog.Infof("Connecting to local mongo db...")
		return connectAndPing(options.Client().ApplyURI(uri).SetMonitor(makeMongoCommandMonitor(iLog)).SetDirect(true), iLog)
	}

	info, err := getMongoConnectionInfoFromSecretCache(sess, mongoSecret)
	if err != nil {
		return nil, fmt.Errorf("Failed to read mongo secret \"%v\" info from secrets cache: %v", mongoSecret, err)
	}

	opts, err := remoteOptions(info, iLog)
	if err != nil {
		return nil, err
	}

	iLog.Infof("Connecting to remote mongo db: %v, user: %v", info.Host, info.Username)
	return connectAndPing(opts, iLog)
}

func connectAndPing(opts *options.ClientOptions, iLog logger.ILogger) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("Failed to create mongo DB connection: %v", err)
	}

	var result bson.M
	err = client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("Failed to ping mongo DB: %v", err)
	}

	iLog.Infof("Successfully connected to mongo db!")
	return client, nil
}

// GetDatabaseName - each environment gets its own DB
func GetDatabaseName(dbName string, envName string) string {
	return dbName + "-" + envName
}

func makeMongoCommandMonitor(log logger.ILogger) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(_ context.Context, evt *event.CommandStartedEvent) {
			log.Debugf("Mongo request:\n%v", evt.Command)
		},
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			log.Debugf("Mongo success: %v in %v", evt.CommandName, evt.Duration)
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			log.Errorf("Mongo FAIL: %v: %v", evt.CommandName, evt.Failure)
		},
	}
}
