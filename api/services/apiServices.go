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

package services

import (
	"github.com/getsentry/sentry-go"

	"github.com/euniverse/core/api/config"
	"github.com/euniverse/core/api/targetstore"
	"github.com/euniverse/core/core/fileaccess"
	"github.com/euniverse/core/core/idgen"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/session"
	"github.com/euniverse/core/core/timestamper"
)

// NOTE: these 2 vars are set during compilation (see Makefile)
var ApiVersion string
var GitHash string

// APIServices contains anything HTTP handlers would want to use. Instead of global variables we pass
// this around, which also makes it easy to swap in mocks for unit tests.
type APIServices struct {
	// Configuration read in on startup
	Config config.APIConfig

	// Default logger
	Log logger.ILogger

	// Where images, catalogs and CSV exports are read from/written to
	FS fileaccess.FileAccess

	IDGen idgen.IDGenerator

	// Timestamp retriever - so can be mocked for unit tests
	TimeStamper timestamper.ITimeStamper

	// The open image, with its viewport, overlays and targets
	Session *session.Session

	// Where exported target lists go
	Targets targetstore.Store

	// Pushes changes to connected web sockets
	Notifier Notifier
}

// InitAPIServices sets up a new APIServices instance around an open session. Sentry is initialised
// here so anything that fails from now on is reported.
func InitAPIServices(cfg config.APIConfig, iLog logger.ILogger, fs fileaccess.FileAccess, sess *session.Session, store targetstore.Store) *APIServices {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryEndpoint,
		Environment: cfg.EnvironmentName,
		Release:     ApiVersion,
	}); err != nil {
		iLog.Errorf("Sentry initialization failed: %v", err)
	}

	return &APIServices{
		Config:      cfg,
		Log:         iLog,
		FS:          fs,
		IDGen:       &idgen.IDGen{},
		TimeStamper: &timestamper.UnixTimeNowStamper{},
		Session:     sess,
		Targets:     store,
		Notifier:    &NullNotifier{},
	}
}
