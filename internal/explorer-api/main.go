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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/euniverse/core/api/config"
	"github.com/euniverse/core/api/dbCollections"
	"github.com/euniverse/core/api/endpoints"
	"github.com/euniverse/core/api/services"
	"github.com/euniverse/core/api/targetstore"
	"github.com/euniverse/core/api/ws"
	"github.com/euniverse/core/core/awsutil"
	"github.com/euniverse/core/core/catalog"
	"github.com/euniverse/core/core/fileaccess"
	"github.com/euniverse/core/core/idgen"
	"github.com/euniverse/core/core/imagesource"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/mongoDBConnection"
	explorerSession "github.com/euniverse/core/core/session"
	"github.com/euniverse/core/core/tilecache"
	"github.com/euniverse/core/core/timestamper"
	"github.com/euniverse/core/core/utils"
	"github.com/euniverse/core/core/viewport"
	"github.com/euniverse/core/core/wcs"
	"github.com/gorilla/handlers"
	"github.com/olahol/melody"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()

	// Init logger, everything goes to stdout
	iLog := &logger.StdOutLogger{}
	iLog.SetLogLevel(cfg.LogLevel)

	svcs := initServices(cfg, iLog)
	defer svcs.Session.Close()

	// This is for prometheus
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		http.ListenAndServe(fmt.Sprintf(":%v", cfg.MetricsPort), nil)
	}()

	////////////////////////////////////////////////////
	// Set up WebSocket server
	m := melody.New()
	m.Config.MaxMessageSize = cfg.WSMaxMessageSize
	m.Config.MessageBufferSize = int(cfg.WSMessageBufferSize)

	ws := ws.MakeWSHandler(m, svcs)
	svcs.Notifier = ws

	// Create event handlers for websocket
	m.HandleConnect(ws.HandleConnect)
	m.HandleDisconnect(ws.HandleDisconnect)
	m.HandleMessage(ws.HandleMessage)

	// Viewport changes made over REST or web socket reach clients once per tick
	svcs.Session.Viewport.Subscribe(func(c viewport.Change) {
		svcs.Notifier.NotifyViewportChanged(c.State)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svcs.Session.Viewport.Run(ctx, time.Duration(cfg.ViewportTickMs)*time.Millisecond)

	////////////////////////////////////////////////////
	// Set up HTTP server
	router := endpoints.MakeRouter(svcs)

	// Actual web socket creation, expects the HTTP upgrade header
	router.AddPublicHandler("/ws", "GET", ws.HandleSocketCreation)

	printRoutes(router.GetRoutes())

	logware := endpoints.LoggerMiddleware{APIServices: svcs}
	promware := endpoints.PrometheusMiddleware

	router.Router.Use(logware.Middleware, promware)

	svcs.Log.Infof("API version \"%v\" started on port %v, serving image %v...", services.ApiVersion, cfg.Port, svcs.Session.Source.ID)

	origins := cfg.AllowedOrigins
	if len(origins) <= 0 {
		origins = []string{"*"}
	}

	log.Fatal(
		http.ListenAndServe(fmt.Sprintf(":%v", cfg.Port),
			handlers.CORS(
				handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type"}),
				handlers.AllowedMethods([]string{"GET", "POST", "PUT", "HEAD", "OPTIONS"}),
				handlers.AllowedOrigins(origins))(router.Router)))
}

func loadConfig() config.APIConfig {
	cfg, err := config.Init()
	if err != nil {
		log.Fatalf("Something went wrong with API config. Error: %v\n", err)
	}

	// Show the config
	cfgJSON, err := json.MarshalIndent(cfg, "", utils.PrettyPrintIndentForJSON)
	if err != nil {
		log.Fatalf("Error trying to display config\n")
	}

	log.Println(string(cfgJSON))
	return cfg
}

func initServices(cfg config.APIConfig, iLog logger.ILogger) *services.APIServices {
	storage := &storageLocator{region: cfg.AWSRegion}

	src := openImage(cfg, storage, iLog)

	cache := tilecache.New(tilecache.Config{
		CapacityBytes: int64(cfg.CacheMB) << 20,
		Workers:       int(cfg.DecodeWorkers),
	}, iLog)

	sess, err := explorerSession.Open(
		src,
		cache,
		explorerSession.Config{
			Viewport: viewport.Config{
				ScreenW:  int(cfg.ScreenWidth),
				ScreenH:  int(cfg.ScreenHeight),
				MinZoom:  cfg.MinZoom,
				MaxZoom:  cfg.MaxZoom,
				ZoomStep: cfg.ZoomStep,
			},
			Contrast:        cfg.InitialContrast(),
			MinCutoutPixels: int(cfg.MinCutoutPixels),
		},
		&idgen.IDGen{},
		&timestamper.UnixTimeNowStamper{},
		iLog,
	)
	if err != nil {
		log.Fatalf("Failed to open %v. Error: %v", src.ID, err)
	}

	if len(cfg.CatalogPath) > 0 {
		loadCatalog(cfg.CatalogPath, storage, sess, iLog)
	}

	store := makeTargetStore(cfg, storage, iLog)

	return services.InitAPIServices(cfg, iLog, storage.fsFor(cfg.TargetExportPath), sess, store)
}

func openImage(cfg config.APIConfig, storage *storageLocator, iLog logger.ILogger) *imagesource.Source {
	if len(cfg.ImagePath) <= 0 {
		iLog.Infof("No ImagePath configured, serving a synthetic image")
		src, _, err := imagesource.MakeSynthetic("EUC_MER_SYNTHETIC_TILE000000000", 2048, 2048, 3, int(cfg.TileSize), wcs.SkyCoord{RA: 150, Dec: 2}, 0.1)
		if err != nil {
			log.Fatalf("Failed to make synthetic image. Error: %v", err)
		}
		return src
	}

	bucket, path := storage.split(cfg.ImagePath)
	fs := storage.fsFor(cfg.ImagePath)

	var src *imagesource.Source
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		src, err = imagesource.LoadTIFF(fs, bucket, path, int(cfg.TileSize))
	case ".png":
		src, err = imagesource.LoadPNG(fs, bucket, path, int(cfg.TileSize))
	default:
		err = fmt.Errorf("unsupported image type: %v", path)
	}

	if err != nil {
		log.Fatalf("Failed to open image %v. Error: %v", cfg.ImagePath, err)
	}
	return src
}

func loadCatalog(catalogPath string, storage *storageLocator, sess *explorerSession.Session, iLog logger.ILogger) {
	bucket, path := storage.split(catalogPath)
	entries, err := catalog.LoadCSV(storage.fsFor(catalogPath), bucket, path, catalog.DefaultColumns())
	if err != nil {
		log.Fatalf("Failed to read catalog %v. Error: %v", catalogPath, err)
	}

	// Markers show up once the index is built, the viewer is usable before that
	done := sess.LoadCatalog(entries)
	go func() {
		if err := <-done; err != nil {
			iLog.Errorf("Catalog %v failed to index: %v", catalogPath, err)
			return
		}
		iLog.Infof("Catalog %v indexed, %v entries", catalogPath, len(entries))
	}()
}

func makeTargetStore(cfg config.APIConfig, storage *storageLocator, iLog logger.ILogger) targetstore.Store {
	switch cfg.TargetStore {
	case config.TargetStoreCSV:
		bucket, prefix := storage.split(cfg.TargetExportPath)
		return targetstore.NewCSVStore(storage.fsFor(cfg.TargetExportPath), bucket, prefix, &timestamper.UnixTimeNowStamper{}, iLog)

	case config.TargetStoreMongo:
		var sess *session.Session
		if len(cfg.MongoSecret) > 0 {
			sess = storage.awsSession()
		}

		mongoClient, err := mongoDBConnection.Connect(sess, cfg.MongoSecret, iLog)
		if err != nil {
			log.Fatal(err)
		}

		// Get handle to the DB
		dbName := mongoDBConnection.GetDatabaseName(cfg.MongoDatabase, cfg.EnvironmentName)
		db := mongoClient.Database(dbName)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := dbCollections.InitCollections(ctx, db, iLog); err != nil {
			log.Fatalf("Failed to init mongo collections. Error: %v", err)
		}

		return targetstore.NewMongoStore(db, &idgen.IDGen{}, &timestamper.UnixTimeNowStamper{}, iLog)

	case config.TargetStoreSQLite:
		store, err := targetstore.NewSQLiteStore(cfg.SQLitePath, &idgen.IDGen{}, &timestamper.UnixTimeNowStamper{}, iLog)
		if err != nil {
			log.Fatalf("Failed to open %v. Error: %v", cfg.SQLitePath, err)
		}
		return store
	}

	log.Fatalf("Unknown TargetStore: %v", cfg.TargetStore)
	return nil
}

// storageLocator - paths are either local or s3://bucket/path, the AWS session is only made if
// something actually lives in S3
type storageLocator struct {
	region string
	sess   *session.Session
	s3     fileaccess.FileAccess
}

func (l *storageLocator) awsSession() *session.Session {
	if l.sess == nil {
		sess, err := awsutil.GetSessionWithRegion(l.region)
		if err != nil {
			log.Fatalf("Failed to create AWS session. Error: %v", err)
		}
		l.sess = sess
	}
	return l.sess
}

func (l *storageLocator) fsFor(path string) fileaccess.FileAccess {
	if !fileaccess.IsS3Url(path) {
		return &fileaccess.FSAccess{}
	}

	if l.s3 == nil {
		s3svc, err := awsutil.GetS3(l.awsSession())
		if err != nil {
			log.Fatalf("Failed to create AWS S3 service. Error: %v", err)
		}
		l.s3 = fileaccess.MakeS3Access(s3svc)
	}
	return l.s3
}

// split - into what FileAccess calls a bucket and a path. Locally the bucket is the directory.
func (l *storageLocator) split(path string) (string, string) {
	if fileaccess.IsS3Url(path) {
		bucket, key, err := fileaccess.SplitS3Url(path)
		if err != nil {
			log.Fatalf("Invalid S3 path %v. Error: %v", path, err)
		}
		return bucket, key
	}
	return filepath.Dir(path), filepath.Base(path)
}
