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

// API configuration as read from JSON and EUNIVERSE_CONFIG_* environment variables, with defaults for
// anything left unset
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/euniverse/core/core/contrast"
	"github.com/euniverse/core/core/logger"
)

const envPrefix = "EUNIVERSE_CONFIG_"

// Where saved target lists go
const (
	TargetStoreCSV    = "csv"
	TargetStoreMongo  = "mongo"
	TargetStoreSQLite = "sqlite"
)

// APIConfig combines env vars and config JSON values. Paths can be local or s3://bucket/path.
type APIConfig struct {
	EnvironmentName string

	LogLevel logger.LogLevel

	SentryEndpoint string

	AWSRegion string

	Port        int32
	MetricsPort int32

	// Allowed CORS origins, empty allows any
	AllowedOrigins []string

	// Colour mosaic to open (TIFF with astrometry in its description, or PNG with a .json sidecar next
	// to it). If empty a synthetic test image is served.
	ImagePath string

	// Catalog CSV with OBJECT_ID, RIGHT_ASCENSION, DECLINATION columns. Optional.
	CatalogPath string

	TileSize      int32
	CacheMB       int32
	DecodeWorkers int32

	ScreenWidth    int32
	ScreenHeight   int32
	MinZoom        float64
	MaxZoom        float64
	ZoomStep       float64
	ViewportTickMs int32

	ContrastLower   float64
	ContrastUpper   float64
	ContrastStretch string

	MinCutoutPixels int32

	// One of the TargetStore* constants
	TargetStore string

	// CSV exports are written under here
	TargetExportPath string

	// Mongo connection, local if blank
	MongoSecret   string
	MongoDatabase string

	SQLitePath string

	// Web Socket config
	WSMaxMessageSize    int64
	WSMessageBufferSize int32
}

// ApplyDefaults - fills in anything that wasn't configured
func (cfg *APIConfig) ApplyDefaults() {
	if cfg.EnvironmentName == "" {
		cfg.EnvironmentName = "local"
	}
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = "us-east-1"
	}
	if cfg.Port <= 0 {
		cfg.Port = 8080
	}
	if cfg.MetricsPort <= 0 {
		cfg.MetricsPort = 2112
	}
	if cfg.TileSize <= 0 {
		cfg.TileSize = 256
	}
	if cfg.CacheMB <= 0 {
		cfg.CacheMB = 256
	}
	if cfg.ScreenWidth <= 0 {
		cfg.ScreenWidth = 1280
	}
	if cfg.ScreenHeight <= 0 {
		cfg.ScreenHeight = 800
	}
	if cfg.ViewportTickMs <= 0 {
		cfg.ViewportTickMs = 16
	}
	if cfg.ContrastUpper <= cfg.ContrastLower {
		cfg.ContrastLower = 0
		cfg.ContrastUpper = 255
	}
	if cfg.ContrastStretch == "" {
		cfg.ContrastStretch = string(contrast.StretchLinear)
	}
	if cfg.TargetStore == "" {
		cfg.TargetStore = TargetStoreCSV
	}
	if cfg.TargetExportPath == "" {
		cfg.TargetExportPath = "./targets"
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = "euniverse"
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "./targets.db"
	}
	if cfg.WSMaxMessageSize <= 0 {
		cfg.WSMaxMessageSize = 4096
	}
	if cfg.WSMessageBufferSize <= 0 {
		cfg.WSMessageBufferSize = 256
	}
}

// InitialContrast - the contrast params a new session starts with
func (cfg APIConfig) InitialContrast() contrast.Params {
	return contrast.Params{Lower: cfg.ContrastLower, Upper: cfg.ContrastUpper, Stretch: contrast.Stretch(cfg.ContrastStretch)}
}

func NewConfigFromFile(configFilePath string) (APIConfig, error) {
	fmt.Printf("Loading custom config from: %s\n", configFilePath)
	customConfig, err := os.ReadFile(configFilePath)
	if err != nil {
		return APIConfig{}, fmt.Errorf("could not read config file at %s", configFilePath)
	}
	return buildConfig(customConfig)
}

func buildConfig(configJson []byte) (APIConfig, error) {
	var cfg APIConfig

	err := json.Unmarshal(configJson, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse custom config: %v", err)
	}

	// Override Config with any values explicitly set in Env Vars (EUNIVERSE_CONFIG_*)
	// NOTE: For []string slices, pass in a comma-separated string, eg:
	// 			export EUNIVERSE_CONFIG_AllowedOrigins="http://localhost:4200,https://example.org"
	reflection := reflect.ValueOf(&cfg).Elem()
	for i := 0; i < reflection.NumField(); i++ {
		fieldName := reflection.Type().Field(i).Name
		field := reflection.Field(i)
		val, present := os.LookupEnv(envPrefix + fieldName)
		if !present {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(val)
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				field.Set(reflect.ValueOf(strings.Split(val, ",")))
			}
		case reflect.Int, reflect.Int32, reflect.Int64:
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return cfg, fmt.Errorf("could not read %v%v=%v as an integer", envPrefix, fieldName, val)
			}
			field.SetInt(i)
		case reflect.Float64:
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return cfg, fmt.Errorf("could not read %v%v=%v as a number", envPrefix, fieldName, val)
			}
			field.SetFloat(f)
		case reflect.Bool:
			b, err := strconv.ParseBool(val)
			if err != nil {
				return cfg, fmt.Errorf("could not read %v%v=%v as a bool", envPrefix, fieldName, val)
			}
			field.SetBool(b)
		}
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// Init config, loads config params. The config file is optional, without one everything comes from
// env vars and defaults.
func Init() (APIConfig, error) {
	configFilePath := flag.String("customConfigPath", "", "Path to the json file holding a set of custom config for the explorer API")
	flag.Parse()

	if configFilePath != nil && *configFilePath != "" {
		return NewConfigFromFile(*configFilePath)
	}
	return buildConfig([]byte("{}"))
}
