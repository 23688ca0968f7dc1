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

package config

import (
	"testing"

	"github.com/euniverse/core/core/contrast"
	"github.com/euniverse/core/core/logger"
)

func Test_InitializeConfigWithFile(t *testing.T) {
	cfg, err := NewConfigFromFile("./example_config.json")
	if err != nil {
		t.Fatalf("Error initializing config: %v", err)
	}
	if cfg.TileSize != 512 || cfg.TargetStore != TargetStoreSQLite || cfg.LogLevel != logger.LogInfo {
		t.Errorf("got TileSize=%v TargetStore=%v LogLevel=%v", cfg.TileSize, cfg.TargetStore, cfg.LogLevel)
	}

	// Defaults for what the file didn't have
	if cfg.Port != 8080 || cfg.CacheMB != 256 || cfg.MaxZoom != 0 || cfg.SQLitePath != "./targets.db" {
		t.Errorf("got Port=%v CacheMB=%v MaxZoom=%v SQLitePath=%v", cfg.Port, cfg.CacheMB, cfg.MaxZoom, cfg.SQLitePath)
	}

	p := cfg.InitialContrast()
	if p.Upper != 65535 || p.Stretch != contrast.StretchAsinh || p.Validate() != nil {
		t.Errorf("got contrast %+v", p)
	}
}

func Test_OverrideConfigWithEnvVars(t *testing.T) {
	t.Setenv("EUNIVERSE_CONFIG_TileSize", "128")
	t.Setenv("EUNIVERSE_CONFIG_MaxZoom", "16.5")
	t.Setenv("EUNIVERSE_CONFIG_ImagePath", "./local.png")
	t.Setenv("EUNIVERSE_CONFIG_AllowedOrigins", "http://a,http://b")
	t.Setenv("EUNIVERSE_CONFIG_WSMaxMessageSize", "9000")

	cfg, err := NewConfigFromFile("./example_config.json")
	if err != nil {
		t.Fatalf("Error initializing config: %v", err)
	}
	if cfg.TileSize != 128 || cfg.MaxZoom != 16.5 || cfg.ImagePath != "./local.png" || cfg.WSMaxMessageSize != 9000 {
		t.Errorf("got TileSize=%v MaxZoom=%v ImagePath=%v WSMaxMessageSize=%v", cfg.TileSize, cfg.MaxZoom, cfg.ImagePath, cfg.WSMaxMessageSize)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b" {
		t.Errorf("got AllowedOrigins=%v", cfg.AllowedOrigins)
	}
}

func Test_BadEnvVar(t *testing.T) {
	t.Setenv("EUNIVERSE_CONFIG_ScreenWidth", "wide")

	_, err := buildConfig([]byte("{}"))
	want := "could not read EUNIVERSE_CONFIG_ScreenWidth=wide as an integer"
	if err == nil || err.Error() != want {
		t.Errorf("got %v; want: %v", err, want)
	}
}

func Test_DefaultsFillEmptyConfig(t *testing.T) {
	cfg, err := buildConfig([]byte("{}"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.EnvironmentName != "local" || cfg.TargetStore != TargetStoreCSV || cfg.ContrastUpper != 255 || cfg.ScreenWidth != 1280 {
		t.Errorf("got %+v", cfg)
	}
	if err := cfg.InitialContrast().Validate(); err != nil {
		t.Errorf("default contrast invalid: %v", err)
	}
}
