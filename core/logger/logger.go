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

// Logging interface used by every engine component and the API. Components
// never write to stdout directly, they are handed an ILogger on construction
// so tests can swap in NullLogger or MemLogger.
package logger

import (
	"fmt"
	"strings"
)

// LogLevel - log level type
type LogLevel int

const (

	// LogDebug - DEBUG log level
	LogDebug LogLevel = iota

	// LogInfo - INFO log level
	LogInfo LogLevel = iota

	// LogError - ERROR log level (does not call os.Exit!)
	LogError LogLevel = iota
)

var logLevelPrefix = map[LogLevel]string{
	LogDebug: "DEBUG",
	LogInfo:  "INFO",
	LogError: "ERROR",
}

// ILogger - Generic logger interface
type ILogger interface {
	Printf(level LogLevel, format string, a ...interface{})
	Debugf(format string, a ...interface{})
	Infof(format string, a ...interface{})
	Errorf(format string, a ...interface{})
}

// GetLogLevelName - returns the printed prefix for a level, or an error if it's not one we know
func GetLogLevelName(level LogLevel) (string, error) {
	name, ok := logLevelPrefix[level]
	if !ok {
		return "", fmt.Errorf("Invalid log level: %v", level)
	}
	return name, nil
}

// GetLogLevel - parses a level name (case insensitive), as given in config or on the command line
func GetLogLevel(name string) (LogLevel, error) {
	for level, prefix := range logLevelPrefix {
		if strings.EqualFold(prefix, name) {
			return level, nil
		}
	}
	return LogInfo, fmt.Errorf("Invalid log level name: %v", name)
}

func formatLine(level LogLevel, format string, a ...interface{}) string {
	return logLevelPrefix[level] + ": " + fmt.Sprintf(format, a...)
}
