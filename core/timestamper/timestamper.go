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

package timestamper

import "time"

// ITimeStamper - anything that needs "now" goes through this so tests can queue up known times
type ITimeStamper interface {
	GetTimeNowSec() int64
	GetTimeNow() time.Time
}

type UnixTimeNowStamper struct {
}

// GetTimeNowSec - Returns unix time now in seconds
func (ts *UnixTimeNowStamper) GetTimeNowSec() int64 {
	return time.Now().Unix()
}

// GetTimeNow - Returns the wall clock time, UTC
func (ts *UnixTimeNowStamper) GetTimeNow() time.Time {
	return time.Now().UTC()
}

// MockTimeNowStamper - returns queued values in order. Both getters read from the same
// queue of unix seconds, so a test only needs to know how many calls are made.
type MockTimeNowStamper struct {
	QueuedTimeStamps []int64
}

// GetTimeNowSec - Returns the next queued time
func (ts *MockTimeNowStamper) GetTimeNowSec() int64 {
	val := ts.QueuedTimeStamps[0]
	ts.QueuedTimeStamps = ts.QueuedTimeStamps[1:]
	return val
}

// GetTimeNow - Returns the next queued time as a UTC time.Time
func (ts *MockTimeNowStamper) GetTimeNow() time.Time {
	return time.Unix(ts.GetTimeNowSec(), 0).UTC()
}
