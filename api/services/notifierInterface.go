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
	"github.com/euniverse/core/core/contrast"
	"github.com/euniverse/core/core/targets"
	"github.com/euniverse/core/core/viewport"
)

// Notifier - things connected clients want to hear about without polling
type Notifier interface {
	// Sent once per coalesced batch of viewport changes
	NotifyViewportChanged(state viewport.State)

	NotifyContrastChanged(params contrast.Params)

	NotifyTargetAdded(rec targets.Record)
}

// NullNotifier - until a web socket handler is attached, and in unit tests
type NullNotifier struct {
}

func (n *NullNotifier) NotifyViewportChanged(state viewport.State) {
}

func (n *NullNotifier) NotifyContrastChanged(params contrast.Params) {
}

func (n *NullNotifier) NotifyTargetAdded(rec targets.Record) {
}
