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

// Error taxonomy for the navigation engine. Every failure the engine reports
// wraps one of these sentinels (via github.com/pkg/errors) so callers can use
// errors.Is to decide how to degrade. None of them are fatal to a session.
package engineerror

import "github.com/pkg/errors"

var (
	// ErrOutOfFootprint - a sky or pixel coordinate is outside a usable domain. No state was changed.
	ErrOutOfFootprint = errors.New("out of footprint")

	// ErrDecode - image data for a region could not be read. Affects one tile or one cutout.
	ErrDecode = errors.New("decode error")

	// ErrIndexNotReady - a catalog query arrived before any index finished building
	ErrIndexNotReady = errors.New("catalog index not ready")

	// ErrConfiguration - rejected parameters, the previous valid ones remain in effect
	ErrConfiguration = errors.New("configuration error")
)

func OutOfFootprint(format string, args ...interface{}) error {
	return errors.Wrapf(ErrOutOfFootprint, format, args...)
}

func Decode(cause error, format string, args ...interface{}) error {
	if cause == nil {
		return errors.Wrapf(ErrDecode, format, args...)
	}
	return errors.Wrapf(ErrDecode, format+": %v", append(args, cause)...)
}

func IndexNotReady(format string, args ...interface{}) error {
	return errors.Wrapf(ErrIndexNotReady, format, args...)
}

func Configuration(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConfiguration, format, args...)
}

// Kind - returns the sentinel an error wraps, or nil if it's not one of ours
func Kind(err error) error {
	for _, sentinel := range []error{ErrOutOfFootprint, ErrDecode, ErrIndexNotReady, ErrConfiguration} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}
