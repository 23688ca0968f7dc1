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

package viewport

import (
	"encoding/json"
	"fmt"
)

func Example_gestureJSON() {
	for _, g := range []GestureState{Idle, Panning, Zooming} {
		b, err := json.Marshal(g)
		var back GestureState
		err2 := json.Unmarshal(b, &back)
		fmt.Println(string(b), err, back == g, err2)
	}

	var bad GestureState
	fmt.Println(json.Unmarshal([]byte(`"spinning"`), &bad))

	// Output:
	// "idle" <nil> true <nil>
	// "panning" <nil> true <nil>
	// "zooming" <nil> true <nil>
	// unknown gesture state: "spinning"
}
