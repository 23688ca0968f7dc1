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

package mongoDBConnection

import "fmt"

func Example_getDatabaseName() {
	fmt.Println(GetDatabaseName("euniverse", "prod"))

	// Output:
	// euniverse-prod
}

func Example_parseConnectionInfo() {
	info, err := parseConnectionInfo("targets-db", `{"host": "cluster.example.com", "port": "27017", "username": "explorer", "password": "pw", "engine": "mongo"}`)
	fmt.Printf("%v|%v|%v\n", err, info.Username, connectionURI(info))

	info.Host = "localhost:27999"
	fmt.Println(connectionURI(info))

	_, err = parseConnectionInfo("targets-db", `not json`)
	fmt.Println(err)

	_, err = parseConnectionInfo("targets-db", `{"port": "27017"}`)
	fmt.Println(err)

	// Output:
	// <nil>|explorer|mongodb://cluster.example.com:27017/
	// mongodb://localhost:27999/
	// failed to parse secret: targets-db
	// secret targets-db has no host
}
