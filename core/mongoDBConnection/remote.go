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

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/euniverse/core/core/logger"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Remote clusters (DocumentDB) need the RDS CA bundle next to the binary
const caBundlePath = "./rds-combined-ca-bundle.pem"

func remoteOptions(info MongoConnectionInfo, iLog logger.ILogger) (*options.ClientOptions, error) {
	tlsConfig, err := getCustomTLSConfig(caBundlePath)
	if err != nil {
		return nil, fmt.Errorf("Failed getting TLS configuration: %v", err)
	}

	// Tunnelled connections for debugging arrive on localhost, which the cert doesn't name
	if strings.Contains(info.Host, "localhost") {
		tlsConfig.InsecureSkipVerify = true
	}

	return options.Client().
		ApplyURI(connectionURI(info)).
		SetMonitor(makeMongoCommandMonitor(iLog)).
		SetTLSConfig(tlsConfig).
		SetRetryWrites(false).
		SetDirect(true).
		SetAuth(options.Credential{
			Username:    info.Username,
			Password:    info.Password,
			PasswordSet: true,
			AuthSource:  "admin",
		}), nil
}

func connectionURI(info MongoConnectionInfo) string {
	host := info.Host
	if info.Port != "" && !strings.Contains(host, ":") {
		host += ":" + info.Port
	}
	return fmt.Sprintf("mongodb://%s/", host)
}

func getCustomTLSConfig(caFile string) (*tls.Config, error) {
	tlsConfig := new(tls.Config)
	certs, err := os.ReadFile(caFile)
	if err != nil {
		return tlsConfig, err
	}

	tlsConfig.RootCAs = x509.NewCertPool()
	if !tlsConfig.RootCAs.AppendCertsFromPEM(certs) {
		return tlsConfig, errors.New("Failed parsing pem file")
	}

	return tlsConfig, nil
}
