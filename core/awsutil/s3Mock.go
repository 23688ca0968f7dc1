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

package awsutil

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// MockS3Client - mock S3 client for unit tests. Don't forget to call FinishTest() at the end of your test to check
// that all calls to S3 were made, and there were no unexpected calls!
type MockS3Client struct {
	mutex sync.Mutex

	s3iface.S3API

	// Expected requests
	ExpListObjectsV2Input []s3.ListObjectsV2Input
	ExpGetObjectInput     []s3.GetObjectInput
	ExpHeadObjectInput    []s3.HeadObjectInput
	ExpPutObjectInput     []s3.PutObjectInput
	ExpDeleteObjectInput  []s3.DeleteObjectInput

	// Responses replayed as each request comes in. A nil entry makes the call fail
	QueuedListObjectsV2Output []*s3.ListObjectsV2Output
	QueuedGetObjectOutput     []*s3.GetObjectOutput
	QueuedHeadObjectOutput    []*s3.HeadObjectOutput
	QueuedPutObjectOutput     []*s3.PutObjectOutput
	QueuedDeleteObjectOutput  []*s3.DeleteObjectOutput
}

const ErrNoMoreInputsExpected = "No more inputs expected for "
const ErrWrongInput = "Incorrect input in "
const ErrNothingToReturn = "Nothing to return from "
const ErrReturningError = "Returning error from "

// NOTE: This function MUST be called at the end of a unit test/example test. Use defer when declaring MockS3Client!
func (m *MockS3Client) FinishTest() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	err := m.getFinishTestResult()

	// Print it so example tests get it in their output
	if err != nil {
		fmt.Println(err)
	}
	return err
}

func (m *MockS3Client) getFinishTestResult() error {
	remaining := []struct {
		name   string
		inputs int
		output int
	}{
		{"ListObjectsV2", len(m.ExpListObjectsV2Input), len(m.QueuedListObjectsV2Output)},
		{"GetObject", len(m.ExpGetObjectInput), len(m.QueuedGetObjectOutput)},
		{"HeadObject", len(m.ExpHeadObjectInput), len(m.QueuedHeadObjectOutput)},
		{"PutObject", len(m.ExpPutObjectInput), len(m.QueuedPutObjectOutput)},
		{"DeleteObject", len(m.ExpDeleteObjectInput), len(m.QueuedDeleteObjectOutput)},
	}

	for _, r := range remaining {
		if r.inputs > 0 {
			return fmt.Errorf("Test expected more %v calls to func", r.name)
		}
		if r.output > 0 {
			return fmt.Errorf("Remaining output %v for func", r.name)
		}
	}
	return nil
}

type stringer interface {
	String() string
}

// popExpected - checks the call against the next expected input (compared via the SDK's String()
// dump) and returns the next queued output
func popExpected[I stringer, O any](name string, input I, expList *[]I, outputs *[]*O) (*O, error) {
	if len(*expList) <= 0 {
		return nil, errors.New(ErrNoMoreInputsExpected + name)
	}

	expStr := (*expList)[0].String()
	*expList = (*expList)[1:]

	inpStr := input.String()
	if expStr != inpStr {
		return nil, fmt.Errorf("%v expected: \"%v\" S3 recvd: \"%v\"\n", ErrWrongInput+name, expStr, inpStr)
	}

	if len(*outputs) <= 0 {
		return nil, errors.New(ErrNothingToReturn + name)
	}

	result := (*outputs)[0]
	*outputs = (*outputs)[1:]
	return result, nil
}

func (m *MockS3Client) ListObjectsV2(input *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	result, err := popExpected("ListObjectsV2", *input, &m.ExpListObjectsV2Input, &m.QueuedListObjectsV2Output)
	if err == nil && result == nil {
		err = errors.New(ErrReturningError + "ListObjectsV2")
	}
	return result, err
}

func (m *MockS3Client) GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	result, err := popExpected("GetObject", *input, &m.ExpGetObjectInput, &m.QueuedGetObjectOutput)
	if err == nil && result == nil {
		err = awserr.New(s3.ErrCodeNoSuchKey, ErrReturningError+"GetObject", nil)
	}
	return result, err
}

func (m *MockS3Client) HeadObject(input *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	result, err := popExpected("HeadObject", *input, &m.ExpHeadObjectInput, &m.QueuedHeadObjectOutput)
	if err == nil && result == nil {
		// HEAD has no body so S3 can't say NoSuchKey
		err = awserr.New("NotFound", ErrReturningError+"HeadObject", nil)
	}
	return result, err
}

func getAsStr(r io.Reader) string {
	if r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "ERROR GETTING DATA"
	}
	return string(data)
}

// PutObject - bodies are compared line by line so a failing test says where they differ
func (m *MockS3Client) PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	name := "PutObject"
	if len(m.ExpPutObjectInput) <= 0 {
		return nil, errors.New(ErrNoMoreInputsExpected + name)
	}

	expItem := m.ExpPutObjectInput[0]
	m.ExpPutObjectInput = m.ExpPutObjectInput[1:]

	if *input.Bucket != *expItem.Bucket {
		return nil, fmt.Errorf("%v %v - bucket\nexpected: \"%v\"\nS3 recvd: \"%v\"\n", ErrWrongInput, name, *expItem.Bucket, *input.Bucket)
	}
	if *input.Key != *expItem.Key {
		return nil, fmt.Errorf("%v %v - key\nexpected: \"%v\"\nS3 recvd: \"%v\"\n", ErrWrongInput, name, *expItem.Key, *input.Key)
	}

	inpBody := getAsStr(input.Body)
	expBody := getAsStr(expItem.Body)
	if inpBody != expBody {
		inpLines := strings.Split(inpBody, "\n")
		expLines := strings.Split(expBody, "\n")

		c := 0
		for c < len(inpLines) && c < len(expLines) && inpLines[c] == expLines[c] {
			c++
		}

		expLine, inpLine := "", ""
		if c < len(inpLines) {
			inpLine = inpLines[c]
		}
		if c < len(expLines) {
			expLine = expLines[c]
		}
		return nil, fmt.Errorf("%v %v - body\nline %v\nexpected: \"%v\"\nS3 recvd: \"%v\"\n", ErrWrongInput, name, c+1, expLine, inpLine)
	}

	if len(m.QueuedPutObjectOutput) <= 0 {
		return nil, errors.New(ErrNothingToReturn + name)
	}

	result := m.QueuedPutObjectOutput[0]
	m.QueuedPutObjectOutput = m.QueuedPutObjectOutput[1:]

	if result == nil {
		return nil, errors.New(ErrReturningError + name)
	}
	return result, nil
}

func (m *MockS3Client) DeleteObject(input *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	result, err := popExpected("DeleteObject", *input, &m.ExpDeleteObjectInput, &m.QueuedDeleteObjectOutput)
	if err == nil && result == nil {
		err = errors.New(ErrReturningError + "DeleteObject")
	}
	return result, err
}
