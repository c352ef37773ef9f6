// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package servicemocks

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

const (
	MockStaticAccessKey = "StaticAccessKey"
	MockStaticSecretKey = "StaticSecretKey"

	MockEnvAccessKey = "EnvAccessKey"
	MockEnvSecretKey = "EnvSecretKey"

	MockStsAssumeRoleAccessKey    = "AssumeRoleAccessKey"
	MockStsAssumeRoleArn          = "arn:aws:iam::555555555555:role/AssumeRole"
	MockStsAssumeRoleExternalId   = "AssumeRoleExternalId"
	MockStsAssumeRoleSecretKey    = "AssumeRoleSecretKey"
	MockStsAssumeRoleSessionName  = "AssumeRoleSessionName"
	MockStsAssumeRoleSessionToken = "AssumeRoleSessionToken"
)

// MockRequest describes what a MockEndpoint accepts.
// Every key in Form must be present in the request's form with the same value.
type MockRequest struct {
	Method string
	Uri    string
	Form   url.Values
}

type MockResponse struct {
	StatusCode  int
	Body        string
	ContentType string
	Headers     map[string]string
}

type MockEndpoint struct {
	Request  *MockRequest
	Response *MockResponse

	mu         sync.Mutex
	bodies     [][]byte
	lastHeader http.Header
}

// Calls returns the number of requests served by the endpoint.
func (e *MockEndpoint) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.bodies)
}

// LastHeader returns the headers of the most recent request served by the endpoint.
func (e *MockEndpoint) LastHeader() http.Header {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.lastHeader
}

// LastBody returns the raw body of the most recent request served by the endpoint.
func (e *MockEndpoint) LastBody() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.bodies) == 0 {
		return nil
	}
	return e.bodies[len(e.bodies)-1]
}

func (e *MockEndpoint) matches(r *http.Request, form url.Values) bool {
	if e.Request.Method != "" && e.Request.Method != r.Method {
		return false
	}
	if e.Request.Uri != "" && e.Request.Uri != r.URL.Path {
		return false
	}
	for k := range e.Request.Form {
		if form.Get(k) != e.Request.Form.Get(k) {
			return false
		}
	}
	return true
}

func (e *MockEndpoint) record(header http.Header, body []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.bodies = append(e.bodies, body)
	e.lastHeader = header
}

// MockAwsApiServer establishes an httptest server to simulate behaviour of a real AWS API server.
// Requests that match no endpoint are answered with 400 Bad Request.
func MockAwsApiServer(svcName string, endpoints []*MockEndpoint) *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		var form url.Values
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			form, err = url.ParseQuery(string(body))
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
		}

		for _, e := range endpoints {
			if !e.matches(r, form) {
				continue
			}

			e.record(r.Header.Clone(), body)

			if e.Response.ContentType != "" {
				w.Header().Set("Content-Type", e.Response.ContentType)
			}
			for k, v := range e.Response.Headers {
				w.Header().Set(k, v)
			}
			w.Header().Set("X-Amzn-Requestid", "1b206dd1-f9a8-11e5-becf-051c60f11c4a")
			w.WriteHeader(e.Response.StatusCode)
			_, _ = io.Copy(w, bytes.NewBufferString(e.Response.Body))
			return
		}

		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprintf(w, "%s: no mock endpoint for %s %s %s", svcName, r.Method, r.URL.Path, string(body))
	}))

	return ts
}

// MockStsAssumeRoleValidEndpoint answers AssumeRole for MockStsAssumeRoleArn with fixed temporary credentials.
func MockStsAssumeRoleValidEndpoint(form url.Values) *MockEndpoint {
	expected := url.Values{
		"Action":  []string{"AssumeRole"},
		"RoleArn": []string{MockStsAssumeRoleArn},
		"Version": []string{"2011-06-15"},
	}
	for k, v := range form {
		expected[k] = v
	}

	return &MockEndpoint{
		Request: &MockRequest{
			Method: http.MethodPost,
			Uri:    "/",
			Form:   expected,
		},
		Response: &MockResponse{
			StatusCode:  http.StatusOK,
			Body:        MockStsAssumeRoleValidResponseBody,
			ContentType: "text/xml",
		},
	}
}

// MockStsAssumeRoleAccessDeniedEndpoint rejects any AssumeRole request.
func MockStsAssumeRoleAccessDeniedEndpoint() *MockEndpoint {
	return &MockEndpoint{
		Request: &MockRequest{
			Method: http.MethodPost,
			Uri:    "/",
			Form: url.Values{
				"Action": []string{"AssumeRole"},
			},
		},
		Response: &MockResponse{
			StatusCode:  http.StatusForbidden,
			Body:        MockStsAssumeRoleAccessDeniedResponseBody,
			ContentType: "text/xml",
		},
	}
}

// MockS3PutObjectEndpoint accepts PutObject for bucket/key.
func MockS3PutObjectEndpoint(bucket, key string) *MockEndpoint {
	return &MockEndpoint{
		Request: &MockRequest{
			Method: http.MethodPut,
			Uri:    fmt.Sprintf("/%s/%s", bucket, key),
		},
		Response: &MockResponse{
			StatusCode: http.StatusOK,
			Headers: map[string]string{
				"ETag":             MockS3ETag,
				"x-amz-version-id": MockS3VersionId,
			},
		},
	}
}

const (
	MockS3ETag      = `"d41d8cd98f00b204e9800998ecf8427e"`
	MockS3VersionId = "3HL4kqtJlcpXroDTDmjVBH40Nrjfkd"
)

var MockStsAssumeRoleValidResponseBody = fmt.Sprintf(`<AssumeRoleResponse xmlns="https://sts.amazonaws.com/doc/2011-06-15/">
  <AssumeRoleResult>
    <AssumedRoleUser>
      <Arn>arn:aws:sts::555555555555:assumed-role/role/AssumeRoleSessionName</Arn>
      <AssumedRoleId>ARO123EXAMPLE123:AssumeRoleSessionName</AssumedRoleId>
    </AssumedRoleUser>
    <Credentials>
      <AccessKeyId>%s</AccessKeyId>
      <SecretAccessKey>%s</SecretAccessKey>
      <SessionToken>%s</SessionToken>
      <Expiration>2099-12-31T23:59:59Z</Expiration>
    </Credentials>
  </AssumeRoleResult>
  <ResponseMetadata>
    <RequestId>01234567-89ab-cdef-0123-456789abcdef</RequestId>
  </ResponseMetadata>
</AssumeRoleResponse>`, MockStsAssumeRoleAccessKey, MockStsAssumeRoleSecretKey, MockStsAssumeRoleSessionToken)

const MockStsAssumeRoleAccessDeniedResponseBody = `<ErrorResponse xmlns="https://sts.amazonaws.com/doc/2011-06-15/">
  <Error>
    <Type>Sender</Type>
    <Code>AccessDenied</Code>
    <Message>User: arn:aws:iam::123456789012:user/deployer is not authorized to perform: sts:AssumeRole</Message>
  </Error>
  <RequestId>01234567-89ab-cdef-0123-456789abcdef</RequestId>
</ErrorResponse>`
