// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package awsdeploy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/YakDriver/regexache"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/buildserver-plugins/aws-deploy-support/logging"
	"github.com/buildserver-plugins/aws-deploy-support/useragent"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/otel/attribute"
)

const maskedValue = "*****"

var (
	whitespaceRegex = regexache.MustCompile(`\s+`)
	commaRegex      = regexache.MustCompile(`,\s*`)
	sdkAttemptRegex = regexache.MustCompile(`attempt=(\d+);`)
)

// apiOptions returns the middleware added to every AWS client.
func apiOptions(products useragent.Products) []func(*middleware.Stack) error {
	options := append(products.APIOptions(), addRequestResponseLogger)
	otelaws.AppendMiddlewares(&options)

	return options
}

func addRequestResponseLogger(stack *middleware.Stack) error {
	return stack.Deserialize.Add(&requestResponseLogger{}, middleware.After)
}

// requestResponseLogger logs each HTTP attempt at debug level.
// Signatures and session tokens are masked. Response bodies are logged for error responses only,
// since successful STS responses carry secrets.
type requestResponseLogger struct{}

func (r *requestResponseLogger) ID() string {
	return "AWSDeploy_RequestResponseLogger"
}

func (r *requestResponseLogger) HandleDeserialize(ctx context.Context, in middleware.DeserializeInput, next middleware.DeserializeHandler,
) (
	out middleware.DeserializeOutput, metadata middleware.Metadata, err error,
) {
	logger := logging.RetrieveLogger(ctx)

	ctx = logger.SetField(ctx, string(logging.AWSServiceKey), awsmiddleware.GetServiceID(ctx))
	ctx = logger.SetField(ctx, string(logging.AWSOperationKey), awsmiddleware.GetOperationName(ctx))

	region := awsmiddleware.GetRegion(ctx)
	ctx = logger.SetField(ctx, string(logging.AWSRegionKey), region)

	if signingRegion := awsmiddleware.GetSigningRegion(ctx); signingRegion != "" && signingRegion != region {
		ctx = logger.SetField(ctx, string(logging.AWSSigningRegionKey), signingRegion)
	}

	smithyRequest, ok := in.Request.(*smithyhttp.Request)
	if !ok {
		return out, metadata, fmt.Errorf("unknown request type %T", in.Request)
	}

	logger.Debug(ctx, "HTTP Request Sent", logging.Fields(decomposeHTTPRequest(smithyRequest.Request)...))

	start := time.Now()

	out, metadata, err = next.HandleDeserialize(ctx, in)

	elapsed := time.Since(start)

	if smithyResponse, ok := out.RawResponse.(*smithyhttp.Response); ok {
		responseFields, decomposeErr := decomposeHTTPResponse(smithyResponse.Response, elapsed)
		if decomposeErr != nil {
			return out, metadata, fmt.Errorf("decomposing response: %w", decomposeErr)
		}
		logger.Debug(ctx, "HTTP Response Received", logging.Fields(responseFields...))
	}

	return out, metadata, err
}

func decomposeHTTPRequest(req *http.Request) []attribute.KeyValue {
	attributes := []attribute.KeyValue{
		logging.HTTPMethodKey.String(req.Method),
		logging.HTTPURLKey.String(req.URL.String()),
	}

	return append(attributes, decomposeRequestHeaders(req.Header)...)
}

func decomposeRequestHeaders(h http.Header) []attribute.KeyValue {
	header := h.Clone()
	header.Del("Content-Length")

	results := make([]attribute.KeyValue, 0, len(header)+1)

	if attempt := header.Values("Amz-Sdk-Request"); len(attempt) > 0 {
		if resendAttribute, ok := resendCountAttribute(attempt[0]); ok {
			results = append(results, resendAttribute)
		}
	}

	if auth := header.Values("Authorization"); len(auth) > 0 {
		if authHeader, ok := authorizationHeaderAttribute(auth[0]); ok {
			results = append(results, authHeader)
		}
	}
	header.Del("Authorization")

	if len(header.Values("X-Amz-Security-Token")) > 0 {
		results = append(results, requestHeaderAttribute("X-Amz-Security-Token").String(maskedValue))
	}
	header.Del("X-Amz-Security-Token")

	for k := range header {
		results = append(results, headerAttribute(requestHeaderAttribute(k), header.Values(k)))
	}

	return results
}

func headerAttribute(key attribute.Key, v []string) attribute.KeyValue {
	if len(v) == 1 {
		return key.String(v[0])
	}
	return key.StringSlice(v)
}

func requestHeaderAttribute(k string) attribute.Key {
	return attribute.Key("http.request.header." + normalizeHeaderName(k))
}

func responseHeaderAttribute(k string) attribute.Key {
	return attribute.Key("http.response.header." + normalizeHeaderName(k))
}

func normalizeHeaderName(k string) string {
	return strings.ReplaceAll(strings.ToLower(http.CanonicalHeaderKey(k)), "-", "_")
}

// authorizationHeaderAttribute keeps the scheme, the signed header names and a masked credential scope.
func authorizationHeaderAttribute(v string) (attribute.KeyValue, bool) {
	parts := whitespaceRegex.Split(v, 2) //nolint:gomnd
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return attribute.KeyValue{}, false
	}
	scheme, params := parts[0], parts[1]

	key := requestHeaderAttribute("Authorization")
	if !strings.HasPrefix(scheme, "AWS4-") {
		return key.String(scheme + " " + strings.Repeat("*", len(params))), true
	}

	components := commaRegex.Split(params, -1)
	for i, component := range components {
		name, value, ok := strings.Cut(component, "=")
		switch {
		case !ok:
			components[i] = maskedValue
		case name == "SignedHeaders":
		case name == "Credential":
			components[i] = name + "=" + logging.MaskAWSAccessKey(value)
		default:
			components[i] = name + "=" + maskedValue
		}
	}

	return key.String(scheme + " " + strings.Join(components, ", ")), true
}

func resendCountAttribute(v string) (kv attribute.KeyValue, ok bool) {
	match := sdkAttemptRegex.FindStringSubmatch(v)
	if len(match) != 2 { //nolint:gomnd
		return
	}

	attempt, err := strconv.Atoi(match[1])
	if err != nil {
		return
	}

	if attempt > 1 {
		return logging.HTTPResendCountKey.Int(attempt), true
	}

	return
}

func decomposeHTTPResponse(resp *http.Response, elapsed time.Duration) ([]attribute.KeyValue, error) {
	attributes := []attribute.KeyValue{
		logging.HTTPDurationKey.Int64(elapsed.Milliseconds()),
		logging.HTTPStatusCodeKey.Int(resp.StatusCode),
		logging.HTTPContentLengthKey.Int64(resp.ContentLength),
	}

	header := resp.Header.Clone()
	header.Del("Content-Length")
	for k := range header {
		attributes = append(attributes, headerAttribute(responseHeaderAttribute(k), header.Values(k)))
	}

	if resp.StatusCode < http.StatusMultipleChoices || resp.Body == nil {
		return attributes, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return append(attributes, logging.HTTPResponseBodyKey.String(logging.MaskAWSAccessKey(string(body)))), nil
}
