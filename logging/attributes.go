// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package logging

import "go.opentelemetry.io/otel/attribute"

const (
	AWSRegionKey          attribute.Key = "aws.region"
	AWSAccessKeyIDKey     attribute.Key = "aws.access_key_id"
	AWSRoleARNKey         attribute.Key = "aws.role_arn"
	AWSSessionNameKey     attribute.Key = "aws.session_name"
	AWSExternalIDKey      attribute.Key = "aws.external_id"
	AWSCredentialsModeKey attribute.Key = "aws.credentials_mode"
	RevisionPathKey       attribute.Key = "revision.path"
	RevisionFileCountKey  attribute.Key = "revision.file_count"
	S3BucketKey           attribute.Key = "aws.s3.bucket"
	S3KeyKey              attribute.Key = "aws.s3.key"

	AWSServiceKey        attribute.Key = "aws.service"
	AWSOperationKey      attribute.Key = "aws.operation"
	AWSSigningRegionKey  attribute.Key = "aws.signing_region"
	HTTPMethodKey        attribute.Key = "http.method"
	HTTPURLKey           attribute.Key = "http.url"
	HTTPStatusCodeKey    attribute.Key = "http.status_code"
	HTTPDurationKey      attribute.Key = "http.duration"
	HTTPResendCountKey   attribute.Key = "http.resend_count"
	HTTPContentLengthKey attribute.Key = "http.response_content_length"
	HTTPResponseBodyKey  attribute.Key = "http.response.body"
)

// Fields converts attributes to a logger field map.
func Fields(attrs ...attribute.KeyValue) map[string]any {
	result := make(map[string]any, len(attrs))
	for _, attr := range attrs {
		result[string(attr.Key)] = attr.Value.AsInterface()
	}
	return result
}
