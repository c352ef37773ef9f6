// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package revision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/buildserver-plugins/aws-deploy-support/logging"
)

// Location identifies an uploaded revision.
type Location struct {
	Bucket     string
	Key        string
	BundleType string
	ETag       string
	VersionID  string
}

// Upload puts the archive at path into bucket. The object key defaults to the archive's file name.
// Errors returned by S3 are not wrapped.
func Upload(ctx context.Context, cfg aws.Config, path, bucket, key string, optFns ...func(*s3.Options)) (*Location, error) {
	if key == "" {
		key = filepath.Base(path)
	}

	logger := logging.RetrieveLogger(ctx)
	logger.Info(ctx, "Uploading application revision", logging.Fields(
		logging.RevisionPathKey.String(path),
		logging.S3BucketKey.String(bucket),
		logging.S3KeyKey.String(key),
	))

	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("Failed to open application revision %s", path), Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("Failed to open application revision %s", path), Err: err}
	}

	client := s3.NewFromConfig(cfg, optFns...)

	output, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return nil, err
	}

	return &Location{
		Bucket:     bucket,
		Key:        key,
		BundleType: BundleType(key),
		ETag:       aws.ToString(output.ETag),
		VersionID:  aws.ToString(output.VersionId),
	}, nil
}
