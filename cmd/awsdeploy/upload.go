// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsdeploy "github.com/buildserver-plugins/aws-deploy-support"
	"github.com/buildserver-plugins/aws-deploy-support/revision"
	"github.com/buildserver-plugins/aws-deploy-support/useragent"
)

// UploadCommand packages an application revision and puts it into S3.
type UploadCommand struct {
	Meta
}

func (c *UploadCommand) Help() string {
	helpText := `
Usage: awsdeploy upload [options]

  Validates the AWS connection parameters, resolves credentials (assuming the
  IAM role for temporary credentials), packages the application revision and
  uploads it to S3.

Options:
` + parameterFlagsHelp + revisionFlagsHelp + `
  -bucket=name          S3 bucket. Required.
  -key=key              S3 object key. Defaults to the archive file name.
  -sts-endpoint=url     Override the STS endpoint.
  -s3-endpoint=url      Override the S3 endpoint. Path style addressing is used.
  -user-agent=product   Append a {product}/{version} to the User-Agent. Can be repeated.
`
	return strings.TrimSpace(helpText)
}

func (c *UploadCommand) Synopsis() string {
	return "Package an application revision and upload it to S3"
}

func (c *UploadCommand) Run(args []string) int {
	var bucket, key, stsEndpoint, s3Endpoint string
	var userAgents stringsFlag
	spec := &revision.Spec{}

	fs := c.flagSet("upload")
	revisionFlags(fs, spec)
	fs.StringVar(&bucket, "bucket", "", "S3 bucket")
	fs.StringVar(&key, "key", "", "S3 object key")
	fs.StringVar(&stsEndpoint, "sts-endpoint", "", "STS endpoint")
	fs.StringVar(&s3Endpoint, "s3-endpoint", "", "S3 endpoint")
	fs.Var(&userAgents, "user-agent", "additional User-Agent product")
	if !c.parseFlags(fs, args) {
		return 1
	}

	if bucket == "" {
		c.Ui.Error("The -bucket flag is required")
		return 1
	}

	p := c.validParameters(false)
	if p == nil {
		return 1
	}

	ctx := c.context()

	resolved, err := awsdeploy.ResolveCredentials(ctx, p, func(o *awsdeploy.ResolveOptions) {
		o.StsEndpoint = stsEndpoint
		o.UserAgent = append(useragent.Products{{Name: appName, Version: version}}, useragent.FromSlice(userAgents)...)
	})
	if err != nil {
		c.reportAWSError("Failed to resolve AWS credentials", err)
		return 1
	}

	path, err := spec.Archive(ctx)
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}

	location, err := revision.Upload(ctx, resolved.AWSConfig(), path, bucket, key, func(o *s3.Options) {
		if s3Endpoint != "" {
			o.BaseEndpoint = aws.String(s3Endpoint)
			o.UsePathStyle = true
		}
	})
	if err != nil {
		c.reportAWSError("Failed to upload application revision", err)
		return 1
	}

	c.Ui.Output(fmt.Sprintf("Uploaded s3://%s/%s", location.Bucket, location.Key))
	c.Ui.Info(fmt.Sprintf("Bundle type: %s", location.BundleType))
	if location.ETag != "" {
		c.Ui.Info(fmt.Sprintf("ETag: %s", location.ETag))
	}
	if location.VersionID != "" {
		c.Ui.Info(fmt.Sprintf("Version ID: %s", location.VersionID))
	}
	return 0
}

func (c *UploadCommand) reportAWSError(msg string, err error) {
	c.Ui.Error(fmt.Sprintf("%s: %s", msg, err))

	switch {
	case awsdeploy.ErrCodeEquals(err, "AccessDenied"):
		c.Ui.Warn("Check that the IAM role trusts the configured account and that the external ID matches.")
	case awsdeploy.ErrCodeEquals(err, "InvalidClientTokenId", "SignatureDoesNotMatch"):
		c.Ui.Warn("Check the access key ID and secret access key.")
	case awsdeploy.ErrCodeEquals(err, "NoSuchBucket"):
		c.Ui.Warn("Check that the S3 bucket exists in the configured region.")
	}
}
