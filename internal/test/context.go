// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package test

import (
	"context"
	"testing"

	"github.com/buildserver-plugins/aws-deploy-support/logging"
)

// Context returns a context carrying a logger named after the test.
func Context(t *testing.T) context.Context {
	return logging.RegisterLogger(context.Background(), logging.TfLogger(t.Name()))
}
