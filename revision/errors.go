// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package revision

import (
	"errors"

	"github.com/buildserver-plugins/aws-deploy-support/internal/errs"
)

var (
	ErrNoFilesFound     = errors.New("no files found")
	ErrManifestNotFound = errors.New("manifest not found")
)

// Error reports a failure to produce an application revision.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && !errors.Is(e.Err, ErrNoFilesFound) && !errors.Is(e.Err, ErrManifestNotFound) {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsError returns true if the error contains the Error type.
func IsError(err error) bool {
	return errs.IsA[*Error](err)
}

// IsNoFilesFoundError returns true if no files matched the revision paths.
func IsNoFilesFoundError(err error) bool {
	return IsError(err) && errors.Is(err, ErrNoFilesFound)
}

// IsManifestNotFoundError returns true if the required manifest was not among the matched files.
func IsManifestNotFoundError(err error) bool {
	return IsError(err) && errors.Is(err, ErrManifestNotFound)
}
