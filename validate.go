// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package awsdeploy

import (
	"fmt"
	"sort"

	"github.com/YakDriver/regexache"
	"github.com/buildserver-plugins/aws-deploy-support/validation"
	"github.com/hashicorp/go-multierror"
)

// A parameter reference such as %env.AWS_REGION%, resolved by the build server before execution.
var referenceRegex = regexache.MustCompile(`%[^%\s]+%`)

// ValidationResult maps an offending parameter key to a message for the user.
// An empty result means the parameters are valid.
type ValidationResult map[string]string

// Err folds the result into a single error, or returns nil when there is nothing to report.
func (r ValidationResult) Err() error {
	if len(r) == 0 {
		return nil
	}

	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs *multierror.Error
	for _, k := range keys {
		errs = multierror.Append(errs, fmt.Errorf("%s: %s", k, r[k]))
	}
	return errs.ErrorOrNil()
}

// Validate checks the parameters and collects every problem found.
// When acceptReferences is set, a region that contains a parameter reference is not looked up.
func Validate(p *Parameters, acceptReferences bool) ValidationResult {
	invalids := make(ValidationResult)

	if isBlank(p.Region) {
		invalids[RegionNameParam] = mustNotBeEmpty(RegionNameLabel)
	} else if !isReference(p.Region, acceptReferences) {
		if err := validation.SupportedRegion(p.Region); err != nil {
			invalids[RegionNameParam] = err.Error()
		}
	}

	if !p.UseDefaultChain() {
		if isBlank(p.AccessKeyID) {
			invalids[AccessKeyIDParam] = mustNotBeEmpty(AccessKeyIDLabel)
		}
		if isBlank(p.SecretKey()) {
			invalids[SecureSecretAccessKeyParam] = mustNotBeEmpty(SecretAccessKeyLabel)
		}
	}

	switch {
	case p.CredentialsType == TempCredentialsOption:
		if isBlank(p.IAMRoleARN) {
			invalids[IAMRoleARNParam] = mustNotBeEmpty(IAMRoleARNLabel)
		}
	case isBlank(p.CredentialsType):
		invalids[CredentialsTypeParam] = mustNotBeEmpty(CredentialsTypeLabel)
	case p.CredentialsType != AccessKeysOption:
		invalids[CredentialsTypeParam] = fmt.Sprintf("%s has unexpected value %s", CredentialsTypeLabel, p.CredentialsType)
	}

	return invalids
}

func mustNotBeEmpty(label string) string {
	return label + " mustn't be empty"
}

func isReference(s string, acceptReferences bool) bool {
	return acceptReferences && referenceRegex.MatchString(s)
}
