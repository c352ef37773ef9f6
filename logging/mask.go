// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"strings"

	"github.com/YakDriver/regexache"
)

// IAM Unique ID prefixes from
// https://docs.aws.amazon.com/IAM/latest/UserGuide/reference_identifiers.html#identifiers-unique-ids
var uniqueIDRegex = regexache.MustCompile(`(A3T[A-Z0-9]` +
	`|ABIA` + // STS service bearer token
	`|ACCA` + // Context-specific credential
	`|AGPA` + // User group
	`|AIDA` + // IAM user
	`|AIPA` + // EC2 instance profile
	`|AKIA` + // Access key
	`|ANPA` + // Managed policy
	`|ANVA` + // Version in a managed policy
	`|APKA` + // Public key
	`|AROA` + // Role
	`|ASCA` + // Certificate
	`|ASIA` + // STS temporary access key
	`)[A-Z0-9]{16,}`)

// MaskAWSAccessKey partially masks every IAM unique ID found in field.
func MaskAWSAccessKey(field string) string {
	return uniqueIDRegex.ReplaceAllStringFunc(field, func(s string) string {
		return partialMaskString(s, 4, 4) //nolint:gomnd
	})
}

func partialMaskString(s string, first, last int) string {
	l := len(s)
	if l <= first+last {
		return strings.Repeat("*", l)
	}
	return s[0:first] + strings.Repeat("*", l-first-last) + s[l-last:]
}
