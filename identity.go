// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package awsdeploy

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/cases"
)

// Identity fingerprints the deployment-affecting parameters together with extraParts, so that a
// changed configuration can be detected between runs. Occurrences of baseDir are removed first,
// which keeps the fingerprint stable when the same job runs from a different checkout directory.
// It is not a security hash.
func Identity(baseDir string, p *Parameters, extraParts ...string) uint64 {
	parts := append([]string{p.Region, p.AccessKeyID, p.IAMRoleARN}, extraParts...)

	baseDir = strings.TrimSuffix(toSlash(baseDir), "/")
	fold := cases.Fold()

	normalized := make([]string, 0, len(parts))
	for _, part := range parts {
		if isBlank(part) {
			continue
		}

		part = toSlash(part)
		if baseDir != "" {
			part = strings.ReplaceAll(part, baseDir+"/", "")
			part = strings.ReplaceAll(part, baseDir, "")
		}
		part = strings.Join(strings.Fields(part), "")
		normalized = append(normalized, fold.String(part))
	}
	sort.Strings(normalized)

	return xxhash.Sum64String(strings.Join(normalized, ""))
}

func toSlash(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
