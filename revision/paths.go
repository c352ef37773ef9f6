// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package revision

import (
	"path"
	"strings"

	"github.com/YakDriver/regexache"
)

const (
	RevisionPathsParam = "codedeploy_revision_paths"
	RevisionPathsLabel = "Application revision"

	AppSpecFileName = "appspec.yml"

	BundleTypeZip = "zip"
	BundleTypeTar = "tar"
	BundleTypeTgz = "tgz"

	excludePrefix = "-:"
	includePrefix = "+:"
)

var pathsSplitRegex = regexache.MustCompile(` *[,\n\r]+ *`)

type pattern struct {
	glob    string
	exclude bool
}

// SplitPaths splits a revision paths parameter into its non-blank entries.
func SplitPaths(paths string) []string {
	var result []string
	for _, p := range pathsSplitRegex.Split(strings.TrimSpace(paths), -1) {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// ReadyRevision returns the path of a prebuilt bundle when paths names exactly one
// non-wildcard file with a bundle extension, otherwise an empty string.
func ReadyRevision(paths string) string {
	split := SplitPaths(paths)
	if len(split) != 1 {
		return ""
	}

	p := split[0]
	if strings.HasPrefix(p, excludePrefix) || isWildcard(p) || BundleType(p) == "" {
		return ""
	}
	return strings.TrimPrefix(p, includePrefix)
}

// BundleType returns the CodeDeploy bundle type for a file name, or an empty string.
func BundleType(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, ".zip"):
		return BundleTypeZip
	case strings.HasSuffix(name, ".tar"):
		return BundleTypeTar
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return BundleTypeTgz
	}
	return ""
}

func outsideBase(glob string) bool {
	return glob == ".." || strings.HasPrefix(glob, "../")
}

func isWildcard(p string) bool {
	return strings.ContainsAny(p, "*?")
}

// parsePatterns converts revision paths to slash separated glob patterns relative to the base directory.
// A trailing slash selects everything below the directory. Patterns leaving the base directory
// keep their leading ".." and are rejected by collect.
func parsePatterns(paths string) []pattern {
	var patterns []pattern
	for _, p := range SplitPaths(paths) {
		exclude := false
		switch {
		case strings.HasPrefix(p, excludePrefix):
			exclude = true
			p = strings.TrimPrefix(p, excludePrefix)
		case strings.HasPrefix(p, includePrefix):
			p = strings.TrimPrefix(p, includePrefix)
		}

		p = strings.TrimLeft(strings.ReplaceAll(strings.TrimSpace(p), "\\", "/"), "/")
		dir := strings.HasSuffix(p, "/")
		p = path.Clean(p)
		switch {
		case p == ".":
			p = "**"
		case dir:
			p += "/**"
		}

		patterns = append(patterns, pattern{glob: p, exclude: exclude})
	}
	return patterns
}
