// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package revision

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/buildserver-plugins/aws-deploy-support/logging"
	"github.com/mitchellh/go-homedir"
)

// Spec describes an application revision to package.
type Spec struct {
	// Name of the archive file in OutputDir. ".zip" is appended when missing.
	Name string

	// Paths holds the revision paths parameter: newline or comma separated glob patterns
	// relative to BaseDir, or the path of a single prebuilt bundle.
	Paths string

	BaseDir   string
	OutputDir string

	// Manifest is the slash separated path, relative to BaseDir, of a file that must be among
	// the packaged files. No check is made when empty.
	Manifest string
}

// Archive returns the prebuilt bundle named by Paths, resolved against BaseDir, or builds a new one.
func (s *Spec) Archive(ctx context.Context) (string, error) {
	ready := ReadyRevision(s.Paths)
	if ready == "" {
		return s.Build(ctx)
	}

	baseDir, err := homedir.Expand(s.BaseDir)
	if err != nil {
		return "", &Error{Message: fmt.Sprintf("Failed to resolve base directory %s", s.BaseDir), Err: err}
	}

	ready = filepath.FromSlash(strings.ReplaceAll(ready, "\\", "/"))
	if filepath.IsAbs(ready) {
		return filepath.Clean(ready), nil
	}
	return filepath.Join(baseDir, ready), nil
}

// Build packages the files matched by Paths into a new zip archive in OutputDir and returns its path.
// An existing archive of the same name is overwritten. A partially written archive is left in place on failure.
func (s *Spec) Build(ctx context.Context) (string, error) {
	logger := logging.RetrieveLogger(ctx)

	if strings.ContainsAny(s.Name, `/\`) {
		return "", &Error{Message: fmt.Sprintf("Invalid application revision name %s: must not contain a path separator", s.Name)}
	}

	baseDir, err := homedir.Expand(s.BaseDir)
	if err != nil {
		return "", &Error{Message: fmt.Sprintf("Failed to resolve base directory %s", s.BaseDir), Err: err}
	}
	outputDir, err := homedir.Expand(s.OutputDir)
	if err != nil {
		return "", &Error{Message: fmt.Sprintf("Failed to resolve output directory %s", s.OutputDir), Err: err}
	}

	files, err := collect(baseDir, parsePatterns(s.Paths))
	if err != nil {
		return "", err
	}

	if len(files) == 0 {
		return "", &Error{Message: fmt.Sprintf("No %s files found", RevisionPathsParam), Err: ErrNoFilesFound}
	}

	if s.Manifest != "" && !contains(files, path.Clean(strings.ReplaceAll(s.Manifest, "\\", "/"))) {
		return "", &Error{
			Message: fmt.Sprintf("No %s file found among %s files", s.Manifest, RevisionPathsParam),
			Err:     ErrManifestNotFound,
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil { //nolint:gomnd
		return "", &Error{Message: fmt.Sprintf("Failed to create output directory %s", outputDir), Err: err}
	}

	dest := filepath.Join(outputDir, archiveName(s.Name))

	ctx = logger.SetField(ctx, string(logging.RevisionPathKey), dest)
	logger.Info(ctx, "Packaging application revision", logging.Fields(
		logging.RevisionFileCountKey.Int(len(files)),
	))

	if err := writeArchive(baseDir, files, dest); err != nil {
		return "", err
	}

	logger.Debug(ctx, "Packaged application revision")

	return dest, nil
}

func archiveName(name string) string {
	if strings.HasSuffix(name, ".zip") {
		return name
	}
	return name + ".zip"
}

// collect returns the sorted, de-duplicated slash separated paths of regular files under baseDir
// matching at least one include pattern and no exclude pattern.
func collect(baseDir string, patterns []pattern) ([]string, error) {
	for _, p := range patterns {
		if outsideBase(p.glob) {
			return nil, &Error{Message: fmt.Sprintf("Invalid %s pattern %s: outside of base directory", RevisionPathsParam, p.glob)}
		}
		if !doublestar.ValidatePattern(p.glob) {
			return nil, &Error{
				Message: fmt.Sprintf("Invalid %s pattern %s", RevisionPathsParam, p.glob),
				Err:     doublestar.ErrBadPattern,
			}
		}
	}

	fsys := os.DirFS(baseDir)

	matched := make(map[string]struct{})
	for _, p := range patterns {
		if p.exclude {
			continue
		}

		paths, err := doublestar.Glob(fsys, p.glob)
		if err != nil {
			return nil, &Error{Message: fmt.Sprintf("Invalid %s pattern %s", RevisionPathsParam, p.glob), Err: err}
		}

		for _, name := range paths {
			info, err := fs.Stat(fsys, name)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			matched[name] = struct{}{}
		}
	}

	var files []string
	for name := range matched {
		excluded, err := isExcluded(name, patterns)
		if err != nil {
			return nil, err
		}
		if !excluded {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	return files, nil
}

func isExcluded(name string, patterns []pattern) (bool, error) {
	for _, p := range patterns {
		if !p.exclude {
			continue
		}

		match, err := doublestar.Match(p.glob, name)
		if err != nil {
			return false, &Error{Message: fmt.Sprintf("Invalid %s pattern %s", RevisionPathsParam, p.glob), Err: err}
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

func contains(files []string, name string) bool {
	i := sort.SearchStrings(files, name)
	return i < len(files) && files[i] == name
}
