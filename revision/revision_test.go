// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package revision

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/buildserver-plugins/aws-deploy-support/internal/test"
	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zip"
)

var fileModTime = time.Date(2016, time.March, 14, 10, 20, 30, 0, time.UTC)

func writeFiles(t *testing.T, baseDir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(baseDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating directory for %s: %s", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %s", name, err)
		}
		if err := os.Chtimes(path, fileModTime, fileModTime); err != nil {
			t.Fatalf("setting times of %s: %s", name, err)
		}
	}
}

func readArchive(t *testing.T, path string) map[string]string {
	t.Helper()

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening archive %s: %s", path, err)
	}
	defer r.Close()

	entries := make(map[string]string, len(r.File))
	for _, f := range r.File {
		if !f.Modified.Truncate(time.Second).Equal(fileModTime) {
			t.Errorf("entry %s: expected modification time %s, got %s", f.Name, fileModTime, f.Modified)
		}

		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening entry %s: %s", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("reading entry %s: %s", f.Name, err)
		}
		entries[f.Name] = string(content)
	}
	return entries
}

func TestBuild(t *testing.T) {
	files := map[string]string{
		"appspec.yml":         "version: 0.0\nos: linux\n",
		"app/bin":             "#!/bin/sh\necho deployed\n",
		"app/lib/library.jar": "jar",
		"scripts/start.sh":    "start",
		"README.md":           "readme",
	}

	testCases := map[string]struct {
		name     string
		paths    string
		manifest string
		expected map[string]string
		path     string
	}{
		"everything": {
			name:     "revision",
			paths:    "**",
			manifest: AppSpecFileName,
			expected: files,
			path:     "revision.zip",
		},
		"zip extension kept": {
			name:     "revision.zip",
			paths:    "**",
			manifest: AppSpecFileName,
			expected: files,
			path:     "revision.zip",
		},
		"multiple patterns": {
			name:     "app",
			paths:    "appspec.yml\napp/bin, scripts/*.sh",
			manifest: AppSpecFileName,
			expected: map[string]string{
				"appspec.yml":      files["appspec.yml"],
				"app/bin":          files["app/bin"],
				"scripts/start.sh": files["scripts/start.sh"],
			},
			path: "app.zip",
		},
		"overlapping patterns": {
			name:     "app",
			paths:    "app/**\napp/bin\n+:appspec.yml\n*.yml",
			manifest: AppSpecFileName,
			expected: map[string]string{
				"appspec.yml":         files["appspec.yml"],
				"app/bin":             files["app/bin"],
				"app/lib/library.jar": files["app/lib/library.jar"],
			},
			path: "app.zip",
		},
		"directory": {
			name:  "app",
			paths: "app/",
			expected: map[string]string{
				"app/bin":             files["app/bin"],
				"app/lib/library.jar": files["app/lib/library.jar"],
			},
			path: "app.zip",
		},
		"excludes": {
			name:     "app",
			paths:    "**\n-:app/lib/**\n-:*.md",
			manifest: AppSpecFileName,
			expected: map[string]string{
				"appspec.yml":      files["appspec.yml"],
				"app/bin":          files["app/bin"],
				"scripts/start.sh": files["scripts/start.sh"],
			},
			path: "app.zip",
		},
		"dot prefixed": {
			name:     "app",
			paths:    "./appspec.yml\n./app/bin",
			manifest: "./appspec.yml",
			expected: map[string]string{
				"appspec.yml": files["appspec.yml"],
				"app/bin":     files["app/bin"],
			},
			path: "app.zip",
		},
	}

	for name, testCase := range testCases {
		testCase := testCase

		t.Run(name, func(t *testing.T) {
			ctx := test.Context(t)

			baseDir := t.TempDir()
			outputDir := filepath.Join(t.TempDir(), "out")
			writeFiles(t, baseDir, files)

			spec := &Spec{
				Name:      testCase.name,
				Paths:     testCase.paths,
				BaseDir:   baseDir,
				OutputDir: outputDir,
				Manifest:  testCase.manifest,
			}

			got, err := spec.Build(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			if a, e := got, filepath.Join(outputDir, testCase.path); a != e {
				t.Errorf("expected archive %q, got %q", e, a)
			}

			if diff := cmp.Diff(testCase.expected, readArchive(t, got)); diff != "" {
				t.Errorf("unexpected archive entries (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_errors(t *testing.T) {
	files := map[string]string{
		"appspec.yml": "version: 0.0\n",
		"app/bin":     "bin",
	}

	testCases := map[string]struct {
		name            string
		paths           string
		manifest        string
		validate        func(error) bool
		expectedMessage string
	}{
		"no files found": {
			paths:           "nothing/**",
			manifest:        AppSpecFileName,
			validate:        IsNoFilesFoundError,
			expectedMessage: "No codedeploy_revision_paths files found",
		},
		"no paths": {
			paths:           "",
			manifest:        AppSpecFileName,
			validate:        IsNoFilesFoundError,
			expectedMessage: "No codedeploy_revision_paths files found",
		},
		"everything excluded": {
			paths:           "**\n-:**",
			validate:        IsNoFilesFoundError,
			expectedMessage: "No codedeploy_revision_paths files found",
		},
		"manifest not matched": {
			paths:           "app/**",
			manifest:        AppSpecFileName,
			validate:        IsManifestNotFoundError,
			expectedMessage: "No appspec.yml file found among codedeploy_revision_paths files",
		},
		"manifest excluded": {
			paths:           "**\n-:appspec.yml",
			manifest:        AppSpecFileName,
			validate:        IsManifestNotFoundError,
			expectedMessage: "No appspec.yml file found among codedeploy_revision_paths files",
		},
		"bad pattern": {
			paths:    "app/[",
			validate: IsError,
		},
		"parent directory": {
			paths:           "appspec.yml\n../secret/**",
			validate:        IsError,
			expectedMessage: "Invalid codedeploy_revision_paths pattern ../secret/**: outside of base directory",
		},
		"parent directory after clean": {
			paths:    "appspec.yml\napp/../../secret/key",
			validate: IsError,
		},
		"excluded parent directory": {
			paths:    "**\n-:../**",
			validate: IsError,
		},
		"name with path separator": {
			name:            "../escaped",
			paths:           "**",
			validate:        IsError,
			expectedMessage: "Invalid application revision name ../escaped: must not contain a path separator",
		},
		"name with backslash": {
			name:     `..\escaped`,
			paths:    "**",
			validate: IsError,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase

		t.Run(name, func(t *testing.T) {
			ctx := test.Context(t)

			root := t.TempDir()
			baseDir := filepath.Join(root, "checkout")
			outputDir := filepath.Join(root, "out")
			writeFiles(t, baseDir, files)
			writeFiles(t, root, map[string]string{"secret/key": "outside"})

			name := testCase.name
			if name == "" {
				name = "revision"
			}

			spec := &Spec{
				Name:      name,
				Paths:     testCase.paths,
				BaseDir:   baseDir,
				OutputDir: outputDir,
				Manifest:  testCase.manifest,
			}

			_, err := spec.Build(ctx)
			if err == nil {
				t.Fatal("expected error, got none")
			}
			if !testCase.validate(err) {
				t.Errorf("unexpected error type %T: %s", err, err)
			}
			if testCase.expectedMessage != "" && err.Error() != testCase.expectedMessage {
				t.Errorf("expected message %q, got %q", testCase.expectedMessage, err.Error())
			}

			for _, dir := range []string{outputDir, root} {
				matches, globErr := filepath.Glob(filepath.Join(dir, "*.zip"))
				if globErr != nil {
					t.Fatalf("listing archives in %s: %s", dir, globErr)
				}
				if len(matches) > 0 {
					t.Errorf("expected no archive to be written, got %v", matches)
				}
			}
		})
	}
}

func TestBuild_outputDirIsFile(t *testing.T) {
	ctx := test.Context(t)

	baseDir := t.TempDir()
	writeFiles(t, baseDir, map[string]string{"appspec.yml": "version: 0.0\n"})

	outputDir := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(outputDir, nil, 0o644); err != nil {
		t.Fatalf("writing %s: %s", outputDir, err)
	}

	spec := &Spec{
		Name:      "revision",
		Paths:     "**",
		BaseDir:   baseDir,
		OutputDir: outputDir,
		Manifest:  AppSpecFileName,
	}

	_, err := spec.Build(ctx)
	if !IsError(err) {
		t.Fatalf("expected revision Error, got %T: %v", err, err)
	}
	if IsNoFilesFoundError(err) || IsManifestNotFoundError(err) {
		t.Errorf("unexpected error kind: %s", err)
	}
}

func TestArchive(t *testing.T) {
	ctx := test.Context(t)

	baseDir := t.TempDir()
	outputDir := t.TempDir()
	writeFiles(t, baseDir, map[string]string{
		"appspec.yml": "version: 0.0\n",
		"app/bin":     "bin",
	})

	absolute := filepath.Join(t.TempDir(), "prebuilt.tgz")

	testCases := map[string]struct {
		paths    string
		expected string
	}{
		"ready relative": {
			paths:    "dist/app.zip",
			expected: filepath.Join(baseDir, "dist", "app.zip"),
		},
		"ready with include prefix": {
			paths:    "+:dist/app.tar.gz",
			expected: filepath.Join(baseDir, "dist", "app.tar.gz"),
		},
		"ready absolute": {
			paths:    absolute,
			expected: absolute,
		},
		"built": {
			paths:    "**",
			expected: filepath.Join(outputDir, "revision.zip"),
		},
	}

	for name, testCase := range testCases {
		spec := &Spec{
			Name:      "revision",
			Paths:     testCase.paths,
			BaseDir:   baseDir,
			OutputDir: outputDir,
			Manifest:  AppSpecFileName,
		}

		got, err := spec.Archive(ctx)
		if err != nil {
			t.Fatalf("%s: unexpected error: %s", name, err)
		}
		if got != testCase.expected {
			t.Errorf("%s: expected %q, got %q", name, testCase.expected, got)
		}
	}
}
