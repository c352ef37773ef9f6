// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/buildserver-plugins/aws-deploy-support/revision"
)

// PackageCommand builds an application revision archive.
type PackageCommand struct {
	Meta
}

const revisionFlagsHelp = `
  -paths=patterns       Newline or comma separated revision paths. "-:" excludes,
                        a trailing "/" selects a whole directory.
  -base-dir=path        Directory the paths are relative to. Defaults to ".".
  -output-dir=path      Directory the archive is written to. Defaults to ".".
  -name=name            Archive name. Defaults to "revision".
  -manifest=path        File that must be packaged. Defaults to "appspec.yml".`

func (c *PackageCommand) Help() string {
	helpText := `
Usage: awsdeploy package [options]

  Packages the files matched by the revision paths into a zip archive and
  prints its path. A single prebuilt .zip, .tar, .tar.gz or .tgz is used as is.

Options:
` + revisionFlagsHelp + `
`
	return strings.TrimSpace(helpText)
}

func (c *PackageCommand) Synopsis() string {
	return "Package an application revision"
}

func (c *PackageCommand) Run(args []string) int {
	spec := &revision.Spec{}

	fs := c.flagSet("package")
	revisionFlags(fs, spec)
	if !c.parseFlags(fs, args) {
		return 1
	}

	path, err := spec.Archive(c.context())
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}

	c.Ui.Output(path)
	return 0
}

func revisionFlags(fs *flag.FlagSet, spec *revision.Spec) {
	fs.StringVar(&spec.Paths, "paths", "", fmt.Sprintf("%s parameter", revision.RevisionPathsParam))
	fs.StringVar(&spec.BaseDir, "base-dir", ".", "base directory")
	fs.StringVar(&spec.OutputDir, "output-dir", ".", "output directory")
	fs.StringVar(&spec.Name, "name", "revision", "archive name")
	fs.StringVar(&spec.Manifest, "manifest", revision.AppSpecFileName, "required manifest")
}
