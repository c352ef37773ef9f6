// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"strings"

	awsdeploy "github.com/buildserver-plugins/aws-deploy-support"
)

// IdentityCommand prints the fingerprint of the deployment-affecting parameters.
type IdentityCommand struct {
	Meta
}

func (c *IdentityCommand) Help() string {
	helpText := `
Usage: awsdeploy identity [options] [part ...]

  Prints a fingerprint of the region, access key ID, IAM role ARN and any
  additional parts. Occurrences of the base directory are ignored.

Options:
` + parameterFlagsHelp + `
  -base-dir=path        Checkout directory removed from every part.
`
	return strings.TrimSpace(helpText)
}

func (c *IdentityCommand) Synopsis() string {
	return "Print the identity fingerprint of a configuration"
}

func (c *IdentityCommand) Run(args []string) int {
	var baseDir string

	fs := c.flagSet("identity")
	fs.StringVar(&baseDir, "base-dir", "", "checkout directory")
	if !c.parseFlags(fs, args) {
		return 1
	}

	p, err := c.parameters()
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}

	c.Ui.Output(fmt.Sprintf("%016x", awsdeploy.Identity(baseDir, p, fs.Args()...)))
	return 0
}
