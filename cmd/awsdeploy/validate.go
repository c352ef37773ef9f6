// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/buildserver-plugins/aws-deploy-support/endpoints"
)

// ValidateCommand checks a set of parameters without contacting AWS.
type ValidateCommand struct {
	Meta
}

func (c *ValidateCommand) Help() string {
	helpText := `
Usage: awsdeploy validate [options]

  Validates the AWS connection parameters and reports every problem found.

Options:
` + parameterFlagsHelp + `
  -accept-references    Don't look up a region containing a %parameter.reference%.
`
	return strings.TrimSpace(helpText)
}

func (c *ValidateCommand) Synopsis() string {
	return "Validate AWS connection parameters"
}

func (c *ValidateCommand) Run(args []string) int {
	var acceptReferences bool

	fs := c.flagSet("validate")
	fs.BoolVar(&acceptReferences, "accept-references", false, "accept parameter references")
	if !c.parseFlags(fs, args) {
		return 1
	}

	p := c.validParameters(acceptReferences)
	if p == nil {
		return 1
	}

	if region, ok := endpoints.LookupRegion(p.Region); ok {
		c.Ui.Output(fmt.Sprintf("Parameters are valid. Region %s (%s) is in partition %s.", region.ID(), region.Description(), region.PartitionID()))
	} else {
		c.Ui.Output("Parameters are valid.")
	}
	return 0
}
