// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/cli"
)

const appName = "awsdeploy"

var version = "dev"

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func realMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	meta := Meta{
		Ui: &cli.BasicUi{
			Reader:      stdin,
			Writer:      stdout,
			ErrorWriter: stderr,
		},
		LogOutput: stderr,
	}

	c := cli.NewCLI(appName, version)
	c.Args = args
	c.Commands = commands(meta)
	c.HelpWriter = stdout
	c.ErrorWriter = stderr

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintf(stderr, "Error executing CLI: %s\n", err)
		return 1
	}
	return exitCode
}

func commands(meta Meta) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"validate": func() (cli.Command, error) {
			return &ValidateCommand{Meta: meta}, nil
		},
		"identity": func() (cli.Command, error) {
			return &IdentityCommand{Meta: meta}, nil
		},
		"package": func() (cli.Command, error) {
			return &PackageCommand{Meta: meta}, nil
		},
		"upload": func() (cli.Command, error) {
			return &UploadCommand{Meta: meta}, nil
		},
	}
}
