// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	awsdeploy "github.com/buildserver-plugins/aws-deploy-support"
	"github.com/buildserver-plugins/aws-deploy-support/logging"
	"github.com/hashicorp/cli"
	"github.com/hashicorp/go-hclog"
)

// Meta holds what every command shares: the UI, logging and the parameter flags.
type Meta struct {
	Ui        cli.Ui
	LogOutput io.Writer

	params   paramsFlag
	serverID string
	logLevel string
}

const parameterFlagsHelp = `
  -param=key=value      Set a parameter. Can be repeated.
  -server-id=id         Build server instance ID, used for the default external ID.
  -log-level=level      Log level: trace, debug, info, warn or error. Defaults to warn.`

func (m *Meta) flagSet(name string) *flag.FlagSet {
	m.params = make(paramsFlag)

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(m.params, "param", "parameter as key=value")
	fs.StringVar(&m.serverID, "server-id", "", "build server instance ID")
	fs.StringVar(&m.logLevel, "log-level", "warn", "log level")

	return fs
}

// parseFlags reports a parse failure to the UI and returns false.
func (m *Meta) parseFlags(fs *flag.FlagSet, args []string) bool {
	if err := fs.Parse(args); err != nil {
		m.Ui.Error(fmt.Sprintf("Error parsing command-line flags: %s", err))
		return false
	}
	return true
}

func (m *Meta) context() context.Context {
	output := m.LogOutput
	if output == nil {
		output = os.Stderr
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   appName,
		Level:  hclog.LevelFromString(m.logLevel),
		Output: output,
	})

	return logging.RegisterLogger(context.Background(), logging.NewHcLogger(logger))
}

// parameters merges the -param flags over the defaults.
func (m *Meta) parameters() (*awsdeploy.Parameters, error) {
	params := awsdeploy.Defaults(m.serverID)
	for k, v := range m.params {
		params[k] = v
	}

	return awsdeploy.ParseParameters(params)
}

// validParameters returns nil after reporting every validation problem to the UI.
func (m *Meta) validParameters(acceptReferences bool) *awsdeploy.Parameters {
	p, err := m.parameters()
	if err != nil {
		m.Ui.Error(err.Error())
		return nil
	}

	if invalids := awsdeploy.Validate(p, acceptReferences); len(invalids) > 0 {
		m.reportInvalids(invalids)
		return nil
	}

	return p
}

func (m *Meta) reportInvalids(invalids awsdeploy.ValidationResult) {
	keys := make([]string, 0, len(invalids))
	for k := range invalids {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		m.Ui.Error(fmt.Sprintf("%s: %s", k, invalids[k]))
	}
}

// paramsFlag collects repeated key=value flags.
type paramsFlag map[string]string

func (f paramsFlag) String() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+f[k])
	}
	return strings.Join(pairs, ",")
}

func (f paramsFlag) Set(value string) error {
	k, v, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}

	f[strings.TrimSpace(k)] = v
	return nil
}

// stringsFlag collects repeated string flags.
type stringsFlag []string

func (f *stringsFlag) String() string {
	return strings.Join(*f, ",")
}

func (f *stringsFlag) Set(value string) error {
	*f = append(*f, value)
	return nil
}
