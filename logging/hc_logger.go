// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"context"
	"sort"

	"github.com/hashicorp/go-hclog"
)

var _ Logger = HcLogger{}

type hcFieldsKeyT string

const hcFieldsKey hcFieldsKeyT = "hclog-fields-key"

// HcLogger adapts an hclog.Logger for use outside of a plugin host, e.g. from the command line.
type HcLogger struct {
	logger hclog.Logger
}

func NewHcLogger(logger hclog.Logger) HcLogger {
	return HcLogger{logger: logger}
}

func (l HcLogger) Warn(ctx context.Context, msg string, fields ...map[string]any) {
	l.logger.Warn(msg, hcArgs(ctx, fields)...)
}

func (l HcLogger) Info(ctx context.Context, msg string, fields ...map[string]any) {
	l.logger.Info(msg, hcArgs(ctx, fields)...)
}

func (l HcLogger) Debug(ctx context.Context, msg string, fields ...map[string]any) {
	l.logger.Debug(msg, hcArgs(ctx, fields)...)
}

// SetField returns a context carrying the field. The original context is not modified.
func (l HcLogger) SetField(ctx context.Context, key string, value any) context.Context {
	existing, _ := ctx.Value(hcFieldsKey).(map[string]any)

	fields := make(map[string]any, len(existing)+1)
	for k, v := range existing {
		fields[k] = v
	}
	fields[key] = value

	return context.WithValue(ctx, hcFieldsKey, fields)
}

// hcArgs flattens context fields and per-call fields into hclog's alternating key/value form.
// Per-call fields take precedence.
func hcArgs(ctx context.Context, fields []map[string]any) []any {
	merged := make(map[string]any)
	if existing, ok := ctx.Value(hcFieldsKey).(map[string]any); ok {
		for k, v := range existing {
			merged[k] = v
		}
	}
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, 2*len(keys)) //nolint:gomnd
	for _, k := range keys {
		args = append(args, k, merged[k])
	}
	return args
}
