// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package useragent

import (
	"strings"

	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/smithy-go/middleware"
)

// Product is one {product}/{version} ({comment}) element of a User-Agent header.
type Product struct {
	Name    string
	Version string
	Comment string
}

func (p Product) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Version != "" {
		b.WriteString("/" + p.Version)
	}
	if p.Comment != "" {
		b.WriteString(" (" + p.Comment + ")")
	}
	return b.String()
}

type Products []Product

// String joins the named products with spaces.
func (ps Products) String() string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		if p.Name != "" {
			parts = append(parts, p.String())
		}
	}
	return strings.Join(parts, " ")
}

// APIOptions returns middleware that appends the named products to the SDK's User-Agent header.
// Comments are not sent.
func (ps Products) APIOptions() []func(*middleware.Stack) error {
	var options []func(*middleware.Stack) error
	for _, p := range ps {
		switch {
		case p.Name == "":
			continue
		case p.Version == "":
			options = append(options, awsmiddleware.AddUserAgentKey(p.Name))
		default:
			options = append(options, awsmiddleware.AddUserAgentKeyValue(p.Name, p.Version))
		}
	}
	return options
}

// FromSlice applies the conversion defined in [fromString] to all elements
// of a slice.
//
// Elements which cannot assert to a string, empty strings, and strings which
// do not match the expected `{product}/{version} ({comment})` pattern
// (where version and comment are optional) return a zero value Product.
func FromSlice[T any](sl []T) Products {
	products := make(Products, len(sl))
	for i, v := range sl {
		if s, ok := any(v).(string); ok && s != "" {
			products[i] = fromString(s)
		}
	}
	return products
}

func fromString(s string) Product {
	parts := strings.Split(s, "/")
	switch len(parts) {
	case 1:
		return Product{Name: parts[0]}
	case 2: //nolint: mnd
		subparts := strings.Split(parts[1], "(")
		if len(subparts) == 2 { //nolint: mnd
			version := strings.TrimSpace(subparts[0])
			comment := strings.TrimSuffix(subparts[1], ")")
			return Product{Name: parts[0], Version: version, Comment: comment}
		}
		return Product{Name: parts[0], Version: parts[1]}
	}

	return Product{}
}
