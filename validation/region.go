// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package validation

import (
	"fmt"

	"github.com/buildserver-plugins/aws-deploy-support/endpoints"
)

type InvalidRegionError struct {
	region string
}

func (e *InvalidRegionError) Error() string {
	return fmt.Sprintf("Invalid AWS Region: %s", e.region)
}

// SupportedRegion checks if the given region is a valid AWS region.
func SupportedRegion(region string) error {
	for _, partition := range endpoints.DefaultPartitions() {
		if _, ok := partition.Regions()[region]; ok {
			return nil
		}
	}

	return &InvalidRegionError{
		region: region,
	}
}
