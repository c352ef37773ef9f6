// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package endpoints

import (
	"regexp"
)

type Partition struct {
	ID          string
	Name        string
	DNSSuffix   string
	RegionRegex *regexp.Regexp
	Regions     map[string]string
}

// TODO: this should be generated from the AWS SDK endpoints model
var partitions = []Partition{
	{
		ID:          "aws",
		Name:        "AWS Standard",
		DNSSuffix:   "amazonaws.com",
		RegionRegex: regexp.MustCompile(`^(us|eu|ap|sa|ca|me|af|il|mx)\-\w+\-\d+$`),
		Regions: map[string]string{
			"af-south-1":     "Africa (Cape Town)",
			"ap-east-1":      "Asia Pacific (Hong Kong)",
			"ap-northeast-1": "Asia Pacific (Tokyo)",
			"ap-northeast-2": "Asia Pacific (Seoul)",
			"ap-northeast-3": "Asia Pacific (Osaka)",
			"ap-south-1":     "Asia Pacific (Mumbai)",
			"ap-south-2":     "Asia Pacific (Hyderabad)",
			"ap-southeast-1": "Asia Pacific (Singapore)",
			"ap-southeast-2": "Asia Pacific (Sydney)",
			"ap-southeast-3": "Asia Pacific (Jakarta)",
			"ap-southeast-4": "Asia Pacific (Melbourne)",
			"ap-southeast-5": "Asia Pacific (Malaysia)",
			"ap-southeast-7": "Asia Pacific (Thailand)",
			"ca-central-1":   "Canada (Central)",
			"ca-west-1":      "Canada West (Calgary)",
			"eu-central-1":   "Europe (Frankfurt)",
			"eu-central-2":   "Europe (Zurich)",
			"eu-north-1":     "Europe (Stockholm)",
			"eu-south-1":     "Europe (Milan)",
			"eu-south-2":     "Europe (Spain)",
			"eu-west-1":      "Europe (Ireland)",
			"eu-west-2":      "Europe (London)",
			"eu-west-3":      "Europe (Paris)",
			"il-central-1":   "Israel (Tel Aviv)",
			"me-central-1":   "Middle East (UAE)",
			"me-south-1":     "Middle East (Bahrain)",
			"mx-central-1":   "Mexico (Central)",
			"sa-east-1":      "South America (Sao Paulo)",
			"us-east-1":      "US East (N. Virginia)",
			"us-east-2":      "US East (Ohio)",
			"us-west-1":      "US West (N. California)",
			"us-west-2":      "US West (Oregon)",
		},
	},
	{
		ID:          "aws-cn",
		Name:        "AWS China",
		DNSSuffix:   "amazonaws.com.cn",
		RegionRegex: regexp.MustCompile(`^cn\-\w+\-\d+$`),
		Regions: map[string]string{
			"cn-north-1":     "China (Beijing)",
			"cn-northwest-1": "China (Ningxia)",
		},
	},
	{
		ID:          "aws-us-gov",
		Name:        "AWS GovCloud (US)",
		DNSSuffix:   "amazonaws.com",
		RegionRegex: regexp.MustCompile(`^us\-gov\-\w+\-\d+$`),
		Regions: map[string]string{
			"us-gov-east-1": "AWS GovCloud (US-East)",
			"us-gov-west-1": "AWS GovCloud (US-West)",
		},
	},
	{
		ID:          "aws-iso",
		Name:        "AWS ISO (US)",
		DNSSuffix:   "c2s.ic.gov",
		RegionRegex: regexp.MustCompile(`^us\-iso\-\w+\-\d+$`),
		Regions: map[string]string{
			"us-iso-east-1": "US ISO East",
			"us-iso-west-1": "US ISO WEST",
		},
	},
	{
		ID:          "aws-iso-b",
		Name:        "AWS ISOB (US)",
		DNSSuffix:   "sc2s.sgov.gov",
		RegionRegex: regexp.MustCompile(`^us\-isob\-\w+\-\d+$`),
		Regions: map[string]string{
			"us-isob-east-1": "US ISOB East (Ohio)",
		},
	},
}

func Partitions() []Partition {
	return partitions
}

func PartitionForRegion(regionID string) string {
	for _, p := range partitions {
		if _, ok := p.Regions[regionID]; ok {
			return p.ID
		}
	}

	for _, p := range partitions {
		if p.RegionRegex.MatchString(regionID) {
			return p.ID
		}
	}

	return ""
}
