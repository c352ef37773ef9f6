// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package endpoints

import (
	"sort"

	"github.com/buildserver-plugins/aws-deploy-support/internal/endpoints"
)

// DefaultPartitions returns the partitions known to this module, ordered by ID.
func DefaultPartitions() []Partition {
	ps := endpoints.Partitions()
	partitions := make([]Partition, 0, len(ps))

	for _, p := range ps {
		regions := make(map[string]Region, len(p.Regions))
		for id, description := range p.Regions {
			regions[id] = Region{
				id:          id,
				description: description,
				partitionID: p.ID,
			}
		}

		partitions = append(partitions, Partition{
			id:          p.ID,
			name:        p.Name,
			dnsSuffix:   p.DNSSuffix,
			regionRegex: p.RegionRegex,
			regions:     regions,
		})
	}

	sort.Slice(partitions, func(i, j int) bool {
		return partitions[i].id < partitions[j].id
	})

	return partitions
}

// LookupRegion returns the known region with the specified ID.
func LookupRegion(regionID string) (Region, bool) {
	partitionID := endpoints.PartitionForRegion(regionID)
	if partitionID == "" {
		return Region{}, false
	}

	for _, p := range DefaultPartitions() {
		if p.ID() == partitionID {
			r, ok := p.Regions()[regionID]
			return r, ok
		}
	}
	return Region{}, false
}
