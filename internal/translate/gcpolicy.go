/*
Copyright 2025 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package translate

import (
	"fmt"
	"math"
	"time"

	"cloud.google.com/go/bigtable"

	"github.com/GoogleCloudPlatform/hbase-schema-translator/internal/schema"
)

// gcPolicy converts an HBase column family's retention attributes into the
// equivalent Cloud Bigtable garbage collection policy:
//
//   - no TTL: keep the newest maxVersions cells;
//   - TTL only: expire cells older than the TTL, but when MIN_VERSIONS is
//     set, the age rule may only collect cells beyond the newest minVersions;
//   - TTL and a bounded maxVersions: a cell is collected when either rule
//     says so.
func gcPolicy(cfg schema.FamilyConfig) (bigtable.GCPolicy, error) {
	maxVersions, err := cfg.MaxVersions()
	if err != nil {
		return nil, err
	}
	minVersions, err := cfg.MinVersions()
	if err != nil {
		return nil, err
	}
	ttl, err := cfg.TTLSeconds()
	if err != nil {
		return nil, err
	}

	if minVersions >= maxVersions {
		return nil, fmt.Errorf("MIN_VERSIONS (%d) must be less than VERSIONS (%d)", minVersions, maxVersions)
	}

	if ttl == schema.TTLForever {
		return bigtable.MaxVersionsPolicy(maxVersions), nil
	}

	ageRule := bigtable.MaxAgePolicy(time.Duration(ttl) * time.Second)
	if minVersions > 0 {
		ageRule = bigtable.IntersectionPolicy(ageRule, bigtable.MaxVersionsPolicy(minVersions))
	}
	if maxVersions == math.MaxInt32 {
		return ageRule, nil
	}
	return bigtable.UnionPolicy(ageRule, bigtable.MaxVersionsPolicy(maxVersions)), nil
}
