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

// Package schema holds the in-memory representation of a cluster's table
// schemas and defines the JSON interchange format used to move them between
// runs of the translator.
package schema

import (
	"fmt"
	"math"
	"strconv"
)

// Well-known HBase column family attribute names, as reported by the cluster.
const (
	AttrMaxVersions = "VERSIONS"
	AttrMinVersions = "MIN_VERSIONS"
	AttrTTL         = "TTL"
)

// TTLForever is the TTL value HBase uses for column families that never
// expire (HConstants.FOREVER, in seconds). It is also the default when a
// family carries no TTL attribute.
const TTLForever = math.MaxInt32

// ClusterSchemaDefinition describes the tables of one cluster. It is built by
// a schema reader, optionally replaced by a transformer and consumed exactly
// once by a schema writer. Its JSON form is the tool's interchange format.
type ClusterSchemaDefinition struct {
	TableSchemaDefinitions []*TableSchemaDefinition `json:"tableSchemaDefinitions"`
}

// AddTable appends a table definition, rejecting duplicate table names.
func (d *ClusterSchemaDefinition) AddTable(t *TableSchemaDefinition) error {
	for _, existing := range d.TableSchemaDefinitions {
		if existing.Name == t.Name {
			return fmt.Errorf("schema definition already contains table %q", t.Name)
		}
	}
	d.TableSchemaDefinitions = append(d.TableSchemaDefinitions, t)
	return nil
}

// TableSchemaDefinition describes a single table: its name (possibly
// namespace-qualified with a ':' separator), its column family configuration
// and the row keys of its initial region boundaries.
//
// Splits never contain the empty row key; the keyspace-start boundary is
// dropped at read time because it is not a valid explicit split point on the
// destination. In the interchange file each split is base64-encoded, so
// arbitrary binary row keys survive the round trip.
type TableSchemaDefinition struct {
	Name           string                  `json:"name"`
	ColumnFamilies map[string]FamilyConfig `json:"columnFamilies"`
	Splits         [][]byte                `json:"splits,omitempty"`
}

// FamilyConfig is the column family configuration as reported by the source
// cluster: a flat attribute map (e.g. "TTL", "VERSIONS", "COMPRESSION")
// carried through the pipeline unmodified. Only the attributes needed to
// build a destination GC policy have typed accessors; everything else is
// opaque.
type FamilyConfig map[string]string

// MaxVersions returns the VERSIONS attribute, defaulting to 1.
func (c FamilyConfig) MaxVersions() (int, error) {
	return c.intAttr(AttrMaxVersions, 1)
}

// MinVersions returns the MIN_VERSIONS attribute, defaulting to 0.
func (c FamilyConfig) MinVersions() (int, error) {
	return c.intAttr(AttrMinVersions, 0)
}

// TTLSeconds returns the TTL attribute in seconds, defaulting to TTLForever.
func (c FamilyConfig) TTLSeconds() (int, error) {
	return c.intAttr(AttrTTL, TTLForever)
}

func (c FamilyConfig) intAttr(key string, def int) (int, error) {
	raw, ok := c[key]
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s attribute %q", key, raw)
	}
	return n, nil
}
