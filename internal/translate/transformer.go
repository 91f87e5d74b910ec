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
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/hbase-schema-translator/internal/schema"
)

// SchemaTransformer rewrites a schema definition between reading and
// writing. Implementations never mutate their input.
type SchemaTransformer interface {
	Transform(def *schema.ClusterSchemaDefinition) (*schema.ClusterSchemaDefinition, error)
}

// IdentitySchemaTransformer passes the definition through unchanged.
type IdentitySchemaTransformer struct{}

// Transform returns def as-is.
func (IdentitySchemaTransformer) Transform(def *schema.ClusterSchemaDefinition) (*schema.ClusterSchemaDefinition, error) {
	return def, nil
}

// RenameSchemaTransformer renames tables according to a mapping from source
// table name to destination table name. Tables without a mapping entry pass
// through unchanged; unmapped names are not an error.
type RenameSchemaTransformer struct {
	mappings map[string]string
	logger   *zap.Logger
}

// NewRenameSchemaTransformer returns a transformer for the given mapping.
func NewRenameSchemaTransformer(mappings map[string]string, logger *zap.Logger) *RenameSchemaTransformer {
	return &RenameSchemaTransformer{mappings: mappings, logger: logger}
}

// NewRenameSchemaTransformerFromFile loads the mapping from a JSON file
// holding a flat object of old name to new name, for example
// {"source-table": "destination-table"}. It fails if the file is missing,
// unreadable or does not decode to a non-null string-to-string mapping.
func NewRenameSchemaTransformerFromFile(path string, logger *zap.Logger) (*RenameSchemaTransformer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema mapping file: %w", err)
	}
	var mappings map[string]string
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("decoding schema mapping file %s: %w", path, err)
	}
	if mappings == nil {
		return nil, fmt.Errorf("schema mapping file %s does not contain a table name mapping", path)
	}
	logger.Info("loaded schema mapping", zap.Int("entries", len(mappings)))
	return NewRenameSchemaTransformer(mappings, logger), nil
}

// Transform builds a new definition with mapped names substituted. Column
// families and splits are shared with the input, which the pipeline never
// mutates. Output order equals input order.
func (t *RenameSchemaTransformer) Transform(def *schema.ClusterSchemaDefinition) (*schema.ClusterSchemaDefinition, error) {
	out := &schema.ClusterSchemaDefinition{}
	for _, table := range def.TableSchemaDefinitions {
		renamed := table
		if newName, ok := t.mappings[table.Name]; ok {
			clone := *table
			clone.Name = newName
			renamed = &clone
			t.logger.Info("renaming table",
				zap.String("from", table.Name), zap.String("to", newName))
		}
		if err := out.AddTable(renamed); err != nil {
			// Two source tables mapped to the same destination name.
			return nil, fmt.Errorf("applying schema mapping: %w", err)
		}
	}
	return out, nil
}
