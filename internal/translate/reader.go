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
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/hbase-schema-translator/internal/schema"
)

// SchemaReader produces the schema definition the pipeline operates on.
type SchemaReader interface {
	ReadSchema(ctx context.Context) (*schema.ClusterSchemaDefinition, error)
}

// FileSchemaReader reads a previously written interchange file.
type FileSchemaReader struct {
	path string
}

// NewFileSchemaReader returns a reader for the interchange file at path.
func NewFileSchemaReader(path string) *FileSchemaReader {
	return &FileSchemaReader{path: path}
}

// ReadSchema decodes the interchange file. It fails if the file is missing,
// unreadable or not valid interchange JSON.
func (r *FileSchemaReader) ReadSchema(ctx context.Context) (*schema.ClusterSchemaDefinition, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	var def schema.ClusterSchemaDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("decoding schema file %s: %w", r.path, err)
	}
	return &def, nil
}

// SourceAdmin is the subset of the HBase admin surface the live reader needs.
// *hbase.AdminClient implements it.
type SourceAdmin interface {
	ListTables(ctx context.Context) ([]string, error)
	TableSchema(ctx context.Context, table string) (map[string]schema.FamilyConfig, error)
	TableRegions(ctx context.Context, table string) ([][]byte, error)
}

// HBaseSchemaReader reads the schema live from a source cluster.
type HBaseSchemaReader struct {
	admin  SourceAdmin
	filter *regexp.Regexp
	logger *zap.Logger
}

// NewHBaseSchemaReader returns a live reader that copies the tables whose
// full name matches tableFilter. An empty filter matches every table.
func NewHBaseSchemaReader(admin SourceAdmin, tableFilter string, logger *zap.Logger) (*HBaseSchemaReader, error) {
	if tableFilter == "" {
		tableFilter = ".*"
	}
	// Anchored, so the filter must match the whole table name, like the
	// HBase admin API's listTables(regex).
	filter, err := regexp.Compile(`\A(?:` + tableFilter + `)\z`)
	if err != nil {
		return nil, fmt.Errorf("invalid table filter %q: %w", tableFilter, err)
	}
	return &HBaseSchemaReader{admin: admin, filter: filter, logger: logger}, nil
}

// ReadSchema enumerates the matching tables and fetches each table's column
// families and region boundaries, preserving the cluster's enumeration
// order. A cluster with no matching tables yields an empty definition.
func (r *HBaseSchemaReader) ReadSchema(ctx context.Context) (*schema.ClusterSchemaDefinition, error) {
	r.logger.Info("reading schema from HBase")
	names, err := r.admin.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	def := &schema.ClusterSchemaDefinition{}
	for _, name := range names {
		if !r.filter.MatchString(name) {
			continue
		}
		r.logger.Debug("found table in HBase", zap.String("table", name))

		families, err := r.admin.TableSchema(ctx, name)
		if err != nil {
			return nil, err
		}
		splits, err := r.readSplits(ctx, name)
		if err != nil {
			return nil, err
		}
		if err := def.AddTable(&schema.TableSchemaDefinition{
			Name:           name,
			ColumnFamilies: families,
			Splits:         splits,
		}); err != nil {
			return nil, err
		}
	}
	return def, nil
}

func (r *HBaseSchemaReader) readSplits(ctx context.Context, table string) ([][]byte, error) {
	starts, err := r.admin.TableRegions(ctx, table)
	if err != nil {
		return nil, err
	}
	var splits [][]byte
	for _, key := range starts {
		// The first region starts at the beginning of the keyspace;
		// the destination does not accept an empty row as a split.
		if len(key) == 0 {
			continue
		}
		splits = append(splits, key)
	}
	r.logger.Debug("found splits", zap.String("table", table), zap.Int("count", len(splits)))
	return splits, nil
}
