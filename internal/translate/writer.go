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
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/bigtable"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/hbase-schema-translator/internal/schema"
)

// SchemaWriter consumes the transformed schema definition.
type SchemaWriter interface {
	WriteSchema(ctx context.Context, def *schema.ClusterSchemaDefinition) error
}

// errNilDefinition is returned when a writer is handed no definition.
var errNilDefinition = errors.New("schema definition must not be nil")

// PartialWriteError reports the tables that could not be created on the
// destination. The remaining tables of the same run were still attempted, so
// a rerun only re-fails the tables listed here.
type PartialWriteError struct {
	FailedTables []string
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("failed to create %d table(s) in Cloud Bigtable: %s",
		len(e.FailedTables), strings.Join(e.FailedTables, ", "))
}

// FileSchemaWriter persists the definition to an interchange file.
type FileSchemaWriter struct {
	path string
}

// NewFileSchemaWriter returns a writer targeting path. An existing file is
// overwritten.
func NewFileSchemaWriter(path string) *FileSchemaWriter {
	return &FileSchemaWriter{path: path}
}

// WriteSchema serializes the definition as interchange JSON. Any failure to
// write the target path fails the whole operation.
func (w *FileSchemaWriter) WriteSchema(ctx context.Context, def *schema.ClusterSchemaDefinition) error {
	if def == nil {
		return errNilDefinition
	}
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("writing schema file: %w", err)
	}
	return nil
}

// TableCreator is the subset of the Cloud Bigtable admin surface the live
// writer needs. *bigtable.AdminClient implements it.
type TableCreator interface {
	CreateTableFromConf(ctx context.Context, conf *bigtable.TableConf) error
}

// BigtableSchemaWriter creates the definition's tables on a destination
// Cloud Bigtable instance.
type BigtableSchemaWriter struct {
	admin  TableCreator
	logger *zap.Logger
}

// NewBigtableSchemaWriter returns a live writer backed by admin.
func NewBigtableSchemaWriter(admin TableCreator, logger *zap.Logger) *BigtableSchemaWriter {
	return &BigtableSchemaWriter{admin: admin, logger: logger}
}

// WriteSchema creates every table in definition order, strictly one at a
// time. A single table's failure ("already exists" included) is logged and
// recorded, and the loop moves on; skipping per-table failures keeps reruns
// harmless for the tables that were created earlier. If any table failed,
// the whole operation fails with a *PartialWriteError naming each one.
func (w *BigtableSchemaWriter) WriteSchema(ctx context.Context, def *schema.ClusterSchemaDefinition) error {
	if def == nil {
		return errNilDefinition
	}
	var failed []string
	for _, table := range def.TableSchemaDefinitions {
		if err := w.createTable(ctx, table); err != nil {
			failed = append(failed, table.Name)
			w.logger.Error("failed to create table",
				zap.String("table", table.Name), zap.Error(err))
			continue
		}
		w.logger.Info("created table in Bigtable", zap.String("table", table.Name))
	}
	if len(failed) > 0 {
		return &PartialWriteError{FailedTables: failed}
	}
	return nil
}

func (w *BigtableSchemaWriter) createTable(ctx context.Context, table *schema.TableSchemaDefinition) error {
	families := make(map[string]bigtable.Family, len(table.ColumnFamilies))
	for name, cfg := range table.ColumnFamilies {
		policy, err := gcPolicy(cfg)
		if err != nil {
			return fmt.Errorf("column family %q: %w", name, err)
		}
		families[name] = bigtable.Family{GCPolicy: policy}
	}
	splits := make([]string, 0, len(table.Splits))
	for _, s := range table.Splits {
		splits = append(splits, string(s))
	}
	return w.admin.CreateTableFromConf(ctx, &bigtable.TableConf{
		TableID:        table.Name,
		SplitKeys:      splits,
		ColumnFamilies: families,
	})
}
