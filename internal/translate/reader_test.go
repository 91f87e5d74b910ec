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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/GoogleCloudPlatform/hbase-schema-translator/internal/schema"
)

// fakeSourceAdmin serves canned tables in a fixed enumeration order.
type fakeSourceAdmin struct {
	order    []string
	families map[string]map[string]schema.FamilyConfig
	regions  map[string][][]byte
	listErr  error
}

func (f *fakeSourceAdmin) ListTables(ctx context.Context) ([]string, error) {
	return f.order, f.listErr
}

func (f *fakeSourceAdmin) TableSchema(ctx context.Context, table string) (map[string]schema.FamilyConfig, error) {
	fams, ok := f.families[table]
	if !ok {
		return nil, errors.New("no such table: " + table)
	}
	return fams, nil
}

func (f *fakeSourceAdmin) TableRegions(ctx context.Context, table string) ([][]byte, error) {
	return f.regions[table], nil
}

func TestHBaseReaderDropsKeyspaceStartSplit(t *testing.T) {
	admin := &fakeSourceAdmin{
		order:    []string{"t1"},
		families: map[string]map[string]schema.FamilyConfig{"t1": {"cf1": {}}},
		regions: map[string][][]byte{
			"t1": {{}, []byte("g"), []byte("q")},
		},
	}
	r, err := NewHBaseSchemaReader(admin, "", zaptest.NewLogger(t))
	require.NoError(t, err)

	def, err := r.ReadSchema(context.Background())
	require.NoError(t, err)
	require.Len(t, def.TableSchemaDefinitions, 1)
	require.Equal(t, [][]byte{[]byte("g"), []byte("q")}, def.TableSchemaDefinitions[0].Splits)
}

func TestHBaseReaderPreservesEnumerationOrder(t *testing.T) {
	admin := &fakeSourceAdmin{
		order: []string{"zeta", "alpha", "mid"},
		families: map[string]map[string]schema.FamilyConfig{
			"zeta": {"cf": {}}, "alpha": {"cf": {}}, "mid": {"cf": {}},
		},
	}
	r, err := NewHBaseSchemaReader(admin, "", zaptest.NewLogger(t))
	require.NoError(t, err)

	def, err := r.ReadSchema(context.Background())
	require.NoError(t, err)

	var names []string
	for _, table := range def.TableSchemaDefinitions {
		names = append(names, table.Name)
	}
	require.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestHBaseReaderTableFilter(t *testing.T) {
	admin := &fakeSourceAdmin{
		order: []string{"foo1", "barfoo2", "foo2", "other"},
		families: map[string]map[string]schema.FamilyConfig{
			"foo1": {"cf": {}}, "barfoo2": {"cf": {}}, "foo2": {"cf": {}}, "other": {"cf": {}},
		},
	}
	r, err := NewHBaseSchemaReader(admin, "foo.*", zaptest.NewLogger(t))
	require.NoError(t, err)

	def, err := r.ReadSchema(context.Background())
	require.NoError(t, err)

	var names []string
	for _, table := range def.TableSchemaDefinitions {
		names = append(names, table.Name)
	}
	// The filter matches whole names, so "barfoo2" stays out.
	require.Equal(t, []string{"foo1", "foo2"}, names)
}

func TestHBaseReaderNoMatchingTables(t *testing.T) {
	admin := &fakeSourceAdmin{order: []string{"a", "b"},
		families: map[string]map[string]schema.FamilyConfig{"a": {}, "b": {}}}
	r, err := NewHBaseSchemaReader(admin, "nomatch.*", zaptest.NewLogger(t))
	require.NoError(t, err)

	def, err := r.ReadSchema(context.Background())
	require.NoError(t, err)
	require.Empty(t, def.TableSchemaDefinitions)
}

func TestHBaseReaderInvalidFilter(t *testing.T) {
	_, err := NewHBaseSchemaReader(&fakeSourceAdmin{}, "(", zaptest.NewLogger(t))
	require.Error(t, err)
}

func TestHBaseReaderListError(t *testing.T) {
	admin := &fakeSourceAdmin{listErr: errors.New("connection refused")}
	r, err := NewHBaseSchemaReader(admin, "", zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = r.ReadSchema(context.Background())
	require.Error(t, err)
}

func TestFileReaderMissingFile(t *testing.T) {
	r := NewFileSchemaReader(filepath.Join(t.TempDir(), "absent.json"))
	_, err := r.ReadSchema(context.Background())
	require.Error(t, err)
}

func TestFileReaderMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	r := NewFileSchemaReader(path)
	_, err := r.ReadSchema(context.Background())
	require.Error(t, err)
}

func TestFileReaderReadsInterchangeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	content := `{
		"tableSchemaDefinitions": [
			{"name": "t1", "columnFamilies": {"cf1": {"TTL": "60"}}, "splits": ["YQ==", "bQ=="]}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	def, err := NewFileSchemaReader(path).ReadSchema(context.Background())
	require.NoError(t, err)
	require.Len(t, def.TableSchemaDefinitions, 1)

	table := def.TableSchemaDefinitions[0]
	require.Equal(t, "t1", table.Name)
	require.Equal(t, schema.FamilyConfig{"TTL": "60"}, table.ColumnFamilies["cf1"])
	require.Equal(t, [][]byte{[]byte("a"), []byte("m")}, table.Splits)
}
