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

// Package hbase is a read-only admin client for an HBase cluster, backed by
// the cluster's stock REST gateway. It exposes the three operations the
// schema translator needs: enumerating tables, fetching a table's column
// family configuration and fetching its region boundaries.
package hbase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/hbase-schema-translator/internal/schema"
)

// AdminClient talks to one HBase REST gateway. All methods are safe for
// sequential reuse; the client holds no per-call state.
type AdminClient struct {
	base   string
	hc     *http.Client
	logger *zap.Logger
}

// NewAdminClient returns a client for the REST gateway at host:port.
func NewAdminClient(host string, port int, logger *zap.Logger) *AdminClient {
	return &AdminClient{
		base:   fmt.Sprintf("http://%s:%d", host, port),
		hc:     &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// tableListModel mirrors the gateway's JSON for `GET /`.
type tableListModel struct {
	Table []struct {
		Name string `json:"name"`
	} `json:"table"`
}

// tableSchemaModel mirrors `GET /{table}/schema`. Each ColumnSchema entry is
// a flat attribute map; the "name" key holds the family name and everything
// else is family configuration.
type tableSchemaModel struct {
	Name         string              `json:"name"`
	ColumnSchema []map[string]string `json:"ColumnSchema"`
}

// tableRegionsModel mirrors `GET /{table}/regions`. Region keys are
// base64-encoded in the JSON representation.
type tableRegionsModel struct {
	Name   string `json:"name"`
	Region []struct {
		Name     string `json:"name"`
		StartKey []byte `json:"startKey"`
		EndKey   []byte `json:"endKey"`
	} `json:"Region"`
}

// ListTables returns the names of all tables known to the cluster, in the
// gateway's enumeration order. A cluster with no tables yields an empty,
// non-error result.
func (c *AdminClient) ListTables(ctx context.Context) ([]string, error) {
	var model tableListModel
	if err := c.get(ctx, "/", &model); err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	names := make([]string, 0, len(model.Table))
	for _, t := range model.Table {
		names = append(names, t.Name)
	}
	c.logger.Debug("listed tables", zap.Int("count", len(names)))
	return names, nil
}

// TableSchema returns the column family configuration of a table, keyed by
// family name.
func (c *AdminClient) TableSchema(ctx context.Context, table string) (map[string]schema.FamilyConfig, error) {
	var model tableSchemaModel
	if err := c.get(ctx, "/"+url.PathEscape(table)+"/schema", &model); err != nil {
		return nil, fmt.Errorf("fetching schema for table %q: %w", table, err)
	}
	families := make(map[string]schema.FamilyConfig, len(model.ColumnSchema))
	for _, attrs := range model.ColumnSchema {
		name := attrs["name"]
		if name == "" {
			return nil, fmt.Errorf("fetching schema for table %q: column family with no name", table)
		}
		cfg := make(schema.FamilyConfig, len(attrs))
		for k, v := range attrs {
			if k == "name" {
				continue
			}
			cfg[k] = v
		}
		families[name] = cfg
	}
	return families, nil
}

// TableRegions returns the start keys of a table's regions, in region order.
// The first region of a table starts at the beginning of the keyspace, so the
// first returned key is normally empty; callers decide what to do with it.
func (c *AdminClient) TableRegions(ctx context.Context, table string) ([][]byte, error) {
	var model tableRegionsModel
	if err := c.get(ctx, "/"+url.PathEscape(table)+"/regions", &model); err != nil {
		return nil, fmt.Errorf("fetching regions for table %q: %w", table, err)
	}
	starts := make([][]byte, 0, len(model.Region))
	for _, r := range model.Region {
		starts = append(starts, r.StartKey)
	}
	return starts, nil
}

func (c *AdminClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: %s: %s", path, resp.Status, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decoding response: %w", path, err)
	}
	return nil
}
