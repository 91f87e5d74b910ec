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

// Package translate copies table schemas from an HBase cluster to Cloud
// Bigtable through a single-pass read, transform, write pipeline. The
// schema can be read from a live cluster or an interchange file, optionally
// run through a table-rename mapping, and written to a live instance or an
// interchange file.
package translate

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/bigtable"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/GoogleCloudPlatform/hbase-schema-translator/internal/hbase"
)

const userAgent = "hbase-schema-translator"

// Options selects and configures one schema source, one destination and an
// optional rename mapping. Exactly one source (input file XOR HBase
// host/port) and one destination (output file XOR project/instance) must be
// set.
type Options struct {
	// Source: either an interchange file...
	InputFile string
	// ...or a live HBase cluster, addressed by its REST gateway.
	HBaseHost string
	HBasePort int

	// TableFilter restricts a live read to tables whose full name matches
	// this regular expression. Only valid with a live source.
	TableFilter string

	// Destination: either an interchange file...
	OutputFile string
	// ...or a live Cloud Bigtable instance.
	ProjectID  string
	InstanceID string

	// SchemaMappingFile optionally points at a JSON table-rename mapping.
	SchemaMappingFile string
}

// Validate checks the mutual constraints between options. It runs before
// any pipeline stage.
func (o *Options) Validate() error {
	if o.OutputFile != "" {
		if o.ProjectID != "" || o.InstanceID != "" {
			return errors.New("--project/--instance cannot be set when --output-file is set")
		}
	} else if o.ProjectID == "" || o.InstanceID == "" {
		return errors.New("schema destination not specified: set --output-file, or both --project and --instance")
	}

	if o.InputFile != "" {
		if o.HBaseHost != "" {
			return errors.New("--hbase-host cannot be set when --input-file is set")
		}
		if o.TableFilter != "" {
			return errors.New("--table-filter only applies when reading from an HBase cluster; filter the tables when writing the schema file instead")
		}
	} else {
		if o.HBaseHost == "" {
			return errors.New("schema source not specified: set --input-file, or --hbase-host")
		}
		if o.HBasePort <= 0 {
			return errors.New("--hbase-port must be a positive port number")
		}
	}
	return nil
}

// Translator wires one reader, one transformer and one writer, fixed at
// construction time, and drives the pipeline.
type Translator struct {
	reader      SchemaReader
	transformer SchemaTransformer
	writer      SchemaWriter
	logger      *zap.Logger

	btAdmin *bigtable.AdminClient
}

// NewTranslator validates opts and builds the stage implementations they
// select. The returned Translator owns the destination admin connection, if
// any; release it with Close.
func NewTranslator(ctx context.Context, opts Options, logger *zap.Logger) (*Translator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	t := &Translator{logger: logger}

	if opts.InputFile != "" {
		t.reader = NewFileSchemaReader(opts.InputFile)
	} else {
		admin := hbase.NewAdminClient(opts.HBaseHost, opts.HBasePort, logger)
		reader, err := NewHBaseSchemaReader(admin, opts.TableFilter, logger)
		if err != nil {
			return nil, err
		}
		t.reader = reader
	}

	if opts.SchemaMappingFile != "" {
		transformer, err := NewRenameSchemaTransformerFromFile(opts.SchemaMappingFile, logger)
		if err != nil {
			return nil, err
		}
		t.transformer = transformer
	} else {
		t.transformer = IdentitySchemaTransformer{}
	}

	if opts.OutputFile != "" {
		t.writer = NewFileSchemaWriter(opts.OutputFile)
	} else {
		admin, err := bigtable.NewAdminClient(ctx, opts.ProjectID, opts.InstanceID,
			option.WithUserAgent(userAgent))
		if err != nil {
			return nil, fmt.Errorf("connecting to Bigtable admin API: %w", err)
		}
		t.btAdmin = admin
		t.writer = NewBigtableSchemaWriter(admin, logger)
	}
	return t, nil
}

// NewTranslatorFromParts wires explicit stage implementations. Intended for
// tests and for callers that manage their own clients.
func NewTranslatorFromParts(r SchemaReader, tr SchemaTransformer, w SchemaWriter, logger *zap.Logger) *Translator {
	return &Translator{reader: r, transformer: tr, writer: w, logger: logger}
}

// Translate runs the pipeline once: read, transform, write. A reader or
// transformer failure aborts before the writer runs; there are no retries.
func (t *Translator) Translate(ctx context.Context) error {
	def, err := t.reader.ReadSchema(ctx)
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}
	t.logger.Info("read schema", zap.Int("tables", len(def.TableSchemaDefinitions)))

	transformed, err := t.transformer.Transform(def)
	if err != nil {
		return fmt.Errorf("transforming schema: %w", err)
	}
	if err := t.writer.WriteSchema(ctx, transformed); err != nil {
		return fmt.Errorf("writing schema: %w", err)
	}
	return nil
}

// Close releases the destination admin connection, if the Translator opened
// one.
func (t *Translator) Close() error {
	if t.btAdmin != nil {
		return t.btAdmin.Close()
	}
	return nil
}
