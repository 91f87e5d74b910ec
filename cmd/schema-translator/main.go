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

// schema-translator copies table schemas (column families, their
// configuration and region split points) from an HBase cluster to Cloud
// Bigtable, optionally through an intermediate schema file.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/hbase-schema-translator/internal/translate"
)

var cmdRoot = &cobra.Command{
	Use:   "schema-translator",
	Short: "copy table schemas from HBase to Cloud Bigtable",
	Long: `
schema-translator creates tables in Cloud Bigtable based on the tables of an
HBase cluster, reached through its REST gateway.

Copy the schema directly when both clusters are reachable:

  schema-translator --hbase-host $HBASE_HOST --hbase-port 8080 \
    --table-filter $TABLE_NAME_REGEX \
    --project $PROJECT_ID --instance $INSTANCE_ID

If no single host can reach both clusters, dump the schema to a file next to
HBase, move the file, and create the tables from it next to Google Cloud:

  schema-translator --hbase-host $HBASE_HOST --hbase-port 8080 \
    --table-filter $TABLE_NAME_REGEX --output-file schema.json

  schema-translator --input-file schema.json \
    --project $PROJECT_ID --instance $INSTANCE_ID

Tables can be renamed on the way with a JSON mapping file, for example
{"source-table": "destination-table", "ns:source-table2": "ns-destination-table2"}:

  schema-translator --input-file schema.json --schema-mapping-file mapping.json \
    --project $PROJECT_ID --instance $INSTANCE_ID
`,
	Args: cobra.NoArgs,
	RunE: runTranslate,
}

// TranslateOptions collects all options for the command.
type TranslateOptions struct {
	translate.Options
	Verbose bool
}

var translateOptions TranslateOptions

func init() {
	f := cmdRoot.Flags()
	f.StringVar(&translateOptions.HBaseHost, "hbase-host", "", "host of the source HBase REST gateway")
	f.IntVar(&translateOptions.HBasePort, "hbase-port", 8080, "port of the source HBase REST gateway")
	f.StringVar(&translateOptions.TableFilter, "table-filter", "", "regular expression selecting the tables to copy (HBase source only)")
	f.StringVar(&translateOptions.InputFile, "input-file", "", "read the schema from this `file` instead of a live cluster")
	f.StringVar(&translateOptions.OutputFile, "output-file", "", "write the schema to this `file` instead of Cloud Bigtable")
	f.StringVar(&translateOptions.ProjectID, "project", "", "Google Cloud project of the destination Bigtable instance")
	f.StringVar(&translateOptions.InstanceID, "instance", "", "destination Cloud Bigtable instance")
	f.StringVar(&translateOptions.SchemaMappingFile, "schema-mapping-file", "", "JSON `file` mapping source table names to destination table names")
	f.BoolVarP(&translateOptions.Verbose, "verbose", "v", false, "enable debug logging")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	if err := translateOptions.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(translateOptions.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	translator, err := translate.NewTranslator(ctx, translateOptions.Options, logger)
	if err != nil {
		return err
	}
	defer translator.Close()

	return translator.Translate(ctx)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}
