package cli

import (
	"github.com/spf13/cobra"

	"github.com/ayangd/jsonapi-factory/internal/config"
)

// schemaOptions selects the type registry and how strictly it is applied.
type schemaOptions struct {
	schema     string
	fieldOrder string
}

// encodingOptions controls how documents are written.
type encodingOptions struct {
	format  string
	compact bool
	indent  int
}

// registerSchemaFlags adds --schema and --field-order to a command.
func registerSchemaFlags(cmd *cobra.Command, opts *schemaOptions) {
	f := cmd.Flags()
	f.StringVarP(&opts.schema, "schema", "s", "", "schema file declaring the resource types")
	f.StringVar(&opts.fieldOrder, "field-order", config.FieldOrderStrict, "field order checking: strict, relaxed")
}

// registerEncodingFlags adds the document output flags to a command.
func registerEncodingFlags(cmd *cobra.Command, opts *encodingOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.format, "format", config.OutputFormatJSON, "output format: json, yaml")
	f.BoolVar(&opts.compact, "compact", false, "emit single-line JSON")
	f.IntVar(&opts.indent, "indent", 2, "spaces per indentation level")
}

// applySchemaConfig fills flags the user did not set from the loaded config.
func applySchemaConfig(cmd *cobra.Command, cfg *config.Config, opts *schemaOptions) {
	f := cmd.Flags()

	if !f.Changed("schema") {
		opts.schema = cfg.Schema
	}

	if f.Lookup("field-order") != nil && !f.Changed("field-order") {
		opts.fieldOrder = cfg.FieldOrder
	}
}

// applyEncodingConfig fills flags the user did not set from the loaded config.
func applyEncodingConfig(cmd *cobra.Command, cfg *config.Config, opts *encodingOptions) {
	f := cmd.Flags()

	if !f.Changed("format") {
		opts.format = cfg.Format
	}

	if !f.Changed("indent") {
		opts.indent = cfg.Indent
	}
}
