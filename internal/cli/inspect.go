package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayangd/jsonapi-factory/internal/config"
	"github.com/ayangd/jsonapi-factory/internal/schema"
)

type inspectOptions struct {
	schemaOptions

	format string
}

func newInspectCommand() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the resource types declared in a schema file",
		Long: `Inspect loads a schema file and prints every declared type with its
id kind and its fields in the order input objects must list them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applySchemaConfig(cmd, config.FromContext(cmd.Context()), &opts.schemaOptions)

			return runInspect(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.schema, "schema", "s", "", "schema file declaring the resource types")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table, json")

	return cmd
}

// inspectResult is the structured output of the inspect command.
type inspectResult struct {
	Schema  string     `json:"schema"`
	Version string     `json:"version,omitempty"`
	Types   []typeInfo `json:"types"`
}

type typeInfo struct {
	Type          string   `json:"type"`
	ID            string   `json:"id,omitempty"`
	Attributes    []string `json:"attributes"`
	Relationships []string `json:"relationships"`
}

func runInspect(cmd *cobra.Command, opts *inspectOptions) error {
	if opts.format != "table" && opts.format != "json" {
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("unsupported format %q: must be one of table, json", opts.format)}
	}

	reg, version, err := loadSchema(opts.schema)
	if err != nil {
		return err
	}

	result := buildInspectResult(opts.schema, version, reg)
	w := cmd.OutOrStdout()

	if opts.format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(result); err != nil {
			return &ExitError{Code: ExitFailure, Err: fmt.Errorf("encoding JSON: %w", err)}
		}

		return nil
	}

	return printInspectTable(w, result)
}

func buildInspectResult(path, version string, reg *schema.Registry) inspectResult {
	result := inspectResult{Schema: path, Version: version, Types: []typeInfo{}}

	for _, d := range reg.Descriptors() {
		result.Types = append(result.Types, typeInfo{
			Type:          d.Type,
			ID:            d.ID,
			Attributes:    nonNil(d.Attributes),
			Relationships: nonNil(d.Relationships),
		})
	}

	return result
}

func printInspectTable(w io.Writer, result inspectResult) error {
	_, _ = fmt.Fprintf(w, "Schema: %s", result.Schema)

	if result.Version != "" {
		_, _ = fmt.Fprintf(w, " (version %s)", result.Version)
	}

	_, _ = fmt.Fprintf(w, "\nTypes:  %d\n\n", len(result.Types))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TYPE\tID\tATTRIBUTES\tRELATIONSHIPS")

	for _, t := range result.Types {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Type, dash(t.ID), list(t.Attributes), list(t.Relationships))
	}

	return tw.Flush()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

func list(s []string) string {
	if len(s) == 0 {
		return "-"
	}

	return strings.Join(s, ", ")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
