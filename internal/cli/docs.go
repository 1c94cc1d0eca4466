package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayangd/jsonapi-factory/internal/config"
	"github.com/ayangd/jsonapi-factory/internal/docs"
)

type docsOptions struct {
	schemaOptions

	format          string
	title           string
	includeExamples bool
	outputFile      string
}

func newDocsCommand() *cobra.Command {
	opts := &docsOptions{}

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate a reference for the types in a schema file",
		Long: `Generate human-readable reference documentation from a schema file.

Lists every resource type with its id kind and its attributes and
relationships in the order input objects must declare them. With
--examples, each type gets an example input object.

Supports markdown, HTML, and AsciiDoc output formats.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applySchemaConfig(cmd, config.FromContext(cmd.Context()), &opts.schemaOptions)

			return runDocs(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.schema, "schema", "s", "", "schema file declaring the resource types")
	f.StringVar(&opts.format, "format", "markdown", "output format (markdown, html, asciidoc)")
	f.StringVar(&opts.title, "title", "", "override document title")
	f.BoolVar(&opts.includeExamples, "examples", false, "include an example input object per type")
	f.StringVarP(&opts.outputFile, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func runDocs(cmd *cobra.Command, opts *docsOptions) error {
	formatter, err := docs.NewFormatter(opts.format)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	reg, version, err := loadSchema(opts.schema)
	if err != nil {
		return err
	}

	model := docs.FromRegistry(reg)
	model.Version = version
	model.Title = opts.title
	model.IncludeExamples = opts.includeExamples

	w := cmd.OutOrStdout()

	if opts.outputFile != "" {
		f, ferr := os.Create(opts.outputFile) //nolint:gosec // User-specified output file
		if ferr != nil {
			return &ExitError{Code: ExitFailure, Err: fmt.Errorf("creating output file: %w", ferr)}
		}

		defer f.Close() //nolint:errcheck

		w = f
	}

	if err := formatter.Format(w, model); err != nil {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("formatting docs: %w", err)}
	}

	return nil
}
