package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayangd/jsonapi-factory/internal/config"
	"github.com/ayangd/jsonapi-factory/internal/output"
	"github.com/ayangd/jsonapi-factory/internal/schema"
)

type validateOptions struct {
	schemaOptions

	strict bool
}

func newValidateCommand() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Validate a JSON:API document",
		Long: `Validate checks an existing JSON:API document (JSON or YAML).

Every resource must carry a type and id, appear at most once, and be
reachable from the primary data; every linkage must point at a resource
in the document. With --schema, each resource is also checked against
its type's declared attributes and relationships.

Returns exit code 6 on validation failure (or on warnings with --strict).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applySchemaConfig(cmd, config.FromContext(cmd.Context()), &opts.schemaOptions)

			return runValidate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.schema, "schema", "s", "", "schema file to check resources against")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on warnings in addition to errors")

	return cmd
}

func runValidate(cmd *cobra.Command, path string, opts *validateOptions) error {
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	var reg *schema.Registry

	if opts.schema != "" {
		reg, _, err = loadSchema(opts.schema)
		if err != nil {
			return err
		}
	}

	result := output.ValidateDocument(doc, reg)

	printFindings(cmd.ErrOrStderr(), result)

	if result.HasErrors() {
		return &ExitError{Code: ExitValidation, Err: fmt.Errorf("validation failed with %d error(s)", len(result.Errors()))}
	}

	if opts.strict && result.HasWarnings() {
		return &ExitError{Code: ExitValidation, Err: fmt.Errorf("validation failed with %d warning(s) (strict mode)", len(result.Warnings()))}
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Validation passed.")

	return nil
}
