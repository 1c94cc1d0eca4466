package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayangd/jsonapi-factory/internal/config"
	"github.com/ayangd/jsonapi-factory/internal/logging"
	"github.com/ayangd/jsonapi-factory/internal/output"
	"github.com/ayangd/jsonapi-factory/internal/schema"
	"github.com/ayangd/jsonapi-factory/internal/watch"
)

type watchOptions struct {
	schemaOptions
	encodingOptions

	output   string
	debounce time.Duration
	validate bool
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <input>",
		Short: "Re-normalize an input whenever it or the schema changes",
		Long: `Watch monitors an input file and its schema file and re-runs
normalization when either changes.

File changes are debounced to avoid rapid re-runs. Each run reports the
number of primary and included resources, and any types or fields that
changed in the schema since the previous run. Errors are reported and
the watcher keeps running.

Use --validate (enabled by default) to validate the written document
after each run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			applySchemaConfig(cmd, cfg, &opts.schemaOptions)
			applyEncodingConfig(cmd, cfg, &opts.encodingOptions)

			return runWatch(cmd.Context(), cmd, args[0], opts)
		},
	}

	registerSchemaFlags(cmd, &opts.schemaOptions)
	registerEncodingFlags(cmd, &opts.encodingOptions)

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file path (required)")
	f.DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "debounce interval for file changes")
	f.BoolVar(&opts.validate, "validate", true, "validate the document after each run")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, input string, opts *watchOptions) error {
	if opts.output == "" {
		return &ExitError{Code: ExitUsage, Err: errors.New("--output (-o) is required for watch mode")}
	}

	if opts.schema == "" {
		return &ExitError{Code: ExitUsage, Err: errors.New("--schema (-s) is required for watch mode")}
	}

	if input == "-" {
		return &ExitError{Code: ExitUsage, Err: errors.New("watch mode cannot read from stdin")}
	}

	logger := logging.FromContext(ctx)

	// Registry from the previous successful run, for schema change reports.
	var prev *schema.Registry

	runFn := func(_ context.Context) (*watch.RunResult, error) {
		p, err := newPipeline(ctx, opts.schemaOptions)
		if err != nil {
			return nil, err
		}

		var changes []schema.Change
		if prev != nil {
			changes = schema.Diff(prev, p.registry)
		}

		prev = p.registry

		data, err := readInput(cmd.InOrStdin(), input)
		if err != nil {
			return nil, err
		}

		doc, err := p.run(data)
		if err != nil {
			return nil, err
		}

		encoded, err := encode(doc, opts.encodingOptions)
		if err != nil {
			return nil, err
		}

		w := output.NewFileWriter(opts.output, output.WithLogger(logger))
		if err := w.Write(encoded); err != nil {
			return nil, fmt.Errorf("writing output: %w", err)
		}

		return &watch.RunResult{
			Resources:     len(doc.Data.Resources()),
			Included:      len(doc.Included),
			Types:         p.registry.Len(),
			SchemaChanges: changes,
			OutputPath:    opts.output,
		}, nil
	}

	var validateFn watch.ValidateFunc
	if opts.validate {
		validateFn = func(_ context.Context, path string) error {
			return validateFile(path, prev)
		}
	}

	return watch.Run(ctx, watch.Options{
		Files:      []string{opts.schema, input},
		Debounce:   opts.debounce,
		Validate:   opts.validate,
		ValidateFn: validateFn,
		Logger:     logging.Component(logger, "watch"),
		Out:        cmd.ErrOrStderr(),
	}, runFn)
}

// validateFile re-reads a written document and validates it against reg.
func validateFile(path string, reg *schema.Registry) error {
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	result := output.ValidateDocument(doc, reg)
	if result.HasErrors() {
		return fmt.Errorf("%d error(s), first: %s", len(result.Errors()), result.Errors()[0].Error())
	}

	return nil
}
