package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ayangd/jsonapi-factory/internal/batch"
	"github.com/ayangd/jsonapi-factory/internal/config"
	"github.com/ayangd/jsonapi-factory/internal/logging"
	"github.com/ayangd/jsonapi-factory/internal/output"
)

type normalizeOptions struct {
	schemaOptions
	encodingOptions

	output    string
	outputDir string
	workers   int
	validate  bool
}

func newNormalizeCommand() *cobra.Command {
	opts := &normalizeOptions{}

	cmd := &cobra.Command{
		Use:   "normalize <input>...",
		Short: "Normalize input objects into a JSON:API document",
		Long: `Normalize reads one or more YAML or JSON input files and writes a
JSON:API compound document for each.

An input file holds a single object, a list of objects, or null. Related
objects are nested inline; YAML anchors and aliases express shared and
cyclic references. Use "-" to read from stdin.

With several inputs, --output-dir is required and inputs are processed
concurrently (see --workers).

Exit codes:
  0  Success
  1  Error
  2  Invalid arguments or configuration
  3  Input could not be normalized
  6  Output failed validation (--validate)`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			applySchemaConfig(cmd, cfg, &opts.schemaOptions)
			applyEncodingConfig(cmd, cfg, &opts.encodingOptions)

			if !cmd.Flags().Changed("workers") {
				opts.workers = cfg.Workers
			}

			return runNormalize(cmd.Context(), cmd, args, opts)
		},
	}

	registerSchemaFlags(cmd, &opts.schemaOptions)
	registerEncodingFlags(cmd, &opts.encodingOptions)

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file path (default: stdout)")
	f.StringVar(&opts.outputDir, "output-dir", "", "write one document per input into this directory")
	f.IntVar(&opts.workers, "workers", 0, "maximum concurrent inputs (default: one per CPU)")
	f.BoolVar(&opts.validate, "validate", false, "validate each document after normalizing")

	return cmd
}

func runNormalize(ctx context.Context, cmd *cobra.Command, inputs []string, opts *normalizeOptions) error {
	logger := logging.FromContext(ctx)

	if opts.output != "" && opts.outputDir != "" {
		return &ExitError{Code: ExitUsage, Err: errors.New("--output and --output-dir are mutually exclusive")}
	}

	if len(inputs) > 1 && opts.outputDir == "" {
		return &ExitError{Code: ExitUsage, Err: errors.New("--output-dir is required with more than one input")}
	}

	if err := checkOutputPaths(inputs, opts); err != nil {
		return err
	}

	p, err := newPipeline(ctx, opts.schemaOptions)
	if err != nil {
		return err
	}

	jobs := make([]batch.Job, 0, len(inputs))

	for _, in := range inputs {
		data, err := readInput(cmd.InOrStdin(), in)
		if err != nil {
			return err
		}

		jobs = append(jobs, batch.Job{Name: in, Data: data})
	}

	results, err := batch.Run(ctx, jobs, batch.NormalizeFunc(p.decoder, p.normalizer), batch.Config{
		Workers: opts.workers,
		Logger:  logging.Component(logger, "batch"),
	})
	if err != nil {
		return normalizeError(err)
	}

	invalid := 0

	for _, res := range results {
		if opts.validate && !validateOutput(cmd.ErrOrStderr(), res, p) {
			invalid++
		}

		if err := writeResult(cmd.OutOrStdout(), res, opts, logger); err != nil {
			return err
		}
	}

	if invalid > 0 {
		return &ExitError{Code: ExitValidation, Err: fmt.Errorf("%d document(s) failed validation", invalid)}
	}

	return nil
}

func validateOutput(w io.Writer, res batch.Result, p *pipeline) bool {
	result := output.ValidateDocument(res.Document, p.registry)
	if !result.HasErrors() && !result.HasWarnings() {
		return true
	}

	_, _ = fmt.Fprintf(w, "%s:\n", res.Job.Name)
	printFindings(w, result)

	return !result.HasErrors()
}

func writeResult(stdout io.Writer, res batch.Result, opts *normalizeOptions, logger *slog.Logger) error {
	data, err := encode(res.Document, opts.encodingOptions)
	if err != nil {
		return err
	}

	path := outputPath(res.Job.Name, opts)

	w := output.NewWriter(path, stdout, output.WithLogger(logger))
	if err := w.Write(data); err != nil {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("writing output: %w", err)}
	}

	logger.Info("document written",
		slog.String("input", res.Job.Name),
		slog.String("output", path),
		slog.Int("resources", len(res.Document.Data.Resources())),
		slog.Int("included", len(res.Document.Included)),
	)

	return nil
}

// outputPath returns where the document for input is written.
func outputPath(input string, opts *normalizeOptions) string {
	if opts.outputDir == "" {
		return opts.output
	}

	return output.DerivePath(opts.outputDir, input, output.DefaultRegistry().Extension(opts.format))
}

// checkOutputPaths rejects inputs whose documents would land in the same
// file under --output-dir.
func checkOutputPaths(inputs []string, opts *normalizeOptions) error {
	if opts.outputDir == "" {
		return nil
	}

	owners := make(map[string]string, len(inputs))

	for _, in := range inputs {
		path := outputPath(in, opts)

		if prev, dup := owners[path]; dup {
			return &ExitError{Code: ExitUsage, Err: fmt.Errorf("inputs %q and %q would both be written to %s", prev, in, path)}
		}

		owners[path] = in
	}

	return nil
}
