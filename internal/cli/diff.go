package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayangd/jsonapi-factory/internal/config"
	"github.com/ayangd/jsonapi-factory/internal/diff"
)

type diffOptions struct {
	schemaOptions
	encodingOptions

	// Existing document to diff against.
	existing string

	// Report format: "unified" (default) or "json".
	report string

	// Exit with code 1 when the documents differ.
	exitCode bool
}

func newDiffCommand() *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <input>",
		Short: "Compare a normalized input against an existing document",
		Long: `Diff normalizes an input file and compares the result with an existing
JSON:API document.

The unified report shows a line diff of both documents encoded the same
way, followed by a per-resource summary: resources added, removed,
modified, or moved between data and included. The json report prints the
per-resource summary only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			applySchemaConfig(cmd, cfg, &opts.schemaOptions)
			applyEncodingConfig(cmd, cfg, &opts.encodingOptions)

			return runDiff(cmd.Context(), cmd, args[0], opts, !cfg.NoColor)
		},
	}

	registerSchemaFlags(cmd, &opts.schemaOptions)
	registerEncodingFlags(cmd, &opts.encodingOptions)

	f := cmd.Flags()
	f.StringVar(&opts.existing, "existing", "", "path to the existing document to diff against")
	f.StringVar(&opts.report, "report", "unified", "report format: unified, json")
	f.BoolVar(&opts.exitCode, "exit-code", false, "exit with code 1 when differences are found")

	return cmd
}

func runDiff(ctx context.Context, cmd *cobra.Command, input string, opts *diffOptions, color bool) error {
	if opts.existing == "" {
		return &ExitError{Code: ExitUsage, Err: errors.New("--existing flag is required: specify the path to the existing document")}
	}

	if opts.report != "unified" && opts.report != "json" {
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("unsupported report format %q: must be one of unified, json", opts.report)}
	}

	existing, err := loadDocument(opts.existing)
	if err != nil {
		return err
	}

	p, err := newPipeline(ctx, opts.schemaOptions)
	if err != nil {
		return err
	}

	data, err := readInput(cmd.InOrStdin(), input)
	if err != nil {
		return err
	}

	proposed, err := p.run(data)
	if err != nil {
		return normalizeError(err)
	}

	changes, err := diff.CompareResources(existing, proposed)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("comparing resources: %w", err)}
	}

	w := cmd.OutOrStdout()
	differs := len(changes) > 0

	switch opts.report {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if changes == nil {
			changes = []diff.ResourceChange{}
		}

		if err := enc.Encode(changes); err != nil {
			return &ExitError{Code: ExitFailure, Err: fmt.Errorf("encoding JSON: %w", err)}
		}
	default:
		existingOut, err := encode(existing, opts.encodingOptions)
		if err != nil {
			return err
		}

		proposedOut, err := encode(proposed, opts.encodingOptions)
		if err != nil {
			return err
		}

		diffOpts := diff.DefaultOptions()
		diffOpts.OldLabel = opts.existing
		diffOpts.NewLabel = input

		result, err := diff.Compute(string(existingOut), string(proposedOut), diffOpts)
		if err != nil {
			return &ExitError{Code: ExitFailure, Err: fmt.Errorf("computing diff: %w", err)}
		}

		diff.Write(w, result, color)
		differs = differs || result.HasDifferences

		if len(changes) > 0 {
			_, _ = fmt.Fprintln(w)

			for _, c := range changes {
				_, _ = fmt.Fprintln(w, c.String())
			}
		}
	}

	if opts.exitCode && differs {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("documents differ (%d resource change(s))", len(changes))}
	}

	return nil
}
