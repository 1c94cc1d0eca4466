package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ayangd/jsonapi-factory/internal/decode"
	"github.com/ayangd/jsonapi-factory/internal/document"
	"github.com/ayangd/jsonapi-factory/internal/logging"
	"github.com/ayangd/jsonapi-factory/internal/normalize"
	"github.com/ayangd/jsonapi-factory/internal/output"
	"github.com/ayangd/jsonapi-factory/internal/schema"
)

// pipeline bundles everything needed to turn input bytes into a document.
type pipeline struct {
	schemaPath string
	version    string
	registry   *schema.Registry
	decoder    *decode.Decoder
	normalizer *normalize.Normalizer
}

// loadSchema reads a schema file and builds its registry. It also returns
// the file's declared version.
func loadSchema(path string) (*schema.Registry, string, error) {
	if path == "" {
		return nil, "", &ExitError{Code: ExitUsage, Err: errors.New("--schema (-s) is required: no schema given by flag, env, or config file")}
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-specified schema file
	if err != nil {
		return nil, "", &ExitError{Code: ExitFailure, Err: fmt.Errorf("reading schema file: %w", err)}
	}

	f, err := schema.ParseFile(data)
	if err != nil {
		return nil, "", &ExitError{Code: ExitUsage, Err: fmt.Errorf("loading schema %s: %w", path, err)}
	}

	reg, err := schema.NewRegistry(f.Types)
	if err != nil {
		return nil, "", &ExitError{Code: ExitUsage, Err: fmt.Errorf("loading schema %s: %w", path, err)}
	}

	return reg, f.Version, nil
}

// newPipeline loads the schema and wires a decoder and normalizer to it.
func newPipeline(ctx context.Context, opts schemaOptions) (*pipeline, error) {
	logger := logging.FromContext(ctx)

	order, err := normalize.ParseFieldOrder(opts.fieldOrder)
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Err: err}
	}

	reg, version, err := loadSchema(opts.schema)
	if err != nil {
		return nil, err
	}

	logger.Debug("schema loaded",
		slog.String("path", opts.schema),
		slog.String("version", version),
		slog.Int("types", reg.Len()),
		slog.String("fieldOrder", order.String()),
	)

	return &pipeline{
		schemaPath: opts.schema,
		version:    version,
		registry:   reg,
		decoder:    decode.New(reg),
		normalizer: normalize.New(reg,
			normalize.WithFieldOrder(order),
			normalize.WithLogger(logging.Component(logger, "normalize")),
		),
	}, nil
}

// run decodes and normalizes one input.
func (p *pipeline) run(data []byte) (*document.Document, error) {
	input, err := p.decoder.Decode(data)
	if err != nil {
		return nil, err
	}

	return p.normalizer.Normalize(input)
}

// readInput reads a file, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, &ExitError{Code: ExitFailure, Err: fmt.Errorf("reading stdin: %w", err)}
		}

		return data, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-specified input file
	if err != nil {
		return nil, &ExitError{Code: ExitFailure, Err: fmt.Errorf("reading input: %w", err)}
	}

	return data, nil
}

// normalizeError maps an error from decoding or normalization to its exit code.
func normalizeError(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	switch {
	case errors.Is(err, normalize.ErrNotSerializable),
		errors.Is(err, normalize.ErrUnknownType),
		errors.Is(err, normalize.ErrFieldMismatch),
		errors.Is(err, decode.ErrInvalidInput):
		return &ExitError{Code: ExitNormalize, Err: err}
	default:
		return &ExitError{Code: ExitFailure, Err: err}
	}
}

// loadDocument parses an existing JSON:API document file.
func loadDocument(path string) (*document.Document, error) {
	doc, err := document.ParseFile(path)
	if err != nil {
		code := ExitFailure
		if errors.Is(err, document.ErrMalformed) {
			code = ExitValidation
		}

		return nil, &ExitError{Code: code, Err: err}
	}

	return doc, nil
}

// encode renders doc with the encoding flags.
func encode(doc *document.Document, opts encodingOptions) ([]byte, error) {
	data, err := output.Encode(doc, output.Options{
		Format:  opts.format,
		Compact: opts.compact,
		Indent:  opts.indent,
	})
	if err != nil {
		return nil, &ExitError{Code: ExitFailure, Err: fmt.Errorf("encoding document: %w", err)}
	}

	return data, nil
}

// printFindings writes validation findings, errors first.
func printFindings(w io.Writer, result *output.ValidationResult) {
	for _, f := range result.Errors() {
		_, _ = fmt.Fprintf(w, "  ERROR   %s: %s\n", f.Field, f.Message)
	}

	for _, f := range result.Warnings() {
		_, _ = fmt.Fprintf(w, "  WARNING %s: %s\n", f.Field, f.Message)
	}

	_, _ = fmt.Fprintf(w, "%d error(s), %d warning(s)\n", len(result.Errors()), len(result.Warnings()))
}
