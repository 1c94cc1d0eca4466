package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"

	"github.com/ayangd/jsonapi-factory/internal/document"
)

// Format names understood by the default registry.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Options configures document encoding.
type Options struct {
	// Format selects the encoder (default: json).
	Format string
	// Compact emits single-line JSON. Ignored for YAML.
	Compact bool
	// Indent is the number of spaces per indentation level (default: 2).
	Indent int
}

// DefaultOptions returns indented JSON with two-space indentation.
func DefaultOptions() Options {
	return Options{
		Format: FormatJSON,
		Indent: 2,
	}
}

func (o Options) withDefaults() Options {
	if o.Format == "" {
		o.Format = FormatJSON
	}

	if o.Indent <= 0 {
		o.Indent = 2
	}

	return o
}

// Encode encodes doc with the encoder registered for opts.Format in the
// default registry. The output always ends with a newline.
func Encode(doc *document.Document, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	enc, err := DefaultRegistry().Encoder(opts.Format)
	if err != nil {
		return nil, err
	}

	return enc(doc, opts)
}

// EncodeJSON encodes doc as JSON, indented unless opts.Compact is set.
func EncodeJSON(doc *document.Document, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}

	if opts.Compact {
		return ensureNewline(raw), nil
	}

	out := pretty.PrettyOptions(raw, &pretty.Options{
		Width:  80,
		Indent: strings.Repeat(" ", opts.Indent),
	})

	return ensureNewline(out), nil
}

// EncodeYAML encodes doc as block-style YAML. Member order matches the
// JSON encoding.
func EncodeYAML(doc *document.Document, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}

	// JSON is YAML: decoding into a node keeps key order.
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("converting to YAML: %w", err)
	}

	blockStyle(&node)

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(opts.Indent)

	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}

	return ensureNewline(buf.Bytes()), nil
}

// blockStyle clears the flow and quoting styles inherited from JSON syntax.
// The encoder re-quotes strings that would otherwise read back as another
// type.
func blockStyle(n *yaml.Node) {
	n.Style = 0

	for _, c := range n.Content {
		blockStyle(c)
	}
}

func ensureNewline(b []byte) []byte {
	if len(b) == 0 || b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}

	return b
}
