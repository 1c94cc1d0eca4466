// Package jsonapi provides a public Go API for normalizing nested object
// graphs into JSON:API compound documents.
//
// Basic usage:
//
//	s, err := jsonapi.NewSerializer([]jsonapi.TypeDescriptor{
//	    {Type: "person", Attributes: []string{"name"}},
//	    {Type: "book", Attributes: []string{"title"}, Relationships: []string{"author"}},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	author := jsonapi.NewObject("person", 7, jsonapi.Attr("name", "Frank"))
//	book := jsonapi.NewObject("book", 1, jsonapi.Attr("title", "Dune"), jsonapi.HasOne("author", author))
//
//	out, err := s.SerializeJSON(book)
//
// With options:
//
//	s, err := jsonapi.NewSerializer(types,
//	    jsonapi.WithRelaxedFieldOrder(),
//	    jsonapi.WithLogger(logger),
//	)
package jsonapi

import (
	"fmt"
	"log/slog"

	"github.com/ayangd/jsonapi-factory/internal/decode"
	"github.com/ayangd/jsonapi-factory/internal/document"
	"github.com/ayangd/jsonapi-factory/internal/logging"
	"github.com/ayangd/jsonapi-factory/internal/normalize"
	"github.com/ayangd/jsonapi-factory/internal/output"
	"github.com/ayangd/jsonapi-factory/internal/schema"
)

// Input graph types.
type (
	Object = normalize.Object
	Field  = normalize.Field
	Value  = normalize.Value
	Scalar = normalize.Scalar
	Many   = normalize.Many
)

// Output document types.
type (
	Document     = document.Document
	Resource     = document.Resource
	Relationship = document.Relationship
	Identifier   = document.Identifier
)

// TypeDescriptor declares the expected shape of one object type.
type TypeDescriptor = schema.TypeDescriptor

// Error types returned by NewSerializer and Serialize.
type (
	DuplicateTypeError     = schema.DuplicateTypeError
	InvalidDescriptorError = schema.InvalidDescriptorError
	NotSerializableError   = normalize.NotSerializableError
	UnknownTypeError       = normalize.UnknownTypeError
	FieldMismatchError     = normalize.FieldMismatchError
)

// Sentinels for errors.Is.
var (
	ErrDuplicateType     = schema.ErrDuplicateType
	ErrInvalidDescriptor = schema.ErrInvalidDescriptor
	ErrNotSerializable   = normalize.ErrNotSerializable
	ErrUnknownType       = normalize.ErrUnknownType
	ErrFieldMismatch     = normalize.ErrFieldMismatch
	ErrInvalidInput      = decode.ErrInvalidInput
)

// NewObject returns an object with the given identity and fields.
func NewObject(typ string, id any, fields ...Field) *Object {
	return normalize.NewObject(typ, id, fields...)
}

// Attr returns an attribute field.
func Attr(name string, v any) Field { return normalize.Attr(name, v) }

// HasOne returns a to-one relationship field. A nil target encodes as null.
func HasOne(name string, target *Object) Field { return normalize.HasOne(name, target) }

// HasMany returns a to-many relationship field.
func HasMany(name string, targets ...*Object) Field { return normalize.HasMany(name, targets...) }

// Option configures a Serializer.
// Use the With* functions to create Options.
type Option func(*options)

type options struct {
	relaxed bool
	compact bool
	indent  int
	logger  *slog.Logger
}

// WithRelaxedFieldOrder accepts fields in any order as long as the name
// sets match.
func WithRelaxedFieldOrder() Option { return func(o *options) { o.relaxed = true } }

// WithCompactJSON makes SerializeJSON emit single-line JSON.
func WithCompactJSON() Option { return func(o *options) { o.compact = true } }

// WithIndent sets the indentation width used by SerializeJSON and
// SerializeYAML (default: 2).
func WithIndent(n int) Option { return func(o *options) { o.indent = n } }

// WithLogger sets the logger for debug output. Default: discard.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// Serializer normalizes object graphs against a fixed set of types. It is
// safe for concurrent use.
type Serializer struct {
	registry   *schema.Registry
	decoder    *decode.Decoder
	normalizer *normalize.Normalizer
	encoding   output.Options
}

// NewSerializer validates the descriptors and returns a Serializer for them.
func NewSerializer(types []TypeDescriptor, opts ...Option) (*Serializer, error) {
	reg, err := schema.NewRegistry(types)
	if err != nil {
		return nil, err
	}

	return newSerializer(reg, opts), nil
}

// LoadSchema reads a YAML or JSON schema file and returns a Serializer for
// the types it declares.
func LoadSchema(path string, opts ...Option) (*Serializer, error) {
	reg, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}

	return newSerializer(reg, opts), nil
}

func newSerializer(reg *schema.Registry, opts []Option) *Serializer {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = logging.Discard()
	}

	order := normalize.FieldOrderStrict
	if o.relaxed {
		order = normalize.FieldOrderRelaxed
	}

	enc := output.DefaultOptions()
	enc.Compact = o.compact

	if o.indent > 0 {
		enc.Indent = o.indent
	}

	return &Serializer{
		registry: reg,
		decoder:  decode.New(reg),
		normalizer: normalize.New(reg,
			normalize.WithFieldOrder(order),
			normalize.WithLogger(o.logger),
		),
		encoding: enc,
	}
}

// Types returns the registered type names in declaration order.
func (s *Serializer) Types() []string { return s.registry.Types() }

// Serialize normalizes nil, a single *Object, or a []*Object into a
// document.
func (s *Serializer) Serialize(input any) (*Document, error) {
	return s.normalizer.Normalize(input)
}

// SerializeJSON normalizes input and encodes the result as JSON.
func (s *Serializer) SerializeJSON(input any) ([]byte, error) {
	return s.serializeAs(input, output.FormatJSON)
}

// SerializeYAML normalizes input and encodes the result as YAML.
func (s *Serializer) SerializeYAML(input any) ([]byte, error) {
	return s.serializeAs(input, output.FormatYAML)
}

// SerializeData decodes YAML or JSON input bytes into an object graph and
// normalizes it. Anchors and aliases express shared and cyclic references.
func (s *Serializer) SerializeData(data []byte) (*Document, error) {
	input, err := s.decoder.Decode(data)
	if err != nil {
		return nil, err
	}

	return s.normalizer.Normalize(input)
}

func (s *Serializer) serializeAs(input any, format string) ([]byte, error) {
	doc, err := s.Serialize(input)
	if err != nil {
		return nil, err
	}

	enc := s.encoding
	enc.Format = format

	data, err := output.Encode(doc, enc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}

	return data, nil
}
