// Package normalize turns object graphs into normalized documents.
//
// A Normalizer validates every reachable object against its type descriptor,
// replaces embedded relationship objects with resource identifiers, and
// emits each logical resource once. Traversal is breadth-first from the
// roots and deduplicates on (type, id), so shared and cyclic graphs
// terminate and produce the same output on every run.
package normalize

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ayangd/jsonapi-factory/internal/document"
	"github.com/ayangd/jsonapi-factory/internal/schema"
)

// FieldOrder selects how object fields are compared with a descriptor.
type FieldOrder int

const (
	// FieldOrderStrict requires the fields in exactly the descriptor order:
	// attributes first, then relationships.
	FieldOrderStrict FieldOrder = iota

	// FieldOrderRelaxed requires the same set of fields in any order.
	FieldOrderRelaxed
)

// String returns the flag spelling of the mode.
func (o FieldOrder) String() string {
	switch o {
	case FieldOrderStrict:
		return "strict"
	case FieldOrderRelaxed:
		return "relaxed"
	default:
		return fmt.Sprintf("FieldOrder(%d)", int(o))
	}
}

// ParseFieldOrder parses "strict" or "relaxed" (case-insensitive).
func ParseFieldOrder(s string) (FieldOrder, error) {
	switch strings.ToLower(s) {
	case "strict", "":
		return FieldOrderStrict, nil
	case "relaxed":
		return FieldOrderRelaxed, nil
	default:
		return 0, fmt.Errorf("invalid field order %q (valid: strict, relaxed)", s)
	}
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithFieldOrder sets the field comparison mode.
func WithFieldOrder(o FieldOrder) Option {
	return func(n *Normalizer) { n.fieldOrder = o }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.logger = l
		}
	}
}

// Normalizer serializes object graphs against a registry. It holds no
// per-call state and is safe for concurrent use.
type Normalizer struct {
	registry   *schema.Registry
	fieldOrder FieldOrder
	logger     *slog.Logger
}

// New returns a Normalizer bound to reg.
func New(reg *schema.Registry, opts ...Option) *Normalizer {
	n := &Normalizer{
		registry: reg,
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// FieldOrder returns the configured field comparison mode.
func (n *Normalizer) FieldOrder() FieldOrder { return n.fieldOrder }

// Normalize serializes nil, a single *Object, or a []*Object (or Many).
func (n *Normalizer) Normalize(input any) (*document.Document, error) {
	switch v := input.(type) {
	case nil:
		return n.NormalizeObject(nil)
	case *Object:
		return n.NormalizeObject(v)
	case []*Object:
		return n.NormalizeObjects(v)
	case Many:
		return n.NormalizeObjects(v)
	default:
		return nil, &NotSerializableError{Path: "data", Reason: fmt.Sprintf("unsupported input %T", input)}
	}
}

// NormalizeObject serializes one root object. A nil root yields null data.
func (n *Normalizer) NormalizeObject(obj *Object) (*document.Document, error) {
	if obj == nil {
		return &document.Document{Data: document.NullData()}, nil
	}

	roots, included, err := n.collect([]*Object{obj}, false)
	if err != nil {
		return nil, err
	}

	return &document.Document{Data: document.SingleData(roots[0]), Included: included}, nil
}

// NormalizeObjects serializes a list of root objects in order.
func (n *Normalizer) NormalizeObjects(objs []*Object) (*document.Document, error) {
	roots, included, err := n.collect(objs, true)
	if err != nil {
		return nil, err
	}

	return &document.Document{Data: document.CollectionData(roots), Included: included}, nil
}

// collect decomposes the roots, then walks their relationship targets
// breadth-first. Root identifiers are seeded into the seen set, so a root is never
// repeated in included even when another resource points back at it.
func (n *Normalizer) collect(objs []*Object, collection bool) ([]*document.Resource, []*document.Resource, error) {
	roots := make([]*document.Resource, 0, len(objs))
	seen := make(map[document.Identifier]struct{}, len(objs))

	var queue []target

	for i, obj := range objs {
		path := "data"
		if collection {
			path = fmt.Sprintf("data[%d]", i)
		}

		res, targets, err := n.decompose(obj, path)
		if err != nil {
			return nil, nil, err
		}

		roots = append(roots, res)
		seen[res.Identifier()] = struct{}{}
		queue = append(queue, targets...)
	}

	var included []*document.Resource

	skipped := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if _, dup := seen[cur.id]; dup {
			skipped++
			continue
		}

		res, targets, err := n.decompose(cur.obj, cur.path)
		if err != nil {
			return nil, nil, err
		}

		seen[cur.id] = struct{}{}
		included = append(included, res)
		queue = append(queue, targets...)
	}

	n.logger.Debug("normalized object graph",
		slog.Int("roots", len(roots)),
		slog.Int("included", len(included)),
		slog.Int("duplicates", skipped),
		slog.String("fieldOrder", n.fieldOrder.String()),
	)

	return roots, included, nil
}
