// Package decode reads JSON or YAML input files into object graphs.
//
// The reader is driven by the type registry: for each mapping it looks up
// the descriptor named by the "type" key and decodes the declared
// relationship fields as nested objects. Every other key becomes an opaque
// attribute value. YAML anchors and aliases resolve to the same *Object, so
// shared and cyclic graphs can be written directly in the input.
package decode

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ayangd/jsonapi-factory/internal/document"
	"github.com/ayangd/jsonapi-factory/internal/normalize"
	"github.com/ayangd/jsonapi-factory/internal/schema"
)

// ErrInvalidInput is wrapped by every structural decoding error.
var ErrInvalidInput = errors.New("invalid input")

// Decoder converts input documents to normalize.Object graphs.
type Decoder struct {
	registry *schema.Registry
}

// New returns a Decoder for reg.
func New(reg *schema.Registry) *Decoder {
	return &Decoder{registry: reg}
}

// DecodeFile reads and decodes the file at path.
func (d *Decoder) DecodeFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	return d.Decode(data)
}

// Decode returns nil, a *normalize.Object, or a []*normalize.Object
// depending on whether the input root is null, a mapping, or a list.
func (d *Decoder) Decode(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if root.Kind == 0 {
		return nil, nil
	}

	s := &state{
		registry: d.registry,
		objects:  make(map[*yaml.Node]*normalize.Object),
	}

	n := resolve(&root)

	switch {
	case isNull(n):
		return nil, nil
	case n.Kind == yaml.SequenceNode:
		objs := make([]*normalize.Object, 0, len(n.Content))

		for i, el := range n.Content {
			obj, err := s.object(el, fmt.Sprintf("data[%d]", i))
			if err != nil {
				return nil, err
			}

			objs = append(objs, obj)
		}

		return objs, nil
	case n.Kind == yaml.MappingNode:
		return s.object(n, "data")
	default:
		return nil, invalid(n, "data", "input must be an object, a list of objects, or null")
	}
}

// state carries the per-call anchor memo.
type state struct {
	registry *schema.Registry
	objects  map[*yaml.Node]*normalize.Object
}

func (s *state) object(n *yaml.Node, path string) (*normalize.Object, error) {
	n = resolve(n)

	if obj, ok := s.objects[n]; ok {
		return obj, nil
	}

	if n.Kind != yaml.MappingNode {
		return nil, invalid(n, path, "expected an object")
	}

	obj := &normalize.Object{}
	// registered before the fields so aliases inside resolve to obj
	s.objects[n] = obj

	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value != schema.FieldType {
			continue
		}

		v := resolve(n.Content[i+1])
		if v.Kind != yaml.ScalarNode || isNull(v) {
			return nil, invalid(v, path, "type must be a string")
		}

		obj.Type = v.Value
	}

	desc, _ := s.registry.Resolve(obj.Type)

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]

		switch k.Value {
		case schema.FieldType:
			continue
		case schema.FieldID:
			id, err := idValue(v, path)
			if err != nil {
				return nil, err
			}

			obj.ID = id
		default:
			field := normalize.Field{Name: k.Value}

			var err error

			if desc != nil && desc.IsRelationship(k.Value) {
				field.Value, err = s.relationship(v, path+"."+k.Value)
			} else {
				var val any

				val, err = attributeValue(v, path+"."+k.Value, nil)
				field.Value = normalize.Scalar{V: val}
			}

			if err != nil {
				return nil, err
			}

			obj.Fields = append(obj.Fields, field)
		}
	}

	return obj, nil
}

// relationship decodes a declared relationship field. Scalars are kept as
// attribute values so the normalizer reports the kind mismatch.
func (s *state) relationship(n *yaml.Node, path string) (normalize.Value, error) {
	n = resolve(n)

	switch {
	case isNull(n):
		return (*normalize.Object)(nil), nil
	case n.Kind == yaml.MappingNode:
		return s.object(n, path)
	case n.Kind == yaml.SequenceNode:
		many := make(normalize.Many, 0, len(n.Content))

		for i, el := range n.Content {
			obj, err := s.object(el, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}

			many = append(many, obj)
		}

		return many, nil
	default:
		v, err := attributeValue(n, path, nil)
		if err != nil {
			return nil, err
		}

		return normalize.Scalar{V: v}, nil
	}
}

func idValue(n *yaml.Node, path string) (any, error) {
	n = resolve(n)

	if n.Kind != yaml.ScalarNode {
		return nil, invalid(n, path, "id must be a scalar")
	}

	if isNull(n) {
		return nil, nil
	}

	var id any
	if err := n.Decode(&id); err != nil {
		return nil, invalid(n, path, err.Error())
	}

	return id, nil
}

// attributeValue converts a node to a plain value. Mappings become ordered
// members so nested key order survives encoding.
func attributeValue(n *yaml.Node, path string, stack []*yaml.Node) (any, error) {
	n = resolve(n)

	for _, seen := range stack {
		if seen == n {
			return nil, invalid(n, path, "attribute value contains itself")
		}
	}

	switch n.Kind {
	case yaml.MappingNode:
		stack = append(stack, n)
		members := make(document.Members[any], 0, len(n.Content)/2)

		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value

			v, err := attributeValue(n.Content[i+1], path+"."+key, stack)
			if err != nil {
				return nil, err
			}

			members = append(members, document.Member[any]{Key: key, Value: v})
		}

		return members, nil
	case yaml.SequenceNode:
		stack = append(stack, n)
		items := make([]any, 0, len(n.Content))

		for i, el := range n.Content {
			v, err := attributeValue(el, fmt.Sprintf("%s[%d]", path, i), stack)
			if err != nil {
				return nil, err
			}

			items = append(items, v)
		}

		return items, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, invalid(n, path, err.Error())
		}

		return v, nil
	}
}

// resolve strips document wrappers and follows aliases to their anchor.
func resolve(n *yaml.Node) *yaml.Node {
	for {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) > 0:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode && n.Alias != nil:
			n = n.Alias
		default:
			return n
		}
	}
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func invalid(n *yaml.Node, path, msg string) error {
	return fmt.Errorf("%w: %s (line %d): %s", ErrInvalidInput, path, n.Line, msg)
}
