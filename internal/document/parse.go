package document

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrMalformed is wrapped by every Parse error caused by document content.
var ErrMalformed = errors.New("malformed document")

// ParseFile reads and parses a document from path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing document %s: %w", path, err)
	}

	return doc, nil
}

// Parse decodes a JSON or YAML document. Attribute and relationship keys
// keep their source order. Top-level members other than data and included
// are ignored.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	n := unwrap(&root)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, malformed(n, "document must be an object")
	}

	doc := &Document{}
	hasData := false

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, unwrap(n.Content[i+1])

		switch key {
		case "data":
			hasData = true

			data, err := parsePrimary(val)
			if err != nil {
				return nil, err
			}

			doc.Data = data
		case "included":
			if val.Kind != yaml.SequenceNode {
				return nil, malformed(val, "included must be a list")
			}

			for _, item := range val.Content {
				r, err := parseResource(unwrap(item))
				if err != nil {
					return nil, err
				}

				doc.Included = append(doc.Included, r)
			}
		}
	}

	if !hasData {
		return nil, malformed(n, "missing data member")
	}

	return doc, nil
}

func parsePrimary(n *yaml.Node) (PrimaryData, error) {
	switch {
	case isNull(n):
		return NullData(), nil
	case n.Kind == yaml.SequenceNode:
		rs := make([]*Resource, 0, len(n.Content))

		for _, item := range n.Content {
			r, err := parseResource(unwrap(item))
			if err != nil {
				return PrimaryData{}, err
			}

			rs = append(rs, r)
		}

		return CollectionData(rs), nil
	default:
		r, err := parseResource(n)
		if err != nil {
			return PrimaryData{}, err
		}

		return SingleData(r), nil
	}
}

func parseResource(n *yaml.Node) (*Resource, error) {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, malformed(n, "resource must be an object")
	}

	r := &Resource{}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, unwrap(n.Content[i+1])

		switch key {
		case "id":
			r.ID = val.Value
		case "type":
			r.Type = val.Value
		case "attributes":
			attrs, err := parseAttributes(val)
			if err != nil {
				return nil, err
			}

			r.Attributes = attrs
		case "relationships":
			rels, err := parseRelationships(val)
			if err != nil {
				return nil, err
			}

			r.Relationships = rels
		}
	}

	return r, nil
}

func parseAttributes(n *yaml.Node) (Members[any], error) {
	if n.Kind != yaml.MappingNode {
		return nil, malformed(n, "attributes must be an object")
	}

	attrs := make(Members[any], 0, len(n.Content)/2)

	for i := 0; i+1 < len(n.Content); i += 2 {
		var v any
		if err := n.Content[i+1].Decode(&v); err != nil {
			return nil, malformed(n.Content[i+1], err.Error())
		}

		attrs = append(attrs, Member[any]{Key: n.Content[i].Value, Value: v})
	}

	return attrs, nil
}

func parseRelationships(n *yaml.Node) (Members[Relationship], error) {
	if n.Kind != yaml.MappingNode {
		return nil, malformed(n, "relationships must be an object")
	}

	rels := make(Members[Relationship], 0, len(n.Content)/2)

	for i := 0; i+1 < len(n.Content); i += 2 {
		name, val := n.Content[i].Value, unwrap(n.Content[i+1])
		if val.Kind != yaml.MappingNode {
			return nil, malformed(val, fmt.Sprintf("relationship %q must be an object", name))
		}

		var (
			linkage Linkage
			found   bool
		)

		for j := 0; j+1 < len(val.Content); j += 2 {
			if val.Content[j].Value != "data" {
				continue
			}

			l, err := parseLinkage(unwrap(val.Content[j+1]))
			if err != nil {
				return nil, err
			}

			linkage, found = l, true
		}

		if !found {
			return nil, malformed(val, fmt.Sprintf("relationship %q has no data member", name))
		}

		rels = append(rels, Member[Relationship]{Key: name, Value: Relationship{Data: linkage}})
	}

	return rels, nil
}

func parseLinkage(n *yaml.Node) (Linkage, error) {
	if isNull(n) {
		return ToOne(nil), nil
	}

	if n.Kind == yaml.SequenceNode {
		ids := make([]Identifier, 0, len(n.Content))

		for _, item := range n.Content {
			id, err := parseIdentifier(unwrap(item))
			if err != nil {
				return Linkage{}, err
			}

			ids = append(ids, id)
		}

		return ToMany(ids...), nil
	}

	id, err := parseIdentifier(n)
	if err != nil {
		return Linkage{}, err
	}

	return ToOne(&id), nil
}

func parseIdentifier(n *yaml.Node) (Identifier, error) {
	if n.Kind != yaml.MappingNode {
		return Identifier{}, malformed(n, "resource identifier must be an object")
	}

	var id Identifier

	for i := 0; i+1 < len(n.Content); i += 2 {
		switch n.Content[i].Value {
		case "id":
			id.ID = n.Content[i+1].Value
		case "type":
			id.Type = n.Content[i+1].Value
		}
	}

	return id, nil
}

// unwrap strips document and alias indirections.
func unwrap(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) == 1:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}

	return nil
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

func malformed(n *yaml.Node, msg string) error {
	if n == nil || n.Line == 0 {
		return fmt.Errorf("%w: %s", ErrMalformed, msg)
	}

	return fmt.Errorf("%w: line %d: %s", ErrMalformed, n.Line, msg)
}
