// Package schema holds the type descriptors that drive normalization and the
// immutable registry that resolves them by type name.
package schema

import (
	"fmt"
	"slices"
)

// Reserved field names that every serializable object carries implicitly.
const (
	FieldID   = "id"
	FieldType = "type"
)

// TypeDescriptor declares the expected shape of one object type.
type TypeDescriptor struct {
	// ID is an informational tag describing the id kind (e.g. "number").
	ID string `json:"id,omitempty"`

	// Type is the registry key and the "type" member of emitted resources.
	Type string `json:"type"`

	// Attributes are copied verbatim into the resource, in this order.
	Attributes []string `json:"attributes"`

	// Relationships hold nested objects and are replaced by references.
	Relationships []string `json:"relationships"`
}

// Fields returns the attribute names followed by the relationship names.
func (d *TypeDescriptor) Fields() []string {
	fields := make([]string, 0, len(d.Attributes)+len(d.Relationships))
	fields = append(fields, d.Attributes...)

	return append(fields, d.Relationships...)
}

// IsRelationship reports whether name is one of the relationship fields.
func (d *TypeDescriptor) IsRelationship(name string) bool {
	return slices.Contains(d.Relationships, name)
}

// IsAttribute reports whether name is one of the attribute fields.
func (d *TypeDescriptor) IsAttribute(name string) bool {
	return slices.Contains(d.Attributes, name)
}

func (d *TypeDescriptor) validate() error {
	if d.Type == "" {
		return &InvalidDescriptorError{Reason: "type name is empty"}
	}

	seen := make(map[string]string, len(d.Attributes)+len(d.Relationships))

	check := func(kind string, names []string) error {
		for _, name := range names {
			switch name {
			case "":
				return &InvalidDescriptorError{Type: d.Type, Reason: fmt.Sprintf("empty %s name", kind)}
			case FieldID, FieldType:
				return &InvalidDescriptorError{Type: d.Type, Reason: fmt.Sprintf("%s %q is reserved", kind, name)}
			}

			if prev, dup := seen[name]; dup {
				return &InvalidDescriptorError{
					Type:   d.Type,
					Reason: fmt.Sprintf("field %q declared as both %s and %s", name, prev, kind),
				}
			}

			seen[name] = kind
		}

		return nil
	}

	if err := check("attribute", d.Attributes); err != nil {
		return err
	}

	return check("relationship", d.Relationships)
}

func (d TypeDescriptor) clone() TypeDescriptor {
	d.Attributes = slices.Clone(d.Attributes)
	d.Relationships = slices.Clone(d.Relationships)

	return d
}

// Registry maps type names to descriptors. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	order []string
	types map[string]*TypeDescriptor
}

// NewRegistry builds a registry from descs. Descriptors are copied, so later
// changes to the caller's slices have no effect. Two descriptors with the
// same type name fail with a *DuplicateTypeError.
func NewRegistry(descs []TypeDescriptor) (*Registry, error) {
	r := &Registry{
		order: make([]string, 0, len(descs)),
		types: make(map[string]*TypeDescriptor, len(descs)),
	}

	index := make(map[string]int, len(descs))

	for i := range descs {
		d := descs[i].clone()

		if err := d.validate(); err != nil {
			return nil, err
		}

		if first, dup := index[d.Type]; dup {
			return nil, &DuplicateTypeError{Type: d.Type, First: first, Second: i}
		}

		index[d.Type] = i
		r.order = append(r.order, d.Type)
		r.types[d.Type] = &d
	}

	return r, nil
}

// Resolve returns the descriptor registered under name. Repeated calls
// return the same pointer; callers must not modify it.
func (r *Registry) Resolve(name string) (*TypeDescriptor, bool) {
	if r == nil {
		return nil, false
	}

	d, ok := r.types[name]

	return d, ok
}

// Types returns the registered type names in declaration order.
func (r *Registry) Types() []string {
	if r == nil {
		return nil
	}

	return slices.Clone(r.order)
}

// Descriptors returns copies of all descriptors in declaration order.
func (r *Registry) Descriptors() []TypeDescriptor {
	if r == nil {
		return nil
	}

	out := make([]TypeDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.types[name].clone())
	}

	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	return len(r.order)
}
