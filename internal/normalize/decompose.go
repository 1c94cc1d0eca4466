package normalize

import (
	"fmt"
	"slices"

	"github.com/ayangd/jsonapi-factory/internal/document"
	"github.com/ayangd/jsonapi-factory/internal/schema"
)

// target is a relationship target waiting in the traversal queue.
type target struct {
	obj  *Object
	id   document.Identifier
	path string
}

// identify returns the resource identifier of obj.
func identify(obj *Object, path string) (document.Identifier, error) {
	if obj == nil {
		return document.Identifier{}, &NotSerializableError{Path: path, Reason: "object is nil"}
	}

	if obj.Type == "" {
		return document.Identifier{}, &NotSerializableError{Path: path, Reason: "missing type"}
	}

	id, err := FormatID(obj.ID)
	if err != nil {
		return document.Identifier{}, &NotSerializableError{Path: path, Reason: err.Error()}
	}

	return document.Identifier{ID: id, Type: obj.Type}, nil
}

// decompose validates obj against its descriptor and splits it into a
// resource object plus the relationship targets to visit next.
func (n *Normalizer) decompose(obj *Object, path string) (*document.Resource, []target, error) {
	ident, err := identify(obj, path)
	if err != nil {
		return nil, nil, err
	}

	desc, ok := n.registry.Resolve(obj.Type)
	if !ok {
		return nil, nil, &UnknownTypeError{Path: path, Type: obj.Type}
	}

	if err := n.checkShape(obj, desc, ident, path); err != nil {
		return nil, nil, err
	}

	values := make(map[string]Value, len(obj.Fields))
	for _, f := range obj.Fields {
		values[f.Name] = f.Value
	}

	res := &document.Resource{ID: ident.ID, Type: ident.Type}

	if len(desc.Attributes) > 0 {
		res.Attributes = make(document.Members[any], 0, len(desc.Attributes))

		for _, name := range desc.Attributes {
			var v any
			if s, isScalar := values[name].(Scalar); isScalar {
				v = s.V
			}

			res.Attributes = append(res.Attributes, document.Member[any]{Key: name, Value: v})
		}
	}

	if len(desc.Relationships) == 0 {
		return res, nil, nil
	}

	var targets []target

	res.Relationships = make(document.Members[document.Relationship], 0, len(desc.Relationships))

	for _, name := range desc.Relationships {
		var linkage document.Linkage

		switch v := values[name].(type) {
		case *Object:
			if v == nil {
				linkage = document.ToOne(nil)
				break
			}

			p := path + "." + name

			id, err := identify(v, p)
			if err != nil {
				return nil, nil, err
			}

			linkage = document.ToOne(&id)
			targets = append(targets, target{obj: v, id: id, path: p})
		case Many:
			ids := make([]document.Identifier, 0, len(v))

			for i, t := range v {
				p := fmt.Sprintf("%s.%s[%d]", path, name, i)

				id, err := identify(t, p)
				if err != nil {
					return nil, nil, err
				}

				ids = append(ids, id)
				targets = append(targets, target{obj: t, id: id, path: p})
			}

			linkage = document.ToMany(ids...)
		default:
			linkage = document.ToOne(nil)
		}

		res.Relationships = append(res.Relationships, document.Member[document.Relationship]{
			Key:   name,
			Value: document.Relationship{Data: linkage},
		})
	}

	return res, targets, nil
}

// checkShape compares the object's field names with the descriptor and
// checks that every value has the kind its field requires.
func (n *Normalizer) checkShape(obj *Object, desc *schema.TypeDescriptor, ident document.Identifier, path string) error {
	mismatch := func() *FieldMismatchError {
		return &FieldMismatchError{Path: path, Type: ident.Type, ID: ident.ID}
	}

	expected := desc.Fields()
	names := make([]string, 0, len(obj.Fields))
	seen := make(map[string]struct{}, len(obj.Fields))

	for _, f := range obj.Fields {
		if _, dup := seen[f.Name]; dup {
			e := mismatch()
			e.Reason = fmt.Sprintf("field %s appears more than once", f.Name)

			return e
		}

		seen[f.Name] = struct{}{}
		names = append(names, f.Name)
	}

	if n.fieldOrder == FieldOrderStrict && slices.Equal(names, expected) {
		return checkKinds(obj, desc, mismatch)
	}

	e := mismatch()

	for _, name := range expected {
		if _, ok := seen[name]; !ok {
			e.Missing = append(e.Missing, name)
		}
	}

	for _, name := range names {
		if !desc.IsAttribute(name) && !desc.IsRelationship(name) {
			e.Extra = append(e.Extra, name)
		}
	}

	if len(e.Missing) > 0 || len(e.Extra) > 0 {
		return e
	}

	if n.fieldOrder == FieldOrderStrict {
		e.Reason = fmt.Sprintf("fields out of order: got %v, want %v", names, expected)
		return e
	}

	return checkKinds(obj, desc, mismatch)
}

func checkKinds(obj *Object, desc *schema.TypeDescriptor, mismatch func() *FieldMismatchError) error {
	for _, f := range obj.Fields {
		if f.Value == nil {
			continue
		}

		rel := desc.IsRelationship(f.Name)

		switch f.Value.(type) {
		case Scalar:
			if rel {
				e := mismatch()
				e.Reason = fmt.Sprintf("relationship %s holds an attribute value", f.Name)

				return e
			}
		case *Object, Many:
			if !rel {
				e := mismatch()
				e.Reason = fmt.Sprintf("attribute %s holds a relationship value", f.Name)

				return e
			}
		}
	}

	return nil
}
