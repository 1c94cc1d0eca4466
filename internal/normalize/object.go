package normalize

// Value is the value of one object field. It is a closed sum type: Scalar
// for attribute values, *Object for to-one relationships, and Many for
// to-many relationships.
type Value interface {
	isValue()
}

// Scalar wraps an opaque attribute value. It is copied into the output
// without inspection.
type Scalar struct {
	V any
}

// Many is a to-many relationship. Element order is preserved in the output.
type Many []*Object

func (Scalar) isValue()  {}
func (*Object) isValue() {}
func (Many) isValue()    {}

// Field is one named field of an object.
type Field struct {
	Name  string
	Value Value
}

// Attr returns an attribute field.
func Attr(name string, v any) Field {
	return Field{Name: name, Value: Scalar{V: v}}
}

// HasOne returns a to-one relationship field. A nil target produces null
// linkage.
func HasOne(name string, target *Object) Field {
	return Field{Name: name, Value: target}
}

// HasMany returns a to-many relationship field.
func HasMany(name string, targets ...*Object) Field {
	if targets == nil {
		targets = Many{}
	}

	return Field{Name: name, Value: Many(targets)}
}

// Object is a serializable object: an identity plus ordered fields.
// Identity is the pair (Type, FormatID(ID)).
type Object struct {
	// ID is a string, an integer or float kind, json.Number, or fmt.Stringer.
	ID any

	// Type names a registered type descriptor.
	Type string

	// Fields must match the descriptor's attributes followed by its
	// relationships.
	Fields []Field
}

// NewObject returns an object with the given identity and fields.
func NewObject(typ string, id any, fields ...Field) *Object {
	return &Object{ID: id, Type: typ, Fields: fields}
}

// Get returns the value of the named field.
func (o *Object) Get(name string) (Value, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}

	return nil, false
}

// Set replaces the value of the named field, or appends the field when the
// object does not have it yet.
func (o *Object) Set(name string, v Value) {
	for i := range o.Fields {
		if o.Fields[i].Name == name {
			o.Fields[i].Value = v
			return
		}
	}

	o.Fields = append(o.Fields, Field{Name: name, Value: v})
}

// Append adds targets to the named to-many relationship. It is the usual
// way to close a cycle after both ends exist. A field that is absent or not
// to-many is replaced.
func (o *Object) Append(name string, targets ...*Object) {
	if cur, ok := o.Get(name); ok {
		if many, isMany := cur.(Many); isMany {
			o.Set(name, append(many, targets...))
			return
		}
	}

	o.Set(name, Many(targets))
}
