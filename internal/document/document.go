// Package document defines the normalized output shape: a primary data
// member holding resource objects plus an optional list of included
// resources, with relationships expressed as (type, id) linkage only.
package document

// Identifier points at a resource by type and id.
type Identifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Key returns the display form of the identifier, "type[id]".
func (i Identifier) Key() string {
	return Key(i.Type, i.ID)
}

// Key renders a (type, id) pair for messages. It is not unique when type
// or id contain brackets; compare Identifier values instead.
func Key(typ, id string) string {
	return typ + "[" + id + "]"
}

// Linkage is the "data" member of a relationship: null, a single
// identifier, or an ordered list of identifiers.
type Linkage struct {
	one    *Identifier
	many   []Identifier
	isMany bool
}

// ToOne returns linkage to a single resource. A nil id gives null linkage.
func ToOne(id *Identifier) Linkage {
	return Linkage{one: id}
}

// ToMany returns linkage to an ordered list of resources. An empty list
// still encodes as [] rather than null.
func ToMany(ids ...Identifier) Linkage {
	if ids == nil {
		ids = []Identifier{}
	}

	return Linkage{many: ids, isMany: true}
}

// IsMany reports whether the linkage is to-many.
func (l Linkage) IsMany() bool { return l.isMany }

// IsNull reports whether the linkage is a null to-one.
func (l Linkage) IsNull() bool { return !l.isMany && l.one == nil }

// One returns the to-one identifier, nil for to-many or null linkage.
func (l Linkage) One() *Identifier { return l.one }

// Many returns the to-many identifiers.
func (l Linkage) Many() []Identifier { return l.many }

// Identifiers returns every identifier the linkage points at.
func (l Linkage) Identifiers() []Identifier {
	if l.isMany {
		return l.many
	}

	if l.one == nil {
		return nil
	}

	return []Identifier{*l.one}
}

// MarshalJSON implements json.Marshaler.
func (l Linkage) MarshalJSON() ([]byte, error) {
	if l.isMany {
		return marshal(l.many)
	}

	if l.one == nil {
		return []byte("null"), nil
	}

	return marshal(l.one)
}

// Relationship is a pointer-only reference to related resources.
type Relationship struct {
	Data Linkage `json:"data"`
}

// Resource is the normalized projection of one logical entity.
type Resource struct {
	ID            string                `json:"id"`
	Type          string                `json:"type"`
	Attributes    Members[any]          `json:"attributes,omitempty"`
	Relationships Members[Relationship] `json:"relationships,omitempty"`
}

// Identifier returns the resource's (type, id) pair.
func (r *Resource) Identifier() Identifier {
	return Identifier{ID: r.ID, Type: r.Type}
}

// Key returns the display form of the resource identifier.
func (r *Resource) Key() string {
	return Key(r.Type, r.ID)
}

// PrimaryData is the "data" member of a document: null, one resource, or a
// list of resources mirroring the shape of the input.
type PrimaryData struct {
	one    *Resource
	many   []*Resource
	isMany bool
}

// NullData returns primary data encoding as null.
func NullData() PrimaryData { return PrimaryData{} }

// SingleData returns primary data holding one resource.
func SingleData(r *Resource) PrimaryData { return PrimaryData{one: r} }

// CollectionData returns primary data holding a list of resources. An empty
// list encodes as [].
func CollectionData(rs []*Resource) PrimaryData {
	if rs == nil {
		rs = []*Resource{}
	}

	return PrimaryData{many: rs, isMany: true}
}

// IsCollection reports whether data is a list.
func (d PrimaryData) IsCollection() bool { return d.isMany }

// IsNull reports whether data is null.
func (d PrimaryData) IsNull() bool { return !d.isMany && d.one == nil }

// Resources returns the primary resources in order.
func (d PrimaryData) Resources() []*Resource {
	if d.isMany {
		return d.many
	}

	if d.one == nil {
		return nil
	}

	return []*Resource{d.one}
}

// MarshalJSON implements json.Marshaler.
func (d PrimaryData) MarshalJSON() ([]byte, error) {
	switch {
	case d.isMany:
		return marshal(d.many)
	case d.one == nil:
		return []byte("null"), nil
	default:
		return marshal(d.one)
	}
}

// Document is the top-level normalized output.
type Document struct {
	Data     PrimaryData `json:"data"`
	Included []*Resource `json:"included,omitempty"`
}

// Resources returns the primary resources followed by the included ones.
func (d Document) Resources() []*Resource {
	primary := d.Data.Resources()

	out := make([]*Resource, 0, len(primary)+len(d.Included))
	out = append(out, primary...)

	return append(out, d.Included...)
}

// MarshalJSON encodes the document without HTML escaping.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document

	return marshal(plain(d))
}
