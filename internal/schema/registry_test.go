package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookTypes() []TypeDescriptor {
	return []TypeDescriptor{
		{ID: "number", Type: "person", Attributes: []string{"name", "age"}},
		{ID: "number", Type: "publisher", Attributes: []string{"name"}, Relationships: []string{"owner"}},
		{ID: "number", Type: "book", Attributes: []string{"title", "pageCount"}, Relationships: []string{"author", "publisher"}},
	}
}

// ---------------------------------------------------------------------------
// NewRegistry
// ---------------------------------------------------------------------------

func TestNewRegistry_Empty(t *testing.T) {
	r, err := NewRegistry(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Types())

	_, ok := r.Resolve("book")
	assert.False(t, ok)
}

func TestNewRegistry_DeclarationOrder(t *testing.T) {
	r, err := NewRegistry(bookTypes())
	require.NoError(t, err)
	assert.Equal(t, []string{"person", "publisher", "book"}, r.Types())
	assert.Equal(t, 3, r.Len())
}

func TestNewRegistry_DuplicateType(t *testing.T) {
	descs := append(bookTypes(), TypeDescriptor{Type: "person", Attributes: []string{"nickname"}})

	_, err := NewRegistry(descs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateType))

	var dupErr *DuplicateTypeError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "person", dupErr.Type)
	assert.Equal(t, 0, dupErr.First)
	assert.Equal(t, 3, dupErr.Second)
}

func TestNewRegistry_InvalidDescriptors(t *testing.T) {
	tests := []struct {
		name string
		desc TypeDescriptor
		want string
	}{
		{"empty type", TypeDescriptor{Attributes: []string{"a"}}, "type name is empty"},
		{"reserved id", TypeDescriptor{Type: "x", Attributes: []string{"id"}}, `attribute "id" is reserved`},
		{"reserved type", TypeDescriptor{Type: "x", Relationships: []string{"type"}}, `relationship "type" is reserved`},
		{"empty field", TypeDescriptor{Type: "x", Attributes: []string{""}}, "empty attribute name"},
		{"overlap", TypeDescriptor{Type: "x", Attributes: []string{"a"}, Relationships: []string{"a"}}, "both attribute and relationship"},
		{"repeat", TypeDescriptor{Type: "x", Attributes: []string{"a", "a"}}, "both attribute and attribute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry([]TypeDescriptor{tt.desc})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDescriptor)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewRegistry_CopiesDescriptors(t *testing.T) {
	descs := bookTypes()
	r, err := NewRegistry(descs)
	require.NoError(t, err)

	descs[0].Attributes[0] = "mutated"
	descs[0].Type = "mutated"

	d, ok := r.Resolve("person")
	require.True(t, ok)
	assert.Equal(t, []string{"name", "age"}, d.Attributes)
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

func TestResolve_Idempotent(t *testing.T) {
	r, err := NewRegistry(bookTypes())
	require.NoError(t, err)

	first, ok := r.Resolve("book")
	require.True(t, ok)

	second, ok := r.Resolve("book")
	require.True(t, ok)

	assert.Same(t, first, second)
	assert.Equal(t, []string{"title", "pageCount", "author", "publisher"}, first.Fields())
}

func TestResolve_NilRegistry(t *testing.T) {
	var r *Registry

	_, ok := r.Resolve("book")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Types())
}

func TestTypeDescriptor_FieldKinds(t *testing.T) {
	d := TypeDescriptor{Type: "book", Attributes: []string{"title"}, Relationships: []string{"author"}}

	assert.True(t, d.IsAttribute("title"))
	assert.False(t, d.IsAttribute("author"))
	assert.True(t, d.IsRelationship("author"))
	assert.False(t, d.IsRelationship("title"))
}

func TestDescriptors_ReturnsCopies(t *testing.T) {
	r, err := NewRegistry(bookTypes())
	require.NoError(t, err)

	descs := r.Descriptors()
	require.Len(t, descs, 3)
	descs[2].Relationships[0] = "mutated"

	d, _ := r.Resolve("book")
	assert.Equal(t, "author", d.Relationships[0])
}
