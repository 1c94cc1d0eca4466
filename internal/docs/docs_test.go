package docs_test

import (
	"testing"

	"github.com/ayangd/jsonapi-factory/internal/docs"
	"github.com/ayangd/jsonapi-factory/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRegistry(t *testing.T) *schema.Registry {
	t.Helper()

	reg, err := schema.NewRegistry([]schema.TypeDescriptor{
		{ID: "number", Type: "person", Attributes: []string{"name", "age"}},
		{ID: "number", Type: "publisher", Attributes: []string{"name"}, Relationships: []string{"owner"}},
		{ID: "uuid", Type: "tag"},
	})
	require.NoError(t, err)

	return reg
}

func TestFromRegistry(t *testing.T) {
	model := docs.FromRegistry(sampleRegistry(t))
	require.Len(t, model.Types, 3)

	pub := model.Types[1]
	assert.Equal(t, "publisher", pub.Type)
	assert.Equal(t, "number", pub.IDKind)
	assert.Equal(t, []docs.FieldInfo{
		{Name: "name", Kind: "attribute", Position: 1},
		{Name: "owner", Kind: "relationship", Position: 2},
	}, pub.Fields)
	assert.Len(t, pub.Attributes(), 1)
	assert.Len(t, pub.Relationships(), 1)

	assert.Empty(t, model.Types[2].Fields)
}

func TestGenerateExampleYAML(t *testing.T) {
	model := docs.FromRegistry(sampleRegistry(t))

	assert.Equal(t,
		"id: 1\ntype: publisher\nname: \"\"\nowner: null # object, list of objects, or null\n",
		docs.GenerateExampleYAML(model.Types[1]))

	assert.Equal(t, "id: \"1\"\ntype: tag\n", docs.GenerateExampleYAML(model.Types[2]))
}
