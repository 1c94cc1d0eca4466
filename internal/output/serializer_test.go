package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayangd/jsonapi-factory/internal/document"
)

func cyclicDocument() *document.Document {
	book1 := &document.Resource{
		ID:         "1",
		Type:       "book",
		Attributes: document.Members[any]{{Key: "title", Value: "Le book 1"}, {Key: "pageCount", Value: 4}},
		Relationships: document.Members[document.Relationship]{
			{Key: "references", Value: document.Relationship{Data: document.ToMany(document.Identifier{ID: "2", Type: "book"})}},
		},
	}
	book2 := &document.Resource{
		ID:         "2",
		Type:       "book",
		Attributes: document.Members[any]{{Key: "title", Value: "Le book 2"}, {Key: "pageCount", Value: 7}},
		Relationships: document.Members[document.Relationship]{
			{Key: "references", Value: document.Relationship{Data: document.ToMany(document.Identifier{ID: "1", Type: "book"})}},
		},
	}

	return &document.Document{Data: document.SingleData(book1), Included: []*document.Resource{book2}}
}

const cyclicJSON = `{
  "data": {"id": "1", "type": "book", "attributes": {"title": "Le book 1", "pageCount": 4},
    "relationships": {"references": {"data": [{"id": "2", "type": "book"}]}}},
  "included": [{"id": "2", "type": "book", "attributes": {"title": "Le book 2", "pageCount": 7},
    "relationships": {"references": {"data": [{"id": "1", "type": "book"}]}}}]
}`

// ---------------------------------------------------------------------------
// JSON
// ---------------------------------------------------------------------------

func TestEncodeJSON_Pretty(t *testing.T) {
	out, err := EncodeJSON(cyclicDocument(), DefaultOptions())
	require.NoError(t, err)

	s := string(out)
	assert.JSONEq(t, cyclicJSON, s)
	assert.True(t, strings.HasPrefix(s, "{\n  \"data\": {"), s)
	assert.True(t, strings.HasSuffix(s, "}\n"))
}

func TestEncodeJSON_Indent(t *testing.T) {
	out, err := EncodeJSON(cyclicDocument(), Options{Indent: 4})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "{\n    \"data\": {"))
}

func TestEncodeJSON_Compact(t *testing.T) {
	out, err := EncodeJSON(&document.Document{Data: document.NullData()}, Options{Compact: true})
	require.NoError(t, err)
	assert.Equal(t, "{\"data\":null}\n", string(out))

	out, err = EncodeJSON(cyclicDocument(), Options{Compact: true})
	require.NoError(t, err)
	assert.NotContains(t, strings.TrimSuffix(string(out), "\n"), "\n")
	assert.JSONEq(t, cyclicJSON, string(out))
}

func TestEncodeJSON_KeepsMemberOrder(t *testing.T) {
	out, err := EncodeJSON(cyclicDocument(), Options{Compact: true})
	require.NoError(t, err)

	s := string(out)
	assert.Less(t, strings.Index(s, `"title"`), strings.Index(s, `"pageCount"`))
	assert.Less(t, strings.Index(s, `"data"`), strings.Index(s, `"included"`))
}

// ---------------------------------------------------------------------------
// YAML
// ---------------------------------------------------------------------------

func TestEncodeYAML(t *testing.T) {
	out, err := EncodeYAML(cyclicDocument(), DefaultOptions())
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "data:\n"), s)
	assert.Contains(t, s, `id: "1"`)
	assert.Contains(t, s, "title: Le book 1")
	assert.Contains(t, s, "pageCount: 4")
	assert.NotContains(t, s, "{")
	assert.Less(t, strings.Index(s, "attributes:"), strings.Index(s, "relationships:"))

	// The YAML reads back to the same document.
	parsed, err := document.Parse(out)
	require.NoError(t, err)

	back, err := json.Marshal(parsed)
	require.NoError(t, err)
	assert.JSONEq(t, cyclicJSON, string(back))
}

func TestEncodeYAML_EmptyShapes(t *testing.T) {
	out, err := EncodeYAML(&document.Document{Data: document.NullData()}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "data: null\n", string(out))

	out, err = EncodeYAML(&document.Document{Data: document.CollectionData(nil)}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "data: []\n", string(out))
}

// ---------------------------------------------------------------------------
// Encode
// ---------------------------------------------------------------------------

func TestEncode_SelectsFormat(t *testing.T) {
	doc := cyclicDocument()

	out, err := Encode(doc, Options{})
	require.NoError(t, err)
	assert.True(t, json.Valid(out))

	out, err = Encode(doc, Options{Format: FormatYAML})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "data:"))

	_, err = Encode(doc, Options{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}
