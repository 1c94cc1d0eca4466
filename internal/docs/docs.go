// Package docs generates a human-readable reference for a type registry.
// It supports Markdown, HTML, and AsciiDoc output formats, with optional
// example input generation.
package docs

import (
	"strings"

	"github.com/ayangd/jsonapi-factory/internal/schema"
)

// FieldInfo describes one declared field of a type.
type FieldInfo struct {
	// Name is the field name (e.g., "title").
	Name string
	// Kind is "attribute" or "relationship".
	Kind string
	// Position is the 1-based index in the required field order.
	Position int
}

// TypeInfo describes one registered type.
type TypeInfo struct {
	// Type is the registry key (e.g., "book").
	Type string
	// IDKind is the informational id tag (e.g., "number").
	IDKind string
	// Fields lists attributes first, then relationships.
	Fields []FieldInfo
}

// Attributes returns the attribute fields.
func (t TypeInfo) Attributes() []FieldInfo { return t.byKind("attribute") }

// Relationships returns the relationship fields.
func (t TypeInfo) Relationships() []FieldInfo { return t.byKind("relationship") }

func (t TypeInfo) byKind(kind string) []FieldInfo {
	var out []FieldInfo

	for _, f := range t.Fields {
		if f.Kind == kind {
			out = append(out, f)
		}
	}

	return out
}

// DocModel is the structured data model for documentation generation.
type DocModel struct {
	// Title overrides the document title.
	Title string
	// Version is the schema file version, if known.
	Version string
	// Types are the registered types in declaration order.
	Types []TypeInfo
	// IncludeExamples controls whether example input objects are appended.
	IncludeExamples bool
}

// FromRegistry builds a DocModel from reg.
func FromRegistry(reg *schema.Registry) *DocModel {
	model := &DocModel{}

	for _, d := range reg.Descriptors() {
		ti := TypeInfo{Type: d.Type, IDKind: d.ID}

		for _, name := range d.Attributes {
			ti.Fields = append(ti.Fields, FieldInfo{Name: name, Kind: "attribute", Position: len(ti.Fields) + 1})
		}

		for _, name := range d.Relationships {
			ti.Fields = append(ti.Fields, FieldInfo{Name: name, Kind: "relationship", Position: len(ti.Fields) + 1})
		}

		model.Types = append(model.Types, ti)
	}

	return model
}

func (m *DocModel) title() string {
	if m.Title != "" {
		return m.Title
	}

	return "Schema Reference"
}

// GenerateExampleYAML creates an example input object for one type, with
// fields in the order the normalizer requires.
func GenerateExampleYAML(t TypeInfo) string {
	var b strings.Builder

	b.WriteString("id: ")
	b.WriteString(exampleID(t.IDKind))
	b.WriteString("\ntype: ")
	b.WriteString(t.Type)
	b.WriteString("\n")

	for _, f := range t.Fields {
		b.WriteString(f.Name)

		if f.Kind == "relationship" {
			b.WriteString(": null # object, list of objects, or null\n")
		} else {
			b.WriteString(": \"\"\n")
		}
	}

	return b.String()
}

func exampleID(kind string) string {
	switch kind {
	case "number", "integer":
		return "1"
	default:
		return `"1"`
	}
}
