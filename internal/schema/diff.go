package schema

import (
	"fmt"
	"slices"
	"strings"
)

// Change kinds reported by Diff.
const (
	ChangeTypeAdded    = "type-added"
	ChangeTypeRemoved  = "type-removed"
	ChangeFieldAdded   = "field-added"
	ChangeFieldRemoved = "field-removed"
	ChangeFieldMoved   = "field-moved"
)

// Change describes a single difference between two registries.
type Change struct {
	Kind string
	// Type is the affected type name.
	Type string
	// Field is the affected field, empty for type-level changes.
	Field string
	// Detail gives extra context, such as "attribute -> relationship".
	Detail string
}

func (c Change) String() string {
	if c.Field == "" {
		return fmt.Sprintf("%s %s", c.Kind, c.Type)
	}

	if c.Detail == "" {
		return fmt.Sprintf("%s %s.%s", c.Kind, c.Type, c.Field)
	}

	return fmt.Sprintf("%s %s.%s (%s)", c.Kind, c.Type, c.Field, c.Detail)
}

// Diff compares two registries. Types are visited in prev's declaration
// order followed by types new in curr, so the result is deterministic.
func Diff(prev, curr *Registry) []Change {
	var changes []Change

	for _, name := range prev.Types() {
		if _, ok := curr.Resolve(name); !ok {
			changes = append(changes, Change{Kind: ChangeTypeRemoved, Type: name})
		}
	}

	for _, name := range curr.Types() {
		cd, _ := curr.Resolve(name)

		pd, ok := prev.Resolve(name)
		if !ok {
			changes = append(changes, Change{Kind: ChangeTypeAdded, Type: name})
			continue
		}

		changes = append(changes, diffFields(name, pd, cd)...)
	}

	return changes
}

func fieldKind(d *TypeDescriptor, field string) string {
	if d.IsRelationship(field) {
		return "relationship"
	}

	return "attribute"
}

func diffFields(name string, prev, curr *TypeDescriptor) []Change {
	var changes []Change

	prevFields := prev.Fields()
	currFields := curr.Fields()

	for _, f := range prevFields {
		if !slices.Contains(currFields, f) {
			changes = append(changes, Change{Kind: ChangeFieldRemoved, Type: name, Field: f, Detail: fieldKind(prev, f)})
		}
	}

	for _, f := range currFields {
		if !slices.Contains(prevFields, f) {
			changes = append(changes, Change{Kind: ChangeFieldAdded, Type: name, Field: f, Detail: fieldKind(curr, f)})
			continue
		}

		if pk, ck := fieldKind(prev, f), fieldKind(curr, f); pk != ck {
			changes = append(changes, Change{Kind: ChangeFieldMoved, Type: name, Field: f, Detail: pk + " -> " + ck})
		}
	}

	return changes
}

// DiffSummary returns a human-readable one-line summary.
func DiffSummary(changes []Change) string {
	counts := make(map[string]int, 5)
	for _, c := range changes {
		counts[c.Kind]++
	}

	if len(changes) == 0 {
		return "no schema changes"
	}

	var parts []string

	add := func(kind, format string) {
		if n := counts[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf(format, n))
		}
	}

	add(ChangeTypeAdded, "+%d type(s)")
	add(ChangeTypeRemoved, "-%d type(s)")
	add(ChangeFieldAdded, "+%d field(s)")
	add(ChangeFieldRemoved, "-%d field(s)")
	add(ChangeFieldMoved, "~%d field(s) moved")

	return strings.Join(parts, ", ")
}
