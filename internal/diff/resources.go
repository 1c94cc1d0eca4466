package diff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/ayangd/jsonapi-factory/internal/document"
)

// ChangeType classifies a resource change.
type ChangeType string

// Resource change types.
const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
	ChangeMoved    ChangeType = "moved"
)

// ResourceChange is a difference in one resource between two documents.
type ResourceChange struct {
	Type    ChangeType `json:"type"`
	Key     string     `json:"key"`
	Details string     `json:"details"`
}

// String renders the change as "<symbol> key: details".
func (c ResourceChange) String() string {
	symbol := map[ChangeType]string{
		ChangeAdded:    "+",
		ChangeRemoved:  "-",
		ChangeModified: "~",
		ChangeMoved:    ">",
	}[c.Type]

	return fmt.Sprintf("%s %s: %s", symbol, c.Key, c.Details)
}

type placed struct {
	section string
	res     *document.Resource
}

// CompareResources matches resources of both documents by (type, id) and
// reports additions, removals, content changes, and moves between data and
// included. Changes are sorted by key.
func CompareResources(oldDoc, newDoc *document.Document) ([]ResourceChange, error) {
	oldIdx := index(oldDoc)
	newIdx := index(newDoc)

	var changes []ResourceChange

	for id, o := range oldIdx {
		if _, ok := newIdx[id]; !ok {
			changes = append(changes, ResourceChange{Type: ChangeRemoved, Key: id.Key(), Details: "resource removed from " + o.section})
		}
	}

	for id, n := range newIdx {
		key := id.Key()

		o, ok := oldIdx[id]
		if !ok {
			changes = append(changes, ResourceChange{Type: ChangeAdded, Key: key, Details: "resource added to " + n.section})
			continue
		}

		if o.section != n.section {
			changes = append(changes, ResourceChange{
				Type:    ChangeMoved,
				Key:     key,
				Details: fmt.Sprintf("moved from %s to %s", o.section, n.section),
			})
		}

		fields, err := changedMembers(o.res, n.res)
		if err != nil {
			return nil, err
		}

		if len(fields) > 0 {
			changes = append(changes, ResourceChange{
				Type:    ChangeModified,
				Key:     key,
				Details: "changed " + strings.Join(fields, ", "),
			})
		}
	}

	sort.SliceStable(changes, func(i, j int) bool {
		if changes[i].Key != changes[j].Key {
			return changes[i].Key < changes[j].Key
		}

		return changes[i].Type < changes[j].Type
	})

	return changes, nil
}

func index(doc *document.Document) map[document.Identifier]placed {
	idx := make(map[document.Identifier]placed)
	if doc == nil {
		return idx
	}

	for _, r := range doc.Data.Resources() {
		if r != nil {
			idx[r.Identifier()] = placed{section: "data", res: r}
		}
	}

	for _, r := range doc.Included {
		if r == nil {
			continue
		}

		if _, ok := idx[r.Identifier()]; !ok {
			idx[r.Identifier()] = placed{section: "included", res: r}
		}
	}

	return idx
}

// changedMembers lists the attribute and relationship names whose encoded
// values differ, including member order changes.
func changedMembers(a, b *document.Resource) ([]string, error) {
	var out []string

	attrs, err := changedKeys("attributes", a.Attributes.Keys(), b.Attributes.Keys(), func(k string) (any, any) {
		av, _ := a.Attributes.Get(k)
		bv, _ := b.Attributes.Get(k)

		return av, bv
	})
	if err != nil {
		return nil, err
	}

	out = append(out, attrs...)

	rels, err := changedKeys("relationships", a.Relationships.Keys(), b.Relationships.Keys(), func(k string) (any, any) {
		av, _ := a.Relationships.Get(k)
		bv, _ := b.Relationships.Get(k)

		return av, bv
	})
	if err != nil {
		return nil, err
	}

	return append(out, rels...), nil
}

func changedKeys(section string, aKeys, bKeys []string, values func(string) (any, any)) ([]string, error) {
	var out []string

	seen := make(map[string]struct{}, len(aKeys)+len(bKeys))

	for _, k := range append(append([]string{}, aKeys...), bKeys...) {
		if _, dup := seen[k]; dup {
			continue
		}

		seen[k] = struct{}{}

		av, bv := values(k)

		aj, err := json.Marshal(av)
		if err != nil {
			return nil, fmt.Errorf("encoding %s.%s: %w", section, k, err)
		}

		bj, err := json.Marshal(bv)
		if err != nil {
			return nil, fmt.Errorf("encoding %s.%s: %w", section, k, err)
		}

		if !bytes.Equal(aj, bj) || !slices.Contains(aKeys, k) || !slices.Contains(bKeys, k) {
			out = append(out, section+"."+k)
		}
	}

	if len(out) == 0 && !slices.Equal(aKeys, bKeys) {
		out = append(out, section+" order")
	}

	return out, nil
}
