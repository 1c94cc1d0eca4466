package output

import (
	"fmt"
	"strings"

	"github.com/ayangd/jsonapi-factory/internal/document"
	"github.com/ayangd/jsonapi-factory/internal/schema"
)

// ValidationSeverity indicates the severity of a validation finding.
type ValidationSeverity int

const (
	// SeverityError means the document is invalid.
	SeverityError ValidationSeverity = iota
	// SeverityWarning means the document may be problematic.
	SeverityWarning
)

// String returns the severity name.
func (s ValidationSeverity) String() string {
	if s == SeverityError {
		return "error"
	}

	return "warning"
}

// ValidationFinding is a single validation issue.
type ValidationFinding struct {
	Severity ValidationSeverity
	Field    string
	Message  string
}

// Error implements the error interface.
func (f *ValidationFinding) Error() string {
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Field, f.Message)
}

// ValidationResult holds all findings from a validation run.
type ValidationResult struct {
	Findings []ValidationFinding
}

// Errors returns only error-severity findings.
func (r *ValidationResult) Errors() []ValidationFinding {
	return r.filter(SeverityError)
}

// Warnings returns only warning-severity findings.
func (r *ValidationResult) Warnings() []ValidationFinding {
	return r.filter(SeverityWarning)
}

// HasErrors returns true if any error-severity findings exist.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors()) > 0
}

// HasWarnings returns true if any warning-severity findings exist.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings()) > 0
}

func (r *ValidationResult) filter(sev ValidationSeverity) []ValidationFinding {
	var result []ValidationFinding

	for _, f := range r.Findings {
		if f.Severity == sev {
			result = append(result, f)
		}
	}

	return result
}

// ValidateDocument checks doc for missing identities, duplicate resources,
// linkage that points outside the document, and included resources that
// nothing links to. When reg is non-nil every resource is also checked
// against its type descriptor.
func ValidateDocument(doc *document.Document, reg *schema.Registry) *ValidationResult {
	v := &validator{doc: doc, registry: reg}
	v.validate()

	return &v.result
}

type located struct {
	field string
	res   *document.Resource
}

type validator struct {
	doc      *document.Document
	registry *schema.Registry
	result   ValidationResult
}

func (v *validator) addError(field, msg string) {
	v.result.Findings = append(v.result.Findings, ValidationFinding{
		Severity: SeverityError,
		Field:    field,
		Message:  msg,
	})
}

func (v *validator) addWarning(field, msg string) {
	v.result.Findings = append(v.result.Findings, ValidationFinding{
		Severity: SeverityWarning,
		Field:    field,
		Message:  msg,
	})
}

func (v *validator) validate() {
	if v.doc == nil {
		v.addError("document", "document is nil")
		return
	}

	resources := v.locate()

	for _, l := range resources {
		v.validateIdentity(l)
	}

	v.validateUniqueness(resources)
	v.validateLinkage(resources)
	v.validateReachability()

	if v.registry != nil {
		for _, l := range resources {
			v.validateAgainstSchema(l)
		}
	}
}

func (v *validator) locate() []located {
	var out []located

	data := v.doc.Data.Resources()
	for i, r := range data {
		field := "data"
		if v.doc.Data.IsCollection() {
			field = fmt.Sprintf("data[%d]", i)
		}

		out = append(out, located{field: field, res: r})
	}

	for i, r := range v.doc.Included {
		out = append(out, located{field: fmt.Sprintf("included[%d]", i), res: r})
	}

	return out
}

// validateIdentity checks that a resource has an id and a type.
func (v *validator) validateIdentity(l located) {
	if l.res == nil {
		v.addError(l.field, "resource is null")
		return
	}

	if l.res.ID == "" {
		v.addError(l.field+".id", "required field is missing")
	}

	if l.res.Type == "" {
		v.addError(l.field+".type", "required field is missing")
	}
}

// validateUniqueness reports resources emitted more than once.
func (v *validator) validateUniqueness(resources []located) {
	first := make(map[document.Identifier]string, len(resources))

	for _, l := range resources {
		if l.res == nil || l.res.ID == "" || l.res.Type == "" {
			continue
		}

		key := l.res.Key()

		prev, dup := first[l.res.Identifier()]
		if !dup {
			first[l.res.Identifier()] = l.field
			continue
		}

		if isIncluded(l.field) {
			v.addError(l.field, fmt.Sprintf("resource %s duplicates %s", key, prev))
		} else {
			v.addWarning(l.field, fmt.Sprintf("primary resource %s repeats %s", key, prev))
		}
	}
}

// validateLinkage checks that every resource identifier resolves to a
// resource in data or included.
func (v *validator) validateLinkage(resources []located) {
	present := make(map[document.Identifier]struct{}, len(resources))

	for _, l := range resources {
		if l.res != nil {
			present[l.res.Identifier()] = struct{}{}
		}
	}

	for _, l := range resources {
		if l.res == nil {
			continue
		}

		for _, rel := range l.res.Relationships {
			for _, id := range rel.Value.Data.Identifiers() {
				field := l.field + ".relationships." + rel.Key

				if id.ID == "" || id.Type == "" {
					v.addError(field, "resource identifier needs both id and type")
					continue
				}

				if _, ok := present[id]; !ok {
					v.addError(field, fmt.Sprintf("linkage to %s has no matching resource", id.Key()))
				}
			}
		}
	}
}

// validateReachability warns about included resources that cannot be
// reached from primary data through relationships.
func (v *validator) validateReachability() {
	if len(v.doc.Included) == 0 {
		return
	}

	byID := make(map[document.Identifier]*document.Resource, len(v.doc.Included))
	for _, r := range v.doc.Included {
		if r != nil {
			byID[r.Identifier()] = r
		}
	}

	reached := make(map[document.Identifier]struct{})

	var queue []*document.Resource

	for _, r := range v.doc.Data.Resources() {
		if r != nil {
			reached[r.Identifier()] = struct{}{}
			queue = append(queue, r)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, rel := range cur.Relationships {
			for _, id := range rel.Value.Data.Identifiers() {
				if _, ok := reached[id]; ok {
					continue
				}

				reached[id] = struct{}{}

				if next, ok := byID[id]; ok {
					queue = append(queue, next)
				}
			}
		}
	}

	for i, r := range v.doc.Included {
		if r == nil {
			continue
		}

		if _, ok := reached[r.Identifier()]; !ok {
			v.addWarning(fmt.Sprintf("included[%d]", i), fmt.Sprintf("resource %s is not linked from primary data", r.Key()))
		}
	}
}

// validateAgainstSchema compares a resource's members with its descriptor.
func (v *validator) validateAgainstSchema(l located) {
	if l.res == nil || l.res.Type == "" {
		return
	}

	desc, ok := v.registry.Resolve(l.res.Type)
	if !ok {
		v.addError(l.field+".type", fmt.Sprintf("unknown type %q", l.res.Type))
		return
	}

	for _, name := range l.res.Attributes.Keys() {
		if !desc.IsAttribute(name) {
			v.addError(l.field+".attributes."+name, fmt.Sprintf("not an attribute of %s", desc.Type))
		}
	}

	for _, name := range desc.Attributes {
		if _, ok := l.res.Attributes.Get(name); !ok {
			v.addWarning(l.field+".attributes", fmt.Sprintf("attribute %s is missing", name))
		}
	}

	for _, name := range l.res.Relationships.Keys() {
		if !desc.IsRelationship(name) {
			v.addError(l.field+".relationships."+name, fmt.Sprintf("not a relationship of %s", desc.Type))
		}
	}

	for _, name := range desc.Relationships {
		if _, ok := l.res.Relationships.Get(name); !ok {
			v.addWarning(l.field+".relationships", fmt.Sprintf("relationship %s is missing", name))
		}
	}
}

func isIncluded(field string) bool {
	return strings.HasPrefix(field, "included")
}
