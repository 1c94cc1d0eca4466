package normalize

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by the typed errors below via errors.Is.
var (
	ErrNotSerializable = errors.New("object is not serializable")
	ErrUnknownType     = errors.New("unknown type")
	ErrFieldMismatch   = errors.New("field mismatch")
)

// NotSerializableError reports an object without a usable id or type.
type NotSerializableError struct {
	// Path locates the object in the input graph, e.g. "data[0].author".
	Path   string
	Reason string
}

func (e *NotSerializableError) Error() string {
	return fmt.Sprintf("%s: object is not serializable: %s", e.Path, e.Reason)
}

// Is makes errors.Is(err, ErrNotSerializable) succeed.
func (e *NotSerializableError) Is(target error) bool { return target == ErrNotSerializable }

// UnknownTypeError reports an object whose type has no descriptor.
type UnknownTypeError struct {
	Path string
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("%s: unknown type %q", e.Path, e.Type)
}

// Is makes errors.Is(err, ErrUnknownType) succeed.
func (e *UnknownTypeError) Is(target error) bool { return target == ErrUnknownType }

// FieldMismatchError reports an object whose fields do not match its
// descriptor.
type FieldMismatchError struct {
	Path string
	Type string
	ID   string

	// Missing and Extra list field names absent from the object or unknown
	// to the descriptor.
	Missing []string
	Extra   []string

	// Reason describes order, duplicate, or value-kind problems.
	Reason string
}

func (e *FieldMismatchError) Error() string {
	var parts []string

	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}

	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected "+strings.Join(e.Extra, ", "))
	}

	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}

	return fmt.Sprintf("%s: field mismatch for %s[%s]: %s", e.Path, e.Type, e.ID, strings.Join(parts, "; "))
}

// Is makes errors.Is(err, ErrFieldMismatch) succeed.
func (e *FieldMismatchError) Is(target error) bool { return target == ErrFieldMismatch }
