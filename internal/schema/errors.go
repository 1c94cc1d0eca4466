package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below via errors.Is.
var (
	ErrDuplicateType     = errors.New("duplicate type")
	ErrInvalidDescriptor = errors.New("invalid type descriptor")
)

// DuplicateTypeError reports two descriptors declaring the same type name.
type DuplicateTypeError struct {
	Type string
	// First and Second are the positions of the clashing descriptors.
	First  int
	Second int
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("duplicate type %q (descriptors #%d and #%d)", e.Type, e.First, e.Second)
}

// Is makes errors.Is(err, ErrDuplicateType) succeed.
func (e *DuplicateTypeError) Is(target error) bool { return target == ErrDuplicateType }

// InvalidDescriptorError reports a descriptor that breaks a structural rule,
// such as overlapping attribute and relationship names.
type InvalidDescriptorError struct {
	Type   string
	Reason string
}

func (e *InvalidDescriptorError) Error() string {
	if e.Type == "" {
		return "invalid type descriptor: " + e.Reason
	}

	return fmt.Sprintf("invalid type descriptor %q: %s", e.Type, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidDescriptor) succeed.
func (e *InvalidDescriptorError) Is(target error) bool { return target == ErrInvalidDescriptor }
