package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Member is one key/value pair of an ordered JSON object.
type Member[V any] struct {
	Key   string
	Value V
}

// Members is a JSON object whose keys keep insertion order when encoded.
// encoding/json sorts map keys, which would lose descriptor order.
type Members[V any] []Member[V]

// Get returns the value stored under key.
func (m Members[V]) Get(key string) (V, bool) {
	for _, mem := range m {
		if mem.Key == key {
			return mem.Value, true
		}
	}

	var zero V

	return zero, false
}

// Keys returns the keys in order.
func (m Members[V]) Keys() []string {
	keys := make([]string, len(m))
	for i, mem := range m {
		keys[i] = mem.Key
	}

	return keys
}

// MarshalJSON encodes the members as a JSON object in order.
func (m Members[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, mem := range m {
		if i > 0 {
			buf.WriteByte(',')
		}

		if err := encodeValue(&buf, mem.Key); err != nil {
			return nil, err
		}

		buf.WriteByte(':')

		if err := encodeValue(&buf, mem.Value); err != nil {
			return nil, fmt.Errorf("encoding member %q: %w", mem.Key, err)
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// marshal is json.Marshal without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// encodeValue writes v as JSON without HTML escaping and without the
// trailing newline json.Encoder appends.
func encodeValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return err
	}

	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == '\n' {
		buf.Truncate(n - 1)
	}

	return nil
}
