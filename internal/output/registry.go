package output

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ayangd/jsonapi-factory/internal/document"
)

// Encoder turns a document into bytes for one output format.
type Encoder func(doc *document.Document, opts Options) ([]byte, error)

// Registry maps format names to encoders.
type Registry struct {
	mu       sync.RWMutex
	encoders map[string]Encoder
	exts     map[string]string
}

// NewRegistry creates an empty encoder registry.
func NewRegistry() *Registry {
	return &Registry{
		encoders: make(map[string]Encoder),
		exts:     make(map[string]string),
	}
}

// Register adds an encoder under the given format name, producing files
// with extension ext. Existing entries for the same name are overwritten.
func (r *Registry) Register(name, ext string, enc Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.encoders[name] = enc
	r.exts[name] = ext
}

// Encoder returns the encoder for the given format, or an error if not found.
func (r *Registry) Encoder(name string) (Encoder, error) {
	r.mu.RLock()
	enc, ok := r.encoders[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, r.AvailableFormats())
	}

	return enc, nil
}

// Extension returns the file extension for the format, including the dot.
func (r *Registry) Extension(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ext, ok := r.exts[name]; ok {
		return ext
	}

	return "." + name
}

// Formats returns the sorted list of registered format names.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.encoders))
	for name := range r.encoders {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// AvailableFormats returns a comma-separated string of registered format names.
func (r *Registry) AvailableFormats() string {
	formats := r.Formats()
	if len(formats) == 0 {
		return "none"
	}

	return strings.Join(formats, ", ")
}

// DefaultRegistry returns a registry with the built-in json and yaml
// encoders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(FormatJSON, ".json", EncodeJSON)
	r.Register(FormatYAML, ".yaml", EncodeYAML)

	return r
}
