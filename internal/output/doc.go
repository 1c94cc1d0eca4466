// Package output encodes normalized documents and writes them out.
//
// The package is organized around four concerns:
//
//   - Encoding (serializer.go): JSON (indented or compact) and YAML with the
//     document's member order preserved.
//
//   - Formats (registry.go): a [Registry] mapping format names to encoders.
//
//   - Writers (writer.go): pluggable destinations via the [Writer] interface,
//     with [StdoutWriter] and [FileWriter] implementations.
//
//   - Validation (validator.go): structural checks on a document, optionally
//     against a type registry.
package output
