// Package watch re-runs normalization when the schema file or an input file
// changes. It watches the parent directories of those files, debounces
// rapid events, and reports schema changes between runs.
package watch
