// Package sourcemap reads, writes, and transforms source map v3 documents.
// It encodes and decodes the base64 VLQ "mappings" field, builds maps for
// text prepended in front of generated code, and composes a hook's map onto
// the map produced by an earlier stage so positions keep pointing at the
// original sources.
package sourcemap
