// Package xmp implements a minimal, namespace-aware XML DOM used to parse,
// mutate, and reserialise the XMP/RDF metadata payload carried inside a
// HEIF item. It deliberately does not use encoding/xml's Marshal/Unmarshal:
// those normalise namespace prefixes during round-tripping, which would
// rewrite a file's existing "rdf"/"x" prefixes to whatever encoding/xml
// invents. Parsing instead walks the raw token stream (xml.Decoder.RawToken,
// which does not resolve prefixes) and tracks namespace scope by hand, so
// every element and attribute keeps the literal prefix it was written with.
package xmp

import "errors"

// ErrMalformed is returned when the XMP payload is not well-formed XML.
var ErrMalformed = errors.New("xmp: malformed document")

// ErrNotFound names the case of a lookup (by namespace URI and local name)
// that finds no matching element. No function in this package returns it:
// ElementsByNS returns an empty slice and Attribute reports false instead.
var ErrNotFound = errors.New("xmp: element not found")
