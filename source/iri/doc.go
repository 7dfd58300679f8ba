// Package iri validates IRIs used as generated constant values and derives
// the file-system safe names used for local vocabulary copies.
//
// # Validation
//
// Validate accepts absolute IRIs only:
//
//   - A scheme is required (http, https, urn, mailto, ...)
//   - Hierarchical IRIs (http, https, ftp) need a host
//   - Internationalized host names must convert to ASCII via IDNA
//   - Whitespace and angle brackets are never allowed
//
// # File Names
//
// Mangle turns an IRI into the suffix of a local copy file name:
//
//	http://rdf-extension.com# → http---rdf-extension.com#
package iri
