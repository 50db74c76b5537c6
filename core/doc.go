// Package core provides the low-level PDF object model and syntax layer:
// object types (names, numbers, strings, arrays, dictionaries, streams,
// indirect references), a lexer for PDF syntax, and stream decoding.
//
// The same lexer serves both the document body and page content streams.
package core
