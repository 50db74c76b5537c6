// Package reader is the default PDF content reader.
//
// It implements the content.Document contract over raw PDF bytes: it
// indexes indirect objects by scanning the file (tolerating damaged or
// incrementally-updated cross-reference tables), expands object streams,
// walks the page tree, and interprets each page's content stream into
// positioned text runs and a drawing-operator stream.
//
// The reader is deliberately narrow. FlateDecode is the only supported
// stream filter; images behind DCT/JPX/CCITT filters resolve to nothing
// and are skipped by the pipeline. Text is decoded without font metrics,
// so run widths are nominal estimates.
package reader
