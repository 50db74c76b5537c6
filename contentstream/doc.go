// Package contentstream parses PDF page content streams into a sequence of
// operations.
//
// Each operation pairs an operator with the operands that preceded it in
// the stream. Inline images (BI..EI) are captured whole, with their
// parameter dictionary and raw data.
package contentstream
