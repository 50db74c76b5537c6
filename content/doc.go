// Package content defines the contracts between the extraction pipeline and
// the PDF content reader that feeds it.
//
// The pipeline never opens PDF bytes itself. It consumes a [Document] whose
// pages expose positioned [TextRun] values, a drawing-operator stream of
// [Op] values, and named-image resolution returning [RawImage] pixel data.
// The reader package provides the default implementation; tests substitute
// in-memory fakes.
package content
