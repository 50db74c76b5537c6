// Package main provides the entry point for the examine CLI.
//
// examine extracts structured content from exam-paper PDFs: text lines,
// embedded diagrams, and heuristically segmented questions.
//
// Usage:
//
//	examine parse paper.pdf --resource-id 01HZX --category grade-7
//
// See --help for all available options.
package main

// main is the entry point for examine.
func main() {
	Execute()
}
