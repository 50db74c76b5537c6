// Package storage persists encoded diagram images and returns retrievable
// locators.
//
// Two implementations are provided: [HTTPStore] for bucket-style remote
// object storage and [FileStore] for a local directory. [FromEnv] selects
// between them based on whether remote credentials are configured; the
// extraction pipeline is unaware of the choice.
package storage
