// Package domain defines the core business entities for the Neugrove gateway.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Project: A tenant project and its search defaults
//   - Ingest: One ingestion request and its lifecycle
//   - Document: Text fetched from a connector or extracted from a file
//   - Chunk: A unit of a document stored in the vector index
//   - Job: A message published to the background queue
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
