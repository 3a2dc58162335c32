// Package extractors provides TextExtractor implementations for the content
// types accepted by file and URL ingests. Each extractor knows how to turn
// raw bytes of one format into plain text.
//
// Extractors are registered with the Registry at startup.
package extractors
