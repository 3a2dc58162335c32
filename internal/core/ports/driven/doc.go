// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ProjectStore, IngestStore: Relational persistence (sqlite, postgres, memory)
//   - VectorStore: Per-project vector collections
//   - EmbeddingService: Text to vector (OpenAI compatible APIs)
//   - ObjectStore: Uploaded file bytes (local directory, S3)
//   - JobQueue: Background job boundary (memory, Redis, SQS)
//   - Locker: Per-ingest mutual exclusion across workers
//   - SecretStore: Connector credentials (env, Vault, AWS Secrets Manager)
//
// # Pluggable Interfaces
//
//   - Connector: Fetches documents from a third-party source
//   - TextExtractor: Turns file bytes into text
//   - Splitter: Cuts text into chunks
//   - URLFetcher: Downloads URL ingests
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or extractor package
package driven
