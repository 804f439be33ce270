// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - Fetcher: Retrieves raw document bytes from a URL
//   - Normaliser: Extracts text from a specific document format
//   - NormaliserRegistry: Selects the appropriate normaliser
//   - PostProcessor / PostProcessorPipeline: Splits and annotates chunks
//   - EmbeddingService: Generates vector embeddings
//   - VectorStore: Hosted vector index (upsert, query, stats)
//   - LLMService: Answer generation
//   - CatalogStore: Processing catalog persistence
//   - SnapshotStore: Scraped chunk persistence
//   - ConfigStore: Application configuration
//   - AIConfigValidator: Connectivity validation for remote services
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
