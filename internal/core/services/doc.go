// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// IngestService and ScrapeService run the fetch-normalise-chunk-embed
// pipeline; AnswerService retrieves passages and generates grounded
// answers; CatalogService, AdminService, and SettingsService manage the
// processing record, the remote index, and configuration.
package services
