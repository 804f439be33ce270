package domain

// DocumentRequest names one document a batch should ingest.
type DocumentRequest struct {
	// URL is the document location (PDF or web page).
	URL string `toml:"url" json:"url"`

	// Title is the display title to record; defaults to the extracted or
	// URL-derived title when empty.
	Title string `toml:"title" json:"title"`
}

// IngestStatus is the outcome of processing one document.
type IngestStatus string

const (
	// IngestProcessed means the document was chunked, embedded and upserted.
	IngestProcessed IngestStatus = "processed"

	// IngestSkipped means the document was already catalogued as successful
	// and force was not set.
	IngestSkipped IngestStatus = "skipped"

	// IngestFailed means a pipeline stage failed; the failure is catalogued.
	IngestFailed IngestStatus = "failed"
)

// IngestResult reports the outcome for a single document.
type IngestResult struct {
	// URL is the document that was processed.
	URL string

	// Title is the title recorded in the catalog.
	Title string

	// Status is the outcome.
	Status IngestStatus

	// ChunkCount is how many chunks were indexed.
	ChunkCount int

	// Err carries the failure cause when Status is IngestFailed.
	Err error
}

// IngestReport aggregates a batch run. Services return it; the CLI renders
// it. One document's failure never aborts the batch.
type IngestReport struct {
	// Results holds per-document outcomes in input order.
	Results []IngestResult

	// Processed, Skipped and Failed count results by status.
	Processed int
	Skipped   int
	Failed    int
}

// Add appends a result and bumps the matching counter.
func (r *IngestReport) Add(res IngestResult) {
	r.Results = append(r.Results, res)
	switch res.Status {
	case IngestProcessed:
		r.Processed++
	case IngestSkipped:
		r.Skipped++
	case IngestFailed:
		r.Failed++
	}
}

// AllFailed reports whether every document in the batch failed.
// Commands exit non-zero only in that case.
func (r *IngestReport) AllFailed() bool {
	return len(r.Results) > 0 && r.Failed == len(r.Results)
}
