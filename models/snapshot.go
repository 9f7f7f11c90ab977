package models

import "time"

// DataSource tells callers whether records came from the backend or from
// the static fallback set. Handlers surface it so the dashboard can label
// placeholder data instead of presenting it as live.
type DataSource string

const (
	SourceLive     DataSource = "live"
	SourceFallback DataSource = "fallback"
)

// Snapshot is the full normalized record set from one refresh. Snapshots
// are replaced wholesale; records are never merged across refreshes.
type Snapshot struct {
	Records   []IPORecord `json:"records"`
	Source    DataSource  `json:"source"`
	FetchedAt time.Time   `json:"fetched_at"`
}
