package domain

import (
	"context"
	"time"
)

// Posting is the source-agnostic shape every board adapter produces.
// ExternalID is provider-native and stable across fetches of the same board;
// combined with the owning watch it is the sole deduplication key.
// Postings are ephemeral: they are produced fresh on every fetch and only a
// mapped subset of their fields is ever persisted into an Alert.
type Posting struct {
	ExternalID string
	Title      string
	URL        string
	Location   string
	PostedAt   *time.Time
	UpdatedAt  *time.Time
}

// FetchOptions tunes a single board fetch. A zero Timeout means the client's
// default; preview callers set a short one for bounded latency.
type FetchOptions struct {
	Timeout time.Duration
}

// BoardClient fetches current postings for one board of one provider.
type BoardClient interface {
	Fetch(ctx context.Context, sourceType SourceType, sourceID string, opts FetchOptions) ([]Posting, error)
}
