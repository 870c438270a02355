package domain

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type WatchRepository interface {
	Create(ctx context.Context, watch *Watch) error
	GetByID(ctx context.Context, id string) (*Watch, error)
	// List returns all watches, most recently updated first.
	List(ctx context.Context) ([]Watch, error)
	// ListActive returns active watches, most recently updated first. The
	// check cycle relies on this ordering being deterministic.
	ListActive(ctx context.Context) ([]Watch, error)
	Update(ctx context.Context, watch *Watch) error
	// Delete removes the watch and all of its alerts.
	Delete(ctx context.Context, id string) error
	TouchLastChecked(ctx context.Context, id string, at time.Time) error
}

type AlertRepository interface {
	Create(ctx context.Context, alert *Alert) error
	GetByID(ctx context.Context, id string) (*Alert, error)
	GetByWatchAndExternal(ctx context.Context, watchID, externalID string) (*Alert, error)
	// RecordSeen persists a reconciliation refresh of an existing alert. The
	// seen counter is incremented atomically in storage; alert.SeenCount is
	// updated to the stored value on return.
	RecordSeen(ctx context.Context, alert *Alert) error
	MarkNotified(ctx context.Context, id string, channel Channel, at time.Time) error
	MarkFailed(ctx context.Context, id string) error
	MarkNotifiedBatch(ctx context.Context, ids []string, channel Channel, at time.Time) error
	// MarkStaleExcept deactivates every active alert of the watch whose
	// external id is not in seenExternalIDs, returning how many were marked.
	MarkStaleExcept(ctx context.Context, watchID string, seenExternalIDs []string, at time.Time) (int64, error)
	// ListRecent returns up to limit alerts, newest first.
	ListRecent(ctx context.Context, limit int) ([]Alert, error)
	UpdateDecision(ctx context.Context, id string, decision Decision, note string, decidedAt *time.Time) (*Alert, error)
}
