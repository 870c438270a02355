package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mwhitfield/jobwatch/internal/domain"
)

type fakeWatchRepo struct {
	mu      sync.Mutex
	watches []domain.Watch
	touched map[string]time.Time
	nextID  int
	listErr error
}

func newFakeWatchRepo(watches ...domain.Watch) *fakeWatchRepo {
	return &fakeWatchRepo{watches: watches, touched: map[string]time.Time{}}
}

func (r *fakeWatchRepo) Create(_ context.Context, watch *domain.Watch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if watch.ID == "" {
		r.nextID++
		watch.ID = fmt.Sprintf("watch-%d", r.nextID)
	}
	watch.CreatedAt = time.Now().UTC()
	watch.UpdatedAt = watch.CreatedAt
	r.watches = append(r.watches, *watch)
	return nil
}

func (r *fakeWatchRepo) GetByID(_ context.Context, id string) (*domain.Watch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.watches {
		if r.watches[i].ID == id {
			watch := r.watches[i]
			return &watch, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeWatchRepo) List(_ context.Context) ([]domain.Watch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Watch(nil), r.watches...), nil
}

func (r *fakeWatchRepo) ListActive(_ context.Context) ([]domain.Watch, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []domain.Watch
	for _, watch := range r.watches {
		if watch.Active {
			active = append(active, watch)
		}
	}
	return active, nil
}

func (r *fakeWatchRepo) Update(_ context.Context, watch *domain.Watch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.watches {
		if r.watches[i].ID == watch.ID {
			watch.UpdatedAt = time.Now().UTC()
			r.watches[i] = *watch
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeWatchRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.watches {
		if r.watches[i].ID == id {
			r.watches = append(r.watches[:i], r.watches[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeWatchRepo) TouchLastChecked(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touched[id] = at
	return nil
}

type fakeAlertRepo struct {
	mu     sync.Mutex
	alerts []*domain.Alert
	nextID int
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{}
}

func (r *fakeAlertRepo) Create(_ context.Context, alert *domain.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.alerts {
		if existing.WatchID == alert.WatchID && existing.ExternalID == alert.ExternalID {
			return fmt.Errorf("duplicate alert for %s/%s", alert.WatchID, alert.ExternalID)
		}
	}
	if alert.ID == "" {
		r.nextID++
		alert.ID = fmt.Sprintf("alert-%d", r.nextID)
	}
	alert.CreatedAt = time.Now().UTC()
	stored := *alert
	r.alerts = append(r.alerts, &stored)
	return nil
}

func (r *fakeAlertRepo) GetByID(_ context.Context, id string) (*domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, alert := range r.alerts {
		if alert.ID == id {
			copied := *alert
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeAlertRepo) GetByWatchAndExternal(_ context.Context, watchID, externalID string) (*domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, alert := range r.alerts {
		if alert.WatchID == watchID && alert.ExternalID == externalID {
			copied := *alert
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeAlertRepo) RecordSeen(_ context.Context, alert *domain.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.alerts {
		if existing.ID == alert.ID {
			count := existing.SeenCount + 1
			stored := *alert
			stored.SeenCount = count
			r.alerts[i] = &stored
			alert.SeenCount = count
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeAlertRepo) MarkNotified(_ context.Context, id string, channel domain.Channel, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, alert := range r.alerts {
		if alert.ID == id {
			alert.Status = domain.AlertStatusNotified
			alert.Channel = channel
			notifiedAt := at
			alert.NotifiedAt = &notifiedAt
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeAlertRepo) MarkFailed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, alert := range r.alerts {
		if alert.ID == id {
			alert.Status = domain.AlertStatusFailed
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeAlertRepo) MarkNotifiedBatch(ctx context.Context, ids []string, channel domain.Channel, at time.Time) error {
	for _, id := range ids {
		if err := r.MarkNotified(ctx, id, channel, at); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeAlertRepo) MarkStaleExcept(_ context.Context, watchID string, seenExternalIDs []string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool, len(seenExternalIDs))
	for _, id := range seenExternalIDs {
		seen[id] = true
	}
	var staled int64
	for _, alert := range r.alerts {
		if alert.WatchID != watchID || !alert.IsActive || seen[alert.ExternalID] {
			continue
		}
		alert.IsActive = false
		staleAt := at
		alert.StaleAt = &staleAt
		staled++
	}
	return staled, nil
}

func (r *fakeAlertRepo) ListRecent(_ context.Context, limit int) ([]domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Alert, 0, len(r.alerts))
	for i := len(r.alerts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.alerts[i])
	}
	return out, nil
}

func (r *fakeAlertRepo) UpdateDecision(_ context.Context, id string, decision domain.Decision, note string, decidedAt *time.Time) (*domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, alert := range r.alerts {
		if alert.ID == id {
			alert.UserDecision = decision
			alert.DecisionNote = note
			alert.DecidedAt = decidedAt
			copied := *alert
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeBoardClient struct {
	postings map[string][]domain.Posting
	errs     map[string]error
	fetches  int
}

func newFakeBoardClient() *fakeBoardClient {
	return &fakeBoardClient{postings: map[string][]domain.Posting{}, errs: map[string]error{}}
}

func (c *fakeBoardClient) Fetch(_ context.Context, _ domain.SourceType, sourceID string, _ domain.FetchOptions) ([]domain.Posting, error) {
	c.fetches++
	if err := c.errs[sourceID]; err != nil {
		return nil, err
	}
	return c.postings[sourceID], nil
}

type fakeNotifier struct {
	sent []domain.AlertMessage
	err  error
}

func (n *fakeNotifier) SendAlert(_ context.Context, msg domain.AlertMessage) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

type fakeDigest struct {
	batches [][]domain.AlertMessage
	err     error
}

func (n *fakeDigest) SendDigest(_ context.Context, msgs []domain.AlertMessage) error {
	if n.err != nil {
		return n.err
	}
	n.batches = append(n.batches, msgs)
	return nil
}

type fakeDetector struct {
	detections []domain.SourceDetection
	err        error
}

func (d *fakeDetector) DetectFromURL(_ context.Context, _ string) ([]domain.SourceDetection, error) {
	return d.detections, d.err
}
