package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mwhitfield/jobwatch/internal/domain"
	"go.uber.org/zap"
)

const defaultMaxRuntime = 30 * time.Second

// CheckOptions parameterizes one check cycle. Zero MaxRuntime falls back to
// defaultMaxRuntime; zero MaxWatches means all active watches; zero
// SourceTimeout uses the board client's default.
type CheckOptions struct {
	Notify        bool
	MaxRuntime    time.Duration
	MaxWatches    int
	SourceTimeout time.Duration
}

// CheckSummary is the result of one check cycle. Errors is the single
// surface for partial failures: a failed provider or notification never
// hides the alerts that did succeed.
type CheckSummary struct {
	WatchesChecked int      `json:"watchesChecked"`
	JobsFetched    int      `json:"jobsFetched"`
	MatchesFound   int      `json:"matchesFound"`
	AlertsCreated  int      `json:"alertsCreated"`
	AlertsNotified int      `json:"alertsNotified"`
	AlertsReposted int      `json:"alertsReposted"`
	AlertsStaled   int      `json:"alertsStaled"`
	TimedOut       bool     `json:"timedOut"`
	Errors         []string `json:"errors"`
}

// CheckUsecase runs the reconciliation cycle: for every active watch it
// fetches postings, matches them, reconciles alert state (create, refresh,
// repost, stale), and dispatches notifications with an email-digest fallback.
// Watches are processed sequentially; a failure in one never aborts the rest.
type CheckUsecase struct {
	watches  domain.WatchRepository
	alerts   domain.AlertRepository
	boards   domain.BoardClient
	notifier domain.AlertNotifier
	digest   domain.DigestNotifier
	logger   *zap.Logger
}

func NewCheckUsecase(
	watches domain.WatchRepository,
	alerts domain.AlertRepository,
	boards domain.BoardClient,
	notifier domain.AlertNotifier,
	digest domain.DigestNotifier,
	logger *zap.Logger,
) *CheckUsecase {
	return &CheckUsecase{
		watches:  watches,
		alerts:   alerts,
		boards:   boards,
		notifier: notifier,
		digest:   digest,
		logger:   logger,
	}
}

type digestEntry struct {
	alertID string
	msg     domain.AlertMessage
}

// Run executes one full check cycle. It returns an error only when the watch
// list itself cannot be loaded; everything below that is recorded in the
// summary's error list instead.
func (u *CheckUsecase) Run(ctx context.Context, opts CheckOptions) (CheckSummary, error) {
	maxRuntime := opts.MaxRuntime
	if maxRuntime <= 0 {
		maxRuntime = defaultMaxRuntime
	}
	deadline := time.Now().Add(maxRuntime)

	watches, err := u.watches.ListActive(ctx)
	if err != nil {
		return CheckSummary{Errors: []string{}}, err
	}
	if opts.MaxWatches > 0 && len(watches) > opts.MaxWatches {
		watches = watches[:opts.MaxWatches]
	}

	summary := CheckSummary{WatchesChecked: len(watches), Errors: []string{}}
	var queue []digestEntry

	for i := range watches {
		// The loop body is coarse-grained enough that checking the budget
		// once per watch is sufficient; already-processed watches keep their
		// committed state.
		if time.Now().After(deadline) {
			summary.TimedOut = true
			summary.Errors = append(summary.Errors, "timed out before finishing all watches")
			break
		}
		u.checkWatch(ctx, &watches[i], opts, &summary, &queue)
	}

	if opts.Notify && len(queue) > 0 {
		u.flushDigest(ctx, queue, &summary)
	}

	u.logger.Info("check cycle complete",
		zap.Int("watches", summary.WatchesChecked),
		zap.Int("fetched", summary.JobsFetched),
		zap.Int("created", summary.AlertsCreated),
		zap.Int("notified", summary.AlertsNotified),
		zap.Int("staled", summary.AlertsStaled),
		zap.Bool("timed_out", summary.TimedOut),
		zap.Int("errors", len(summary.Errors)),
	)
	return summary, nil
}

func (u *CheckUsecase) checkWatch(ctx context.Context, watch *domain.Watch, opts CheckOptions, summary *CheckSummary, queue *[]digestEntry) {
	postings, err := u.boards.Fetch(ctx, watch.SourceType, watch.SourceID, domain.FetchOptions{Timeout: opts.SourceTimeout})
	if err != nil {
		u.logger.Warn("board fetch failed", zap.String("company", watch.Company), zap.String("source", string(watch.SourceType)), zap.Error(err))
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", watch.Company, err))
		return
	}
	summary.JobsFetched += len(postings)

	now := time.Now().UTC()
	seen := make(map[string]bool, len(postings))
	seenIDs := make([]string, 0, len(postings))

	for _, posting := range postings {
		match := MatchPosting(posting, watch.TitleKeywords, watch.LocationKeywords)
		if !match.Matched {
			continue
		}
		summary.MatchesFound++
		if !seen[posting.ExternalID] {
			seen[posting.ExternalID] = true
			seenIDs = append(seenIDs, posting.ExternalID)
		}

		if err := u.reconcilePosting(ctx, watch, posting, match, now, opts, summary, queue); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", watch.Company, err))
			return
		}
	}

	// Stale-marking runs only after every posting of this watch has been
	// reconciled, never interleaved.
	staled, err := u.alerts.MarkStaleExcept(ctx, watch.ID, seenIDs, now)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", watch.Company, err))
		return
	}
	summary.AlertsStaled += int(staled)

	if err := u.watches.TouchLastChecked(ctx, watch.ID, now); err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", watch.Company, err))
	}
}

func (u *CheckUsecase) reconcilePosting(
	ctx context.Context,
	watch *domain.Watch,
	posting domain.Posting,
	match MatchResult,
	now time.Time,
	opts CheckOptions,
	summary *CheckSummary,
	queue *[]digestEntry,
) error {
	existing, err := u.alerts.GetByWatchAndExternal(ctx, watch.ID, posting.ExternalID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if existing == nil {
		alert := &domain.Alert{
			WatchID:         watch.ID,
			ExternalID:      posting.ExternalID,
			Company:         watch.Company,
			Title:           posting.Title,
			URL:             posting.URL,
			Location:        posting.Location,
			PostedAt:        posting.PostedAt,
			SourceUpdatedAt: posting.UpdatedAt,
			MatchedKeywords: match.MatchedKeywords,
			Channel:         domain.ChannelSlack,
			Status:          domain.AlertStatusNew,
			FirstSeenAt:     now,
			LastSeenAt:      now,
			SeenCount:       1,
			IsActive:        true,
		}
		if err := u.alerts.Create(ctx, alert); err != nil {
			return err
		}
		summary.AlertsCreated++
		u.dispatch(ctx, watch, posting, match, alert.ID, opts, summary, queue)
		return nil
	}

	// A repost is either the provider's updated-at advancing on a live alert
	// or a previously stale id resurfacing; both are fresh notifiable events.
	reposted := !existing.IsActive
	if posting.UpdatedAt != nil && (existing.SourceUpdatedAt == nil || posting.UpdatedAt.After(*existing.SourceUpdatedAt)) {
		reposted = true
	}
	if reposted {
		summary.AlertsReposted++
	}

	existing.Company = watch.Company
	existing.Title = posting.Title
	existing.URL = posting.URL
	existing.Location = posting.Location
	if posting.PostedAt != nil {
		existing.PostedAt = posting.PostedAt
	}
	if posting.UpdatedAt != nil {
		existing.SourceUpdatedAt = posting.UpdatedAt
	}
	existing.MatchedKeywords = match.MatchedKeywords
	existing.LastSeenAt = now
	existing.IsActive = true
	existing.StaleAt = nil
	if reposted {
		repostedAt := now
		existing.RepostCount++
		existing.LastRepostedAt = &repostedAt
		existing.Status = domain.AlertStatusNew
		existing.NotifiedAt = nil
	}

	if err := u.alerts.RecordSeen(ctx, existing); err != nil {
		return err
	}

	if !reposted {
		return nil
	}
	summary.AlertsCreated++
	u.dispatch(ctx, watch, posting, match, existing.ID, opts, summary, queue)
	return nil
}

// dispatch attempts the primary channel for one alert. Hidden matches and
// notify-disabled runs are persisted but never dispatched. A primary failure
// queues the alert for the one batched digest attempt at the end of the run.
func (u *CheckUsecase) dispatch(
	ctx context.Context,
	watch *domain.Watch,
	posting domain.Posting,
	match MatchResult,
	alertID string,
	opts CheckOptions,
	summary *CheckSummary,
	queue *[]digestEntry,
) {
	if match.HiddenByKeyword || !opts.Notify {
		return
	}

	msg := domain.AlertMessage{
		Company:         watch.Company,
		Title:           posting.Title,
		URL:             posting.URL,
		Location:        posting.Location,
		SourceType:      watch.SourceType,
		MatchedKeywords: match.MatchedKeywords,
	}

	if err := u.notifier.SendAlert(ctx, msg); err != nil {
		u.logger.Warn("primary notification failed", zap.String("company", watch.Company), zap.String("title", posting.Title), zap.Error(err))
		if err := u.alerts.MarkFailed(ctx, alertID); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", watch.Company, err))
		}
		*queue = append(*queue, digestEntry{alertID: alertID, msg: msg})
		return
	}

	if err := u.alerts.MarkNotified(ctx, alertID, domain.ChannelSlack, time.Now().UTC()); err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", watch.Company, err))
		return
	}
	summary.AlertsNotified++
}

// flushDigest makes the single all-or-nothing fallback attempt: success
// promotes every queued alert to notified on the email channel, failure
// leaves them failed for this run.
func (u *CheckUsecase) flushDigest(ctx context.Context, queue []digestEntry, summary *CheckSummary) {
	msgs := make([]domain.AlertMessage, len(queue))
	ids := make([]string, len(queue))
	for i, entry := range queue {
		msgs[i] = entry.msg
		ids[i] = entry.alertID
	}

	if err := u.digest.SendDigest(ctx, msgs); err != nil {
		u.logger.Warn("digest fallback failed", zap.Int("alerts", len(queue)), zap.Error(err))
		summary.Errors = append(summary.Errors, fmt.Sprintf("email digest failed: %v", err))
		return
	}
	if err := u.alerts.MarkNotifiedBatch(ctx, ids, domain.ChannelEmail, time.Now().UTC()); err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("email digest failed: %v", err))
		return
	}
	summary.AlertsNotified += len(queue)
}
