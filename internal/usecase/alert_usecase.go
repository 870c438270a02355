package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mwhitfield/jobwatch/internal/domain"
)

const (
	defaultAlertLimit = 50
	maxAlertLimit     = 200
)

type AlertUsecase struct {
	alerts  domain.AlertRepository
	watches domain.WatchRepository
}

func NewAlertUsecase(alerts domain.AlertRepository, watches domain.WatchRepository) *AlertUsecase {
	return &AlertUsecase{alerts: alerts, watches: watches}
}

type AlertQuery struct {
	Limit         int
	IncludeHidden bool
	View          string
	Search        string
}

// AlertView is an alert enriched with its fit evaluation and owning watch
// for the read surface. Fit is computed on read so keyword edits on the
// watch take effect without re-ingesting.
type AlertView struct {
	Alert domain.Alert
	Fit   FitResult
	Watch *domain.Watch
}

type AlertCounts struct {
	Total    int `json:"total"`
	Hidden   int `json:"hidden"`
	Strong   int `json:"strong"`
	Maybe    int `json:"maybe"`
	FitSkip  int `json:"fitSkip"`
	Reposted int `json:"reposted"`
	Active   int `json:"active"`
	Stale    int `json:"stale"`
	Applied  int `json:"applied"`
	Skipped  int `json:"skipped"`
}

// List returns the newest alerts filtered by the query, plus bucket counts
// computed over the unfiltered page.
func (u *AlertUsecase) List(ctx context.Context, query AlertQuery) ([]AlertView, AlertCounts, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultAlertLimit
	}
	if limit > maxAlertLimit {
		limit = maxAlertLimit
	}

	alerts, err := u.alerts.ListRecent(ctx, limit)
	if err != nil {
		return nil, AlertCounts{}, err
	}

	watches, err := u.watches.List(ctx)
	if err != nil {
		return nil, AlertCounts{}, err
	}
	watchesByID := make(map[string]*domain.Watch, len(watches))
	for i := range watches {
		watchesByID[watches[i].ID] = &watches[i]
	}

	enriched := make([]AlertView, 0, len(alerts))
	for _, alert := range alerts {
		watch := watchesByID[alert.WatchID]
		var titleKeywords, locationKeywords []string
		if watch != nil {
			titleKeywords = watch.TitleKeywords
			locationKeywords = watch.LocationKeywords
		}
		enriched = append(enriched, AlertView{
			Alert: alert,
			Fit:   EvaluateFit(alert.Title, alert.Location, titleKeywords, locationKeywords),
			Watch: watch,
		})
	}

	counts := countAlerts(enriched)

	search := strings.ToLower(strings.TrimSpace(query.Search))
	filtered := make([]AlertView, 0, len(enriched))
	for _, view := range enriched {
		if !query.IncludeHidden && view.Fit.HiddenByKeyword {
			continue
		}
		if !matchesView(view, query.View) {
			continue
		}
		if search != "" {
			haystack := strings.ToLower(view.Alert.Company + " " + view.Alert.Title + " " + view.Alert.Location)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		filtered = append(filtered, view)
	}

	return filtered, counts, nil
}

func matchesView(view AlertView, name string) bool {
	switch name {
	case "new":
		return view.Alert.Status != domain.AlertStatusNotified
	case "reposted":
		return view.Alert.RepostCount >= 1
	case "stale":
		return !view.Alert.IsActive
	case "applied":
		return view.Alert.UserDecision == domain.DecisionApplied
	case "skip":
		return view.Alert.UserDecision == domain.DecisionSkip
	case "strong":
		return view.Fit.Recommendation == FitStrong
	case "maybe":
		return view.Fit.Recommendation == FitMaybe
	case "fit-skip":
		return view.Fit.Recommendation == FitSkip
	default:
		return true
	}
}

func countAlerts(views []AlertView) AlertCounts {
	counts := AlertCounts{Total: len(views)}
	for _, view := range views {
		if view.Fit.HiddenByKeyword {
			counts.Hidden++
		}
		switch view.Fit.Recommendation {
		case FitStrong:
			counts.Strong++
		case FitMaybe:
			counts.Maybe++
		case FitSkip:
			counts.FitSkip++
		}
		if view.Alert.RepostCount > 0 {
			counts.Reposted++
		}
		if view.Alert.IsActive {
			counts.Active++
		} else {
			counts.Stale++
		}
		switch view.Alert.UserDecision {
		case domain.DecisionApplied:
			counts.Applied++
		case domain.DecisionSkip:
			counts.Skipped++
		}
	}
	return counts
}

// Decide records the user's verdict on an alert. An empty decision clears
// the verdict and its timestamp.
func (u *AlertUsecase) Decide(ctx context.Context, id, decisionRaw, note string) (*domain.Alert, error) {
	var decision domain.Decision
	switch domain.Decision(decisionRaw) {
	case domain.DecisionNone, domain.DecisionApplied, domain.DecisionSkip:
		decision = domain.Decision(decisionRaw)
	default:
		return nil, ErrInvalidDecision
	}

	var decidedAt *time.Time
	if decision != domain.DecisionNone {
		now := time.Now().UTC()
		decidedAt = &now
	}

	alert, err := u.alerts.UpdateDecision(ctx, id, decision, strings.TrimSpace(note), decidedAt)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}
	return alert, nil
}
