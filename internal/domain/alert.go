package domain

import "time"

// AlertStatus tracks notification progress for an alert within check runs.
type AlertStatus string

const (
	AlertStatusNew      AlertStatus = "new"
	AlertStatusNotified AlertStatus = "notified"
	AlertStatusFailed   AlertStatus = "failed"
)

// Channel names the notification channel an alert was (last) dispatched on.
type Channel string

const (
	ChannelSlack Channel = "slack"
	ChannelEmail Channel = "email"
)

// Decision is the user's verdict on an alert. Empty means undecided.
type Decision string

const (
	DecisionNone    Decision = ""
	DecisionApplied Decision = "applied"
	DecisionSkip    Decision = "skip"
)

// Alert is the durable record that a watch has observed a given posting.
// (WatchID, ExternalID) is unique: one alert per posting per watch, ever.
// SeenCount only increases. IsActive and StaleAt are mutually exclusive:
// active alerts always have StaleAt == nil.
type Alert struct {
	ID              string
	WatchID         string
	ExternalID      string
	Company         string
	Title           string
	URL             string
	Location        string
	PostedAt        *time.Time
	SourceUpdatedAt *time.Time
	MatchedKeywords []string
	Channel         Channel
	Status          AlertStatus
	UserDecision    Decision
	DecisionNote    string
	DecidedAt       *time.Time
	FirstSeenAt     time.Time
	LastSeenAt      time.Time
	SeenCount       int
	IsActive        bool
	StaleAt         *time.Time
	RepostCount     int
	LastRepostedAt  *time.Time
	NotifiedAt      *time.Time
	CreatedAt       time.Time
}
