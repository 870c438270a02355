package domain

import "context"

// AlertMessage is the channel-agnostic payload handed to notifiers.
type AlertMessage struct {
	Company         string
	Title           string
	URL             string
	Location        string
	SourceType      SourceType
	MatchedKeywords []string
}

// AlertNotifier delivers one alert on the primary channel.
type AlertNotifier interface {
	SendAlert(ctx context.Context, msg AlertMessage) error
}

// DigestNotifier delivers a batch of alerts in a single fallback message.
// A nil error means the whole batch was delivered; there is no partial
// success.
type DigestNotifier interface {
	SendDigest(ctx context.Context, msgs []AlertMessage) error
}

// SourceDetection is one candidate (source type, board slug) pair extracted
// from a careers-page URL or its HTML.
type SourceDetection struct {
	SourceType SourceType
	SourceID   string
	Confidence string // "high" or "medium"
	Reason     string
}

type SourceDetector interface {
	DetectFromURL(ctx context.Context, pageURL string) ([]SourceDetection, error)
}
