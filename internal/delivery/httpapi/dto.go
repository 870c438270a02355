package httpapi

import (
	"time"

	"github.com/mwhitfield/jobwatch/internal/domain"
	"github.com/mwhitfield/jobwatch/internal/usecase"
)

type watchResponse struct {
	ID               string     `json:"id"`
	Company          string     `json:"company"`
	SourceType       string     `json:"sourceType"`
	SourceID         string     `json:"sourceId"`
	TitleKeywords    []string   `json:"titleKeywords"`
	LocationKeywords []string   `json:"locationKeywords"`
	Active           bool       `json:"active"`
	LastCheckedAt    *time.Time `json:"lastCheckedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func toWatchResponse(watch *domain.Watch) watchResponse {
	return watchResponse{
		ID:               watch.ID,
		Company:          watch.Company,
		SourceType:       string(watch.SourceType),
		SourceID:         watch.SourceID,
		TitleKeywords:    emptyIfNil(watch.TitleKeywords),
		LocationKeywords: emptyIfNil(watch.LocationKeywords),
		Active:           watch.Active,
		LastCheckedAt:    watch.LastCheckedAt,
		CreatedAt:        watch.CreatedAt,
		UpdatedAt:        watch.UpdatedAt,
	}
}

type alertResponse struct {
	ID              string            `json:"id"`
	WatchID         string            `json:"watchId"`
	ExternalID      string            `json:"externalId"`
	Company         string            `json:"company"`
	Title           string            `json:"title"`
	URL             string            `json:"url"`
	Location        string            `json:"location"`
	PostedAt        *time.Time        `json:"postedAt,omitempty"`
	SourceUpdatedAt *time.Time        `json:"sourceUpdatedAt,omitempty"`
	MatchedKeywords []string          `json:"matchedKeywords"`
	Channel         string            `json:"channel"`
	Status          string            `json:"status"`
	UserDecision    string            `json:"userDecision"`
	DecisionNote    string            `json:"decisionNote,omitempty"`
	DecidedAt       *time.Time        `json:"decidedAt,omitempty"`
	FirstSeenAt     time.Time         `json:"firstSeenAt"`
	LastSeenAt      time.Time         `json:"lastSeenAt"`
	SeenCount       int               `json:"seenCount"`
	IsActive        bool              `json:"isActive"`
	StaleAt         *time.Time        `json:"staleAt,omitempty"`
	RepostCount     int               `json:"repostCount"`
	LastRepostedAt  *time.Time        `json:"lastRepostedAt,omitempty"`
	NotifiedAt      *time.Time        `json:"notifiedAt,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	Fit             usecase.FitResult `json:"fit"`
	WatchCompany    string            `json:"watchCompany,omitempty"`
}

func toAlertResponse(view usecase.AlertView) alertResponse {
	resp := alertResponse{
		ID:              view.Alert.ID,
		WatchID:         view.Alert.WatchID,
		ExternalID:      view.Alert.ExternalID,
		Company:         view.Alert.Company,
		Title:           view.Alert.Title,
		URL:             view.Alert.URL,
		Location:        view.Alert.Location,
		PostedAt:        view.Alert.PostedAt,
		SourceUpdatedAt: view.Alert.SourceUpdatedAt,
		MatchedKeywords: emptyIfNil(view.Alert.MatchedKeywords),
		Channel:         string(view.Alert.Channel),
		Status:          string(view.Alert.Status),
		UserDecision:    string(view.Alert.UserDecision),
		DecisionNote:    view.Alert.DecisionNote,
		DecidedAt:       view.Alert.DecidedAt,
		FirstSeenAt:     view.Alert.FirstSeenAt,
		LastSeenAt:      view.Alert.LastSeenAt,
		SeenCount:       view.Alert.SeenCount,
		IsActive:        view.Alert.IsActive,
		StaleAt:         view.Alert.StaleAt,
		RepostCount:     view.Alert.RepostCount,
		LastRepostedAt:  view.Alert.LastRepostedAt,
		NotifiedAt:      view.Alert.NotifiedAt,
		CreatedAt:       view.Alert.CreatedAt,
		Fit:             view.Fit,
	}
	if view.Watch != nil {
		resp.WatchCompany = view.Watch.Company
	}
	return resp
}

type detectionResponse struct {
	SourceType string `json:"sourceType"`
	SourceID   string `json:"sourceId"`
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}

func toDetectionResponses(detections []domain.SourceDetection) []detectionResponse {
	out := make([]detectionResponse, 0, len(detections))
	for _, d := range detections {
		out = append(out, detectionResponse{
			SourceType: string(d.SourceType),
			SourceID:   d.SourceID,
			Confidence: d.Confidence,
			Reason:     d.Reason,
		})
	}
	return out
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
