package db

import (
	"encoding/json"
	"time"

	"github.com/mwhitfield/jobwatch/internal/domain"
)

type watchModel struct {
	ID               string `gorm:"primaryKey;size:36"`
	Company          string `gorm:"not null"`
	SourceType       string `gorm:"size:16;not null;index"`
	SourceID         string `gorm:"not null"`
	TitleKeywords    string `gorm:"type:text"`
	LocationKeywords string `gorm:"type:text"`
	Active           bool   `gorm:"not null;default:true;index"`
	LastCheckedAt    *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (watchModel) TableName() string { return "watches" }

type alertModel struct {
	ID              string `gorm:"primaryKey;size:36"`
	WatchID         string `gorm:"size:36;not null;uniqueIndex:idx_alerts_watch_external,priority:1"`
	ExternalID      string `gorm:"not null;uniqueIndex:idx_alerts_watch_external,priority:2"`
	Company         string `gorm:"not null"`
	Title           string `gorm:"not null"`
	URL             string
	Location        string
	PostedAt        *time.Time
	SourceUpdatedAt *time.Time
	MatchedKeywords string `gorm:"type:text"`
	Channel         string `gorm:"size:16"`
	Status          string `gorm:"size:16;not null;index"`
	UserDecision    string `gorm:"size:16"`
	DecisionNote    string
	DecidedAt       *time.Time
	FirstSeenAt     time.Time `gorm:"not null"`
	LastSeenAt      time.Time `gorm:"not null"`
	SeenCount       int       `gorm:"not null;default:1"`
	IsActive        bool      `gorm:"not null;default:true;index"`
	StaleAt         *time.Time
	RepostCount     int `gorm:"not null;default:0"`
	LastRepostedAt  *time.Time
	NotifiedAt      *time.Time
	CreatedAt       time.Time `gorm:"index"`
}

func (alertModel) TableName() string { return "alerts" }

func encodeKeywords(keywords []string) string {
	if len(keywords) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(keywords)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func decodeKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	var keywords []string
	if err := json.Unmarshal([]byte(raw), &keywords); err != nil {
		return nil
	}
	if len(keywords) == 0 {
		return nil
	}
	return keywords
}

func watchToModel(watch *domain.Watch) watchModel {
	return watchModel{
		ID:               watch.ID,
		Company:          watch.Company,
		SourceType:       string(watch.SourceType),
		SourceID:         watch.SourceID,
		TitleKeywords:    encodeKeywords(watch.TitleKeywords),
		LocationKeywords: encodeKeywords(watch.LocationKeywords),
		Active:           watch.Active,
		LastCheckedAt:    watch.LastCheckedAt,
		CreatedAt:        watch.CreatedAt,
		UpdatedAt:        watch.UpdatedAt,
	}
}

func watchToDomain(model watchModel) domain.Watch {
	return domain.Watch{
		ID:               model.ID,
		Company:          model.Company,
		SourceType:       domain.SourceType(model.SourceType),
		SourceID:         model.SourceID,
		TitleKeywords:    decodeKeywords(model.TitleKeywords),
		LocationKeywords: decodeKeywords(model.LocationKeywords),
		Active:           model.Active,
		LastCheckedAt:    model.LastCheckedAt,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func alertToModel(alert *domain.Alert) alertModel {
	return alertModel{
		ID:              alert.ID,
		WatchID:         alert.WatchID,
		ExternalID:      alert.ExternalID,
		Company:         alert.Company,
		Title:           alert.Title,
		URL:             alert.URL,
		Location:        alert.Location,
		PostedAt:        alert.PostedAt,
		SourceUpdatedAt: alert.SourceUpdatedAt,
		MatchedKeywords: encodeKeywords(alert.MatchedKeywords),
		Channel:         string(alert.Channel),
		Status:          string(alert.Status),
		UserDecision:    string(alert.UserDecision),
		DecisionNote:    alert.DecisionNote,
		DecidedAt:       alert.DecidedAt,
		FirstSeenAt:     alert.FirstSeenAt,
		LastSeenAt:      alert.LastSeenAt,
		SeenCount:       alert.SeenCount,
		IsActive:        alert.IsActive,
		StaleAt:         alert.StaleAt,
		RepostCount:     alert.RepostCount,
		LastRepostedAt:  alert.LastRepostedAt,
		NotifiedAt:      alert.NotifiedAt,
		CreatedAt:       alert.CreatedAt,
	}
}

func alertToDomain(model alertModel) domain.Alert {
	return domain.Alert{
		ID:              model.ID,
		WatchID:         model.WatchID,
		ExternalID:      model.ExternalID,
		Company:         model.Company,
		Title:           model.Title,
		URL:             model.URL,
		Location:        model.Location,
		PostedAt:        model.PostedAt,
		SourceUpdatedAt: model.SourceUpdatedAt,
		MatchedKeywords: decodeKeywords(model.MatchedKeywords),
		Channel:         domain.Channel(model.Channel),
		Status:          domain.AlertStatus(model.Status),
		UserDecision:    domain.Decision(model.UserDecision),
		DecisionNote:    model.DecisionNote,
		DecidedAt:       model.DecidedAt,
		FirstSeenAt:     model.FirstSeenAt,
		LastSeenAt:      model.LastSeenAt,
		SeenCount:       model.SeenCount,
		IsActive:        model.IsActive,
		StaleAt:         model.StaleAt,
		RepostCount:     model.RepostCount,
		LastRepostedAt:  model.LastRepostedAt,
		NotifiedAt:      model.NotifiedAt,
		CreatedAt:       model.CreatedAt,
	}
}
