package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitfield/jobwatch/internal/domain"
	"gorm.io/gorm"
)

type AlertRepo struct {
	db *gorm.DB
}

func NewAlertRepo(db *gorm.DB) *AlertRepo {
	return &AlertRepo{db: db}
}

func (r *AlertRepo) Create(ctx context.Context, alert *domain.Alert) error {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	model := alertToModel(alert)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	*alert = alertToDomain(model)
	return nil
}

func (r *AlertRepo) GetByID(ctx context.Context, id string) (*domain.Alert, error) {
	var model alertModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	alert := alertToDomain(model)
	return &alert, nil
}

func (r *AlertRepo) GetByWatchAndExternal(ctx context.Context, watchID, externalID string) (*domain.Alert, error) {
	var model alertModel
	err := r.db.WithContext(ctx).
		First(&model, "watch_id = ? AND external_id = ?", watchID, externalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	alert := alertToDomain(model)
	return &alert, nil
}

// RecordSeen writes back the reconciled fields of an existing alert. The seen
// counter is incremented in SQL so concurrent check runs cannot lose counts;
// the stored value is reloaded into the alert before returning.
func (r *AlertRepo) RecordSeen(ctx context.Context, alert *domain.Alert) error {
	model := alertToModel(alert)
	result := r.db.WithContext(ctx).Model(&alertModel{}).
		Where("id = ?", alert.ID).
		Updates(map[string]interface{}{
			"title":             model.Title,
			"url":               model.URL,
			"location":          model.Location,
			"posted_at":         model.PostedAt,
			"source_updated_at": model.SourceUpdatedAt,
			"matched_keywords":  model.MatchedKeywords,
			"status":            model.Status,
			"last_seen_at":      model.LastSeenAt,
			"seen_count":        gorm.Expr("seen_count + ?", 1),
			"is_active":         model.IsActive,
			"stale_at":          model.StaleAt,
			"repost_count":      model.RepostCount,
			"last_reposted_at":  model.LastRepostedAt,
			"notified_at":       model.NotifiedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	var seenCount int
	err := r.db.WithContext(ctx).Model(&alertModel{}).
		Select("seen_count").
		Where("id = ?", alert.ID).
		Scan(&seenCount).Error
	if err != nil {
		return err
	}
	alert.SeenCount = seenCount
	return nil
}

func (r *AlertRepo) MarkNotified(ctx context.Context, id string, channel domain.Channel, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&alertModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      string(domain.AlertStatusNotified),
			"channel":     string(channel),
			"notified_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepo) MarkFailed(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&alertModel{}).
		Where("id = ?", id).
		Update("status", string(domain.AlertStatusFailed))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepo) MarkNotifiedBatch(ctx context.Context, ids []string, channel domain.Channel, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&alertModel{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":      string(domain.AlertStatusNotified),
			"channel":     string(channel),
			"notified_at": at,
		}).Error
}

func (r *AlertRepo) MarkStaleExcept(ctx context.Context, watchID string, seenExternalIDs []string, at time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&alertModel{}).
		Where("watch_id = ? AND is_active = ?", watchID, true)
	if len(seenExternalIDs) > 0 {
		query = query.Where("external_id NOT IN ?", seenExternalIDs)
	}
	result := query.Updates(map[string]interface{}{
		"is_active": false,
		"stale_at":  at,
	})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *AlertRepo) ListRecent(ctx context.Context, limit int) ([]domain.Alert, error) {
	var models []alertModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	alerts := make([]domain.Alert, 0, len(models))
	for _, model := range models {
		alerts = append(alerts, alertToDomain(model))
	}
	return alerts, nil
}

func (r *AlertRepo) UpdateDecision(ctx context.Context, id string, decision domain.Decision, note string, decidedAt *time.Time) (*domain.Alert, error) {
	result := r.db.WithContext(ctx).Model(&alertModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"user_decision": string(decision),
			"decision_note": note,
			"decided_at":    decidedAt,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}
