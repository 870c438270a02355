package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitfield/jobwatch/internal/domain"
	"gorm.io/gorm"
)

type WatchRepo struct {
	db *gorm.DB
}

func NewWatchRepo(db *gorm.DB) *WatchRepo {
	return &WatchRepo{db: db}
}

func (r *WatchRepo) Create(ctx context.Context, watch *domain.Watch) error {
	if watch.ID == "" {
		watch.ID = uuid.NewString()
	}
	model := watchToModel(watch)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	*watch = watchToDomain(model)
	return nil
}

func (r *WatchRepo) GetByID(ctx context.Context, id string) (*domain.Watch, error) {
	var model watchModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	watch := watchToDomain(model)
	return &watch, nil
}

func (r *WatchRepo) List(ctx context.Context) ([]domain.Watch, error) {
	var models []watchModel
	err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&models).Error
	if err != nil {
		return nil, err
	}
	return watchesToDomain(models), nil
}

func (r *WatchRepo) ListActive(ctx context.Context) ([]domain.Watch, error) {
	var models []watchModel
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("updated_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return watchesToDomain(models), nil
}

func (r *WatchRepo) Update(ctx context.Context, watch *domain.Watch) error {
	model := watchToModel(watch)
	result := r.db.WithContext(ctx).Model(&watchModel{}).
		Where("id = ?", watch.ID).
		Updates(map[string]interface{}{
			"company":           model.Company,
			"source_type":       model.SourceType,
			"source_id":         model.SourceID,
			"title_keywords":    model.TitleKeywords,
			"location_keywords": model.LocationKeywords,
			"active":            model.Active,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the watch together with its alerts in one transaction.
func (r *WatchRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("watch_id = ?", id).Delete(&alertModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&watchModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *WatchRepo) TouchLastChecked(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&watchModel{}).
		Where("id = ?", id).
		Update("last_checked_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func watchesToDomain(models []watchModel) []domain.Watch {
	watches := make([]domain.Watch, 0, len(models))
	for _, model := range models {
		watches = append(watches, watchToDomain(model))
	}
	return watches
}
