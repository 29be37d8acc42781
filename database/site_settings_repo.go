package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/jonasmwansa/portfolio-backend/models"
)

type SiteSettingsRepo struct {
	db *gorm.DB
}

func NewSiteSettingsRepo(db *gorm.DB) *SiteSettingsRepo {
	return &SiteSettingsRepo{db}
}

// Get returns the stored settings, or the defaults when nothing has been
// saved yet. The defaults are not persisted.
func (r *SiteSettingsRepo) Get(ctx context.Context) (*models.SiteSettings, error) {
	settings, err := r.find(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.DefaultSiteSettings()
		return &defaults, nil
	}
	return settings, err
}

// Save inserts the settings row or, when it already exists, overwrites its
// mutable fields in a single statement. The identity of an existing row is
// never replaced, so callers must use the returned value rather than the
// one they passed in.
func (r *SiteSettingsRepo) Save(ctx context.Context, settings *models.SiteSettings) (*models.SiteSettings, error) {
	candidate := *settings
	candidate.ID = uuid.Nil

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "singleton"}},
		DoUpdates: clause.AssignmentColumns(models.SiteSettingsMutableColumns),
	}).Create(&candidate).Error
	if err != nil {
		return nil, err
	}
	return r.find(ctx, dbresolver.Write)
}

// Count is used by tests and health checks to confirm the singleton holds.
func (r *SiteSettingsRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.SiteSettings{}).Count(&n).Error
	return n, err
}

func (r *SiteSettingsRepo) find(ctx context.Context, clauses ...clause.Expression) (*models.SiteSettings, error) {
	var settings models.SiteSettings
	if err := r.db.WithContext(ctx).Clauses(clauses...).Take(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
