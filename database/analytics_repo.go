package database

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jonasmwansa/portfolio-backend/models"
)

type AnalyticsRepo struct {
	db *gorm.DB
}

func NewAnalyticsRepo(db *gorm.DB) *AnalyticsRepo {
	return &AnalyticsRepo{db}
}

var dateConflict = []clause.Column{{Name: "date"}}

// Ensure creates the row for day if it does not exist yet.
func (r *AnalyticsRepo) Ensure(ctx context.Context, day datatypes.Date) error {
	row := models.PortfolioAnalytics{Date: day}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   dateConflict,
		DoNothing: true,
	}).Create(&row).Error
}

// Increment adds n to one counter of day's row, creating the row when needed.
// Concurrent increments on the same day accumulate in that single row.
func (r *AnalyticsRepo) Increment(ctx context.Context, day datatypes.Date, counter models.AnalyticsCounter, n int64) error {
	if !counter.Valid() {
		return fmt.Errorf("unknown analytics counter %q", counter)
	}

	row := models.PortfolioAnalytics{Date: day}
	switch counter {
	case models.CounterPageViews:
		row.PageViews = n
	case models.CounterUniqueVisitors:
		row.UniqueVisitors = n
	case models.CounterContactFormSubmissions:
		row.ContactFormSubmissions = n
	case models.CounterResumeDownloads:
		row.ResumeDownloads = n
	}

	column := string(counter)
	table := models.PortfolioAnalytics{}.TableName()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: dateConflict,
		DoUpdates: clause.Assignments(map[string]any{
			column: gorm.Expr(table+"."+column+" + ?", n),
		}),
	}).Create(&row).Error
}

// ForDate returns the row of one day.
func (r *AnalyticsRepo) ForDate(ctx context.Context, day datatypes.Date) (*models.PortfolioAnalytics, error) {
	var row models.PortfolioAnalytics
	if err := r.db.WithContext(ctx).First(&row, "date = ?", day).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Recent returns up to limit rows, newest day first.
func (r *AnalyticsRepo) Recent(ctx context.Context, limit int) ([]*models.PortfolioAnalytics, error) {
	var rows []*models.PortfolioAnalytics
	err := r.db.WithContext(ctx).Order("date DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *AnalyticsRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.PortfolioAnalytics{}).Count(&n).Error
	return n, err
}
