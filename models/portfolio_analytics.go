package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalyticsCounter names one of the per-day counters.
type AnalyticsCounter string

const (
	CounterPageViews              AnalyticsCounter = "page_views"
	CounterUniqueVisitors         AnalyticsCounter = "unique_visitors"
	CounterContactFormSubmissions AnalyticsCounter = "contact_form_submissions"
	CounterResumeDownloads        AnalyticsCounter = "resume_downloads"
)

func (c AnalyticsCounter) Valid() bool {
	switch c {
	case CounterPageViews, CounterUniqueVisitors, CounterContactFormSubmissions, CounterResumeDownloads:
		return true
	}
	return false
}

// PortfolioAnalytics holds the traffic counters for one calendar day.
type PortfolioAnalytics struct {
	ID                     uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Date                   datatypes.Date `json:"date" db:"date" gorm:"not null;uniqueIndex:idx_portfolio_analytics_date"`
	PageViews              int64          `json:"page_views" db:"page_views" gorm:"not null"`
	UniqueVisitors         int64          `json:"unique_visitors" db:"unique_visitors" gorm:"not null"`
	ContactFormSubmissions int64          `json:"contact_form_submissions" db:"contact_form_submissions" gorm:"not null"`
	ResumeDownloads        int64          `json:"resume_downloads" db:"resume_downloads" gorm:"not null"`
}

func (PortfolioAnalytics) TableName() string {
	return "portfolio_analytics"
}

func (p *PortfolioAnalytics) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
