package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// siteSettingsKey is the only value the singleton column may hold. Its
// unique index is what keeps the table at one row.
const siteSettingsKey = 1

// SiteSettings is the site-wide configuration record.
type SiteSettings struct {
	ID                uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Singleton         int       `json:"-" db:"singleton" gorm:"not null;uniqueIndex:idx_site_settings_singleton"`
	SiteName          string    `json:"site_name" db:"site_name" gorm:"type:varchar(100);not null"`
	SiteDescription   string    `json:"site_description" db:"site_description" gorm:"type:text;not null"`
	MaintenanceMode   bool      `json:"maintenance_mode" db:"maintenance_mode" gorm:"not null"`
	GoogleAnalyticsID string    `json:"google_analytics_id" db:"google_analytics_id" gorm:"type:varchar(20);not null"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// SiteSettingsMutableColumns are the columns a save may overwrite on the
// existing row.
var SiteSettingsMutableColumns = []string{"site_name", "site_description", "maintenance_mode", "google_analytics_id", "updated_at"}

// DefaultSiteSettings is used until the settings row has been saved once.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		Singleton:       siteSettingsKey,
		SiteName:        "Jonas Portfolio",
		SiteDescription: "Full Stack Developer & AI Enthusiast",
	}
}

func (s *SiteSettings) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (s *SiteSettings) BeforeSave(tx *gorm.DB) error {
	s.Singleton = siteSettingsKey
	if err := requireText("site_name", s.SiteName); err != nil {
		return err
	}
	if err := maxRunes("site_name", s.SiteName, 100); err != nil {
		return err
	}
	return maxRunes("google_analytics_id", s.GoogleAnalyticsID, 20)
}
