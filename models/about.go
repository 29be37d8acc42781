package models

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jonasmwansa/portfolio-backend/errs"
)

// About holds the owner's profile. One row is expected.
type About struct {
	ID                uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	FullName          string    `json:"full_name" db:"full_name" gorm:"type:varchar(200);not null"`
	JobTitle          string    `json:"job_title" db:"job_title" gorm:"type:varchar(200);not null"`
	Bio               string    `json:"bio" db:"bio" gorm:"type:text;not null"`
	ShortBio          string    `json:"short_bio" db:"short_bio" gorm:"type:text;not null"`
	Email             string    `json:"email" db:"email" gorm:"type:varchar(254);not null"`
	Phone             string    `json:"phone" db:"phone" gorm:"type:varchar(20);not null"`
	Location          string    `json:"location" db:"location" gorm:"type:varchar(100);not null"`
	ProfileImage      string    `json:"profile_image" db:"profile_image" gorm:"type:text;not null"`
	Resume            string    `json:"resume" db:"resume" gorm:"type:text;not null"`
	GithubURL         string    `json:"github_url" db:"github_url" gorm:"type:text;not null"`
	LinkedinURL       string    `json:"linkedin_url" db:"linkedin_url" gorm:"type:text;not null"`
	TwitterURL        string    `json:"twitter_url" db:"twitter_url" gorm:"type:text;not null"`
	PortfolioURL      string    `json:"portfolio_url" db:"portfolio_url" gorm:"type:text;not null"`
	YearsExperience   int       `json:"years_experience" db:"years_experience" gorm:"not null"`
	ProjectsCompleted int       `json:"projects_completed" db:"projects_completed" gorm:"not null"`
	HappyClients      *int      `json:"happy_clients" db:"happy_clients"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	Complete bool `json:"is_complete" gorm:"-"`
}

// IsComplete reports whether every essential profile field is filled in.
func (a About) IsComplete() bool {
	for _, v := range []string{a.FullName, a.JobTitle, a.Bio, a.Email, a.Location, a.ProfileImage} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

func (a *About) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}

func (a *About) BeforeSave(tx *gorm.DB) error {
	if err := maxRunes("short_bio", a.ShortBio, 300); err != nil {
		return err
	}
	if err := maxRunes("phone", a.Phone, 20); err != nil {
		return err
	}
	if a.Email != "" {
		if _, err := mail.ParseAddress(a.Email); err != nil {
			return errs.NewValidationError("email", "enter a valid email address")
		}
	}
	for field, v := range map[string]int{
		"years_experience":   a.YearsExperience,
		"projects_completed": a.ProjectsCompleted,
	} {
		if v < 0 {
			return errs.NewValidationError(field, "must not be negative")
		}
	}
	if a.HappyClients != nil && *a.HappyClients < 0 {
		return errs.NewValidationError("happy_clients", "must not be negative")
	}
	return nil
}

func (a *About) AfterFind(tx *gorm.DB) error {
	a.Complete = a.IsComplete()
	return nil
}
