package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project represents a portfolio project shown on the projects page
type Project struct {
	ID           uuid.UUID     `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Title        string        `json:"title" db:"title" gorm:"type:varchar(200);not null"`
	Description  string        `json:"description" db:"description" gorm:"type:text;not null"`
	Technologies string        `json:"technologies" db:"technologies" gorm:"type:varchar(200);not null"`
	Image        string        `json:"image" db:"image" gorm:"type:text;not null"`
	GithubLink   string        `json:"github_link" db:"github_link" gorm:"type:text;not null"`
	LiveDemoLink string        `json:"live_demo_link" db:"live_demo_link" gorm:"type:text;not null"`
	IsFeatured   bool          `json:"is_featured" db:"is_featured" gorm:"not null;index"`
	IsActive     bool          `json:"is_active" db:"is_active" gorm:"not null"`
	Status       ContentStatus `json:"status" db:"status" gorm:"type:varchar(20);not null"`
	DisplayOrder int           `json:"display_order" db:"display_order" gorm:"not null"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime;index"`
}

// NewProject returns a project carrying the defaults a fresh dashboard form starts with.
func NewProject() Project {
	return Project{IsActive: true, Status: StatusDraft}
}

// TechnologyList splits the comma separated technologies column.
func (p Project) TechnologyList() []string {
	var out []string
	for _, t := range strings.Split(p.Technologies, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

func (p *Project) BeforeSave(tx *gorm.DB) error {
	p.Title = strings.TrimSpace(p.Title)
	if err := requireText("title", p.Title); err != nil {
		return err
	}
	if err := maxRunes("title", p.Title, 200); err != nil {
		return err
	}
	if err := requireText("description", p.Description); err != nil {
		return err
	}
	if err := maxRunes("technologies", p.Technologies, 200); err != nil {
		return err
	}
	return checkStatus("status", &p.Status)
}
