package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jonasmwansa/portfolio-backend/errs"
)

type SkillCategory string

const (
	SkillProgramming SkillCategory = "programming"
	SkillFramework   SkillCategory = "framework"
	SkillTool        SkillCategory = "tool"
	SkillSoft        SkillCategory = "soft"
	SkillAIML        SkillCategory = "ai_ml"
	SkillCloud       SkillCategory = "cloud"
)

const (
	MinProficiency = 1
	MaxProficiency = 100
)

// SkillCategoryChoice pairs a category code with its display name.
type SkillCategoryChoice struct {
	Code SkillCategory
	Name string
}

// SkillCategories lists every category in declaration order. The dashboard
// breakdown and its colour assignment depend on this order.
var SkillCategories = []SkillCategoryChoice{
	{SkillProgramming, "Programming Languages"},
	{SkillFramework, "Frameworks & Libraries"},
	{SkillTool, "Tools & Technologies"},
	{SkillSoft, "Soft Skills"},
	{SkillAIML, "AI & Machine Learning"},
	{SkillCloud, "Cloud & DevOps"},
}

func (c SkillCategory) Valid() bool {
	for _, choice := range SkillCategories {
		if choice.Code == c {
			return true
		}
	}
	return false
}

func (c SkillCategory) DisplayName() string {
	for _, choice := range SkillCategories {
		if choice.Code == c {
			return choice.Name
		}
	}
	return string(c)
}

// Skill represents one entry of the skills matrix
type Skill struct {
	ID              uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Name            string         `json:"name" db:"name" gorm:"type:varchar(100);not null"`
	Category        SkillCategory  `json:"category" db:"category" gorm:"type:varchar(20);not null;index"`
	Proficiency     int            `json:"proficiency" db:"proficiency" gorm:"not null"`
	IconClass       string         `json:"icon_class" db:"icon_class" gorm:"type:varchar(50);not null"`
	IsFeatured      bool           `json:"is_featured" db:"is_featured" gorm:"not null"`
	YearsExperience float64        `json:"years_experience" db:"years_experience" gorm:"type:numeric(3,1);not null"`
	LastUsed        datatypes.Date `json:"last_used" db:"last_used" gorm:"not null"`
}

// NewSkill returns a skill carrying the form defaults.
func NewSkill() Skill {
	return Skill{YearsExperience: 1, LastUsed: Today(time.Now())}
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (s *Skill) BeforeSave(tx *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)
	if err := requireText("name", s.Name); err != nil {
		return err
	}
	if err := maxRunes("name", s.Name, 100); err != nil {
		return err
	}
	if !s.Category.Valid() {
		return errs.NewValidationError("category", "unknown skill category")
	}
	if s.Proficiency < MinProficiency || s.Proficiency > MaxProficiency {
		return errs.NewValidationError("proficiency", "must be between 1 and 100")
	}
	if s.YearsExperience < 0 || s.YearsExperience >= 100 {
		return errs.NewValidationError("years_experience", "must be between 0 and 99.9")
	}
	if time.Time(s.LastUsed).IsZero() {
		s.LastUsed = Today(time.Now())
	}
	return nil
}
