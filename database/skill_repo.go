package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jonasmwansa/portfolio-backend/models"
)

type SkillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) *SkillRepo {
	return &SkillRepo{db}
}

// FindAll returns every skill ordered by category, strongest first
func (r *SkillRepo) FindAll(ctx context.Context) ([]*models.Skill, error) {
	var skills []*models.Skill
	err := r.db.WithContext(ctx).Order("category ASC, proficiency DESC, name ASC").Find(&skills).Error
	return skills, err
}

// FindFeatured returns the skills flagged for prominent display
func (r *SkillRepo) FindFeatured(ctx context.Context) ([]*models.Skill, error) {
	var skills []*models.Skill
	err := r.db.WithContext(ctx).Where("is_featured = ?", true).
		Order("proficiency DESC, name ASC").Find(&skills).Error
	return skills, err
}

// FindByID returns a skill by its ID
func (r *SkillRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.WithContext(ctx).First(&skill, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *SkillRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Skill{}).Count(&n).Error
	return n, err
}

// CountDistinctCategories counts how many categories have at least one skill
func (r *SkillRepo) CountDistinctCategories(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Skill{}).Distinct("category").Count(&n).Error
	return n, err
}

// CountByCategory returns the number of skills per category code
func (r *SkillRepo) CountByCategory(ctx context.Context) (map[models.SkillCategory]int64, error) {
	var rows []struct {
		Category models.SkillCategory
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&models.Skill{}).
		Select("category, COUNT(*) AS total").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.SkillCategory]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Total
	}
	return counts, nil
}

// Add inserts a new skill into the database
func (r *SkillRepo) Add(ctx context.Context, skill *models.Skill) error {
	return r.db.WithContext(ctx).Create(skill).Error
}

// Update updates an existing skill in the database
func (r *SkillRepo) Update(ctx context.Context, skill *models.Skill) error {
	return updateRow(r.db.WithContext(ctx), skill)
}

// Delete removes a skill from the database by id
func (r *SkillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.Skill{}, id)
}
