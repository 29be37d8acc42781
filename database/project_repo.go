package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jonasmwansa/portfolio-backend/models"
)

// projectOrder is the listing order used everywhere projects are shown.
const projectOrder = "display_order ASC, created_at DESC"

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns every project in display order
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).Order(projectOrder).Find(&projects).Error
	return projects, err
}

// FindPublic returns the active, published projects in display order
func (r *ProjectRepo) FindPublic(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.public(ctx).Order(projectOrder).Find(&projects).Error
	return projects, err
}

// FindFeatured returns up to limit public projects flagged as featured
func (r *ProjectRepo) FindFeatured(ctx context.Context, limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.public(ctx).Where("is_featured = ?", true).Order(projectOrder).Limit(limit).Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindPublicByID returns a project by ID only if it is publicly visible
func (r *ProjectRepo) FindPublicByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.public(ctx).First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Latest returns the most recently updated projects
func (r *ProjectRepo) Latest(ctx context.Context, limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).Order("updated_at DESC").Limit(limit).Find(&projects).Error
	return projects, err
}

func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&n).Error
	return n, err
}

func (r *ProjectRepo) CountFeatured(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("is_featured = ?", true).Count(&n).Error
	return n, err
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update updates an existing project in the database
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	return updateRow(r.db.WithContext(ctx), project)
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.Project{}, id)
}

func (r *ProjectRepo) public(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("is_active = ? AND status = ?", true, models.StatusPublished)
}

// updateRow writes every column of model onto its existing row, except the
// omitted ones. A row deleted in the meantime is reported as
// gorm.ErrRecordNotFound rather than inserted again.
func updateRow(db *gorm.DB, model any, omit ...string) error {
	tx := db.Model(model).Select("*")
	if len(omit) > 0 {
		tx = tx.Omit(omit...)
	}
	result := tx.Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// deleteByID deletes one row and reports gorm.ErrRecordNotFound when no row matched.
func deleteByID(db *gorm.DB, model any, id uuid.UUID) error {
	result := db.Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
