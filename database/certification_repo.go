package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jonasmwansa/portfolio-backend/models"
)

type CertificationRepo struct {
	db *gorm.DB
}

func NewCertificationRepo(db *gorm.DB) *CertificationRepo {
	return &CertificationRepo{db}
}

// FindAll returns every certification, most recently issued first
func (r *CertificationRepo) FindAll(ctx context.Context) ([]*models.Certification, error) {
	var certifications []*models.Certification
	err := r.db.WithContext(ctx).Order("issue_date DESC").Find(&certifications).Error
	return certifications, err
}

// FindForHomepage returns the certifications flagged for the homepage
func (r *CertificationRepo) FindForHomepage(ctx context.Context) ([]*models.Certification, error) {
	var certifications []*models.Certification
	err := r.db.WithContext(ctx).Where("display_on_homepage = ?", true).
		Order("issue_date DESC").Find(&certifications).Error
	return certifications, err
}

// FindByID returns a certification by its ID
func (r *CertificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Certification, error) {
	var certification models.Certification
	err := r.db.WithContext(ctx).First(&certification, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &certification, nil
}

func (r *CertificationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Certification{}).Count(&n).Error
	return n, err
}

// Add inserts a new certification into the database
func (r *CertificationRepo) Add(ctx context.Context, certification *models.Certification) error {
	return r.db.WithContext(ctx).Create(certification).Error
}

// Update updates an existing certification in the database
func (r *CertificationRepo) Update(ctx context.Context, certification *models.Certification) error {
	return updateRow(r.db.WithContext(ctx), certification)
}

// Delete removes a certification from the database by id
func (r *CertificationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.Certification{}, id)
}
