package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/jonasmwansa/portfolio-backend/models"
)

type AboutRepo struct {
	db *gorm.DB
}

func NewAboutRepo(db *gorm.DB) *AboutRepo {
	return &AboutRepo{db}
}

// Find returns the profile row, or nil when none has been written yet.
func (r *AboutRepo) Find(ctx context.Context) (*models.About, error) {
	return r.find(ctx)
}

func (r *AboutRepo) find(ctx context.Context, clauses ...clause.Expression) (*models.About, error) {
	var about models.About
	err := r.db.WithContext(ctx).Clauses(clauses...).Order("updated_at DESC").Limit(1).Take(&about).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &about, nil
}

// Exists reports whether a profile row has been written.
func (r *AboutRepo) Exists(ctx context.Context) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.About{}).Count(&n).Error
	return n > 0, err
}

// Upsert writes about onto the existing profile row, creating it on first use.
// The returned row is the persisted one.
func (r *AboutRepo) Upsert(ctx context.Context, about *models.About) (*models.About, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.About
		err := tx.Order("updated_at DESC").Limit(1).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(about).Error
		case err != nil:
			return err
		}
		about.ID = existing.ID
		return tx.Save(about).Error
	})
	if err != nil {
		return nil, err
	}
	return r.find(ctx, dbresolver.Write)
}
