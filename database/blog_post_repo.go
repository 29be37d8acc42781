package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jonasmwansa/portfolio-backend/errs"
	"github.com/jonasmwansa/portfolio-backend/models"
)

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// FindAll returns all blog posts, newest first
func (r *BlogPostRepo) FindAll(ctx context.Context) ([]*models.BlogPost, error) {
	var blogPosts []*models.BlogPost
	err := r.db.WithContext(ctx).Order("published_date DESC").Find(&blogPosts).Error
	return blogPosts, err
}

// FindPublished returns the published posts, newest first. A limit <= 0 returns all of them.
func (r *BlogPostRepo) FindPublished(ctx context.Context, limit int) ([]*models.BlogPost, error) {
	var blogPosts []*models.BlogPost
	q := r.published(ctx).Order("published_date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&blogPosts).Error
	return blogPosts, err
}

// FindByID returns a blog post by its ID
func (r *BlogPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	err := r.db.WithContext(ctx).First(&blogPost, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &blogPost, nil
}

// FindPublishedByID returns a published blog post by its ID
func (r *BlogPostRepo) FindPublishedByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	err := r.published(ctx).First(&blogPost, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &blogPost, nil
}

// FindPublishedBySlug returns a published blog post by its slug
func (r *BlogPostRepo) FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	err := r.published(ctx).First(&blogPost, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &blogPost, nil
}

// Latest returns the posts with the most recent publication date, whatever their status
func (r *BlogPostRepo) Latest(ctx context.Context, limit int) ([]*models.BlogPost, error) {
	var blogPosts []*models.BlogPost
	err := r.db.WithContext(ctx).Order("published_date DESC").Limit(limit).Find(&blogPosts).Error
	return blogPosts, err
}

func (r *BlogPostRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.BlogPost{}).Count(&n).Error
	return n, err
}

// SlugTaken reports whether another post already uses slug.
func (r *BlogPostRepo) SlugTaken(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.BlogPost{}).Where("slug = ?", slug)
	if exceptID != uuid.Nil {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

// Add inserts a new blog post into the database
func (r *BlogPostRepo) Add(ctx context.Context, blogPost *models.BlogPost) error {
	if err := r.checkSlug(ctx, blogPost); err != nil {
		return err
	}
	return translateSlugConflict(r.db.WithContext(ctx).Create(blogPost).Error)
}

// Update updates an existing blog post in the database
func (r *BlogPostRepo) Update(ctx context.Context, blogPost *models.BlogPost) error {
	if err := r.checkSlug(ctx, blogPost); err != nil {
		return err
	}
	return translateSlugConflict(updateRow(r.db.WithContext(ctx), blogPost, "view_count"))
}

// IncrementViewCount bumps the view counter without touching updated_at
func (r *BlogPostRepo) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

// Delete removes a blog post from the database by id
func (r *BlogPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.BlogPost{}, id)
}

func (r *BlogPostRepo) published(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("status = ?", models.StatusPublished)
}

// checkSlug fills in a missing slug and rejects one another post already owns.
// The unique index still backs this up for concurrent writers.
func (r *BlogPostRepo) checkSlug(ctx context.Context, blogPost *models.BlogPost) error {
	if blogPost.Slug == "" {
		blogPost.Slug = models.Slugify(blogPost.Title)
	}
	if blogPost.Slug == "" {
		return nil
	}
	taken, err := r.SlugTaken(ctx, blogPost.Slug, blogPost.ID)
	if err != nil {
		return err
	}
	if taken {
		return errs.NewValidationError("slug", "a blog post with this slug already exists")
	}
	return nil
}

func translateSlugConflict(err error) error {
	if err == nil {
		return nil
	}
	if errs.IsDuplicateKey(err) {
		return errs.NewValidationError("slug", "a blog post with this slug already exists")
	}
	return err
}
