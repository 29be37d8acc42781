package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jonasmwansa/portfolio-backend/errs"
)

const MaxExcerptLength = 300

// BlogPost represents a complete blog post with metadata
type BlogPost struct {
	ID            uuid.UUID     `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Title         string        `json:"title" db:"title" gorm:"type:varchar(200);not null"`
	Content       string        `json:"content" db:"content" gorm:"type:text;not null"`
	Excerpt       string        `json:"excerpt" db:"excerpt" gorm:"type:text;not null"`
	FeaturedImage string        `json:"featured_image" db:"featured_image" gorm:"type:text;not null"`
	Slug          string        `json:"slug" db:"slug" gorm:"type:varchar(50);not null;uniqueIndex:idx_blog_posts_slug"`
	Status        ContentStatus `json:"status" db:"status" gorm:"type:varchar(20);not null;index"`
	IsFeatured    bool          `json:"is_featured" db:"is_featured" gorm:"not null"`
	ReadTime      int           `json:"read_time" db:"read_time" gorm:"not null"`
	ViewCount     int64         `json:"view_count" db:"view_count" gorm:"not null"`
	PublishedDate time.Time     `json:"published_date" db:"published_date" gorm:"not null;index"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// NewBlogPost returns a post carrying the form defaults.
func NewBlogPost() BlogPost {
	return BlogPost{Status: StatusDraft, ReadTime: 5}
}

func (b *BlogPost) BeforeCreate(tx *gorm.DB) error {
	assignID(&b.ID)
	return nil
}

func (b *BlogPost) BeforeSave(tx *gorm.DB) error {
	b.Title = strings.TrimSpace(b.Title)
	if err := requireText("title", b.Title); err != nil {
		return err
	}
	if err := maxRunes("title", b.Title, 200); err != nil {
		return err
	}
	if err := requireText("content", b.Content); err != nil {
		return err
	}
	if err := maxRunes("excerpt", b.Excerpt, MaxExcerptLength); err != nil {
		return err
	}
	if b.Slug == "" {
		b.Slug = Slugify(b.Title)
	}
	if !ValidSlug(b.Slug) {
		return errs.NewValidationError("slug", "must contain only lowercase letters, numbers, hyphens or underscores")
	}
	if b.ReadTime < 0 {
		return errs.NewValidationError("read_time", "must not be negative")
	}
	if b.PublishedDate.IsZero() {
		b.PublishedDate = tx.NowFunc()
	}
	return checkStatus("status", &b.Status)
}
