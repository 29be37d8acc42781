package database

import (
	"context"

	"github.com/jonasmwansa/portfolio-backend/models"
)

// ContentReader exposes the read-only queries the dashboard overview needs.
// With a replica configured these are served by it.
type ContentReader struct {
	d Database
}

func (d Database) ContentReader() ContentReader {
	return ContentReader{d}
}

func (c ContentReader) CountProjects(ctx context.Context) (int64, error) {
	return c.d.projectRepo.Count(ctx)
}

func (c ContentReader) CountFeaturedProjects(ctx context.Context) (int64, error) {
	return c.d.projectRepo.CountFeatured(ctx)
}

func (c ContentReader) CountBlogPosts(ctx context.Context) (int64, error) {
	return c.d.blogPostRepo.Count(ctx)
}

func (c ContentReader) CountSkills(ctx context.Context) (int64, error) {
	return c.d.skillRepo.Count(ctx)
}

func (c ContentReader) CountCertifications(ctx context.Context) (int64, error) {
	return c.d.certificationRepo.Count(ctx)
}

func (c ContentReader) CountSkillCategories(ctx context.Context) (int64, error) {
	return c.d.skillRepo.CountDistinctCategories(ctx)
}

func (c ContentReader) CountSkillsByCategory(ctx context.Context) (map[models.SkillCategory]int64, error) {
	return c.d.skillRepo.CountByCategory(ctx)
}

func (c ContentReader) FindAbout(ctx context.Context) (*models.About, error) {
	return c.d.aboutRepo.Find(ctx)
}

func (c ContentReader) LatestProjects(ctx context.Context, limit int) ([]*models.Project, error) {
	return c.d.projectRepo.Latest(ctx, limit)
}

func (c ContentReader) LatestBlogPosts(ctx context.Context, limit int) ([]*models.BlogPost, error) {
	return c.d.blogPostRepo.Latest(ctx, limit)
}
