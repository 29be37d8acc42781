package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonasmwansa/portfolio-backend/models"
)

type fakeReader struct {
	projects, featured, posts, skills, certs, categories int64
	byCategory                                           map[models.SkillCategory]int64
	about                                                *models.About
	latestProjects                                       []*models.Project
	latestPosts                                          []*models.BlogPost

	failing map[string]error
}

func (f *fakeReader) err(name string) error {
	return f.failing[name]
}

func (f *fakeReader) CountProjects(context.Context) (int64, error) {
	return f.projects, f.err("projects")
}

func (f *fakeReader) CountFeaturedProjects(context.Context) (int64, error) {
	return f.featured, f.err("featured")
}

func (f *fakeReader) CountBlogPosts(context.Context) (int64, error) {
	return f.posts, f.err("posts")
}

func (f *fakeReader) CountSkills(context.Context) (int64, error) {
	return f.skills, f.err("skills")
}

func (f *fakeReader) CountCertifications(context.Context) (int64, error) {
	return f.certs, f.err("certs")
}

func (f *fakeReader) CountSkillCategories(context.Context) (int64, error) {
	return f.categories, f.err("categories")
}

func (f *fakeReader) CountSkillsByCategory(context.Context) (map[models.SkillCategory]int64, error) {
	return f.byCategory, f.err("byCategory")
}

func (f *fakeReader) FindAbout(context.Context) (*models.About, error) {
	return f.about, f.err("about")
}

func (f *fakeReader) LatestProjects(_ context.Context, limit int) ([]*models.Project, error) {
	if len(f.latestProjects) > limit {
		return f.latestProjects[:limit], f.err("latestProjects")
	}
	return f.latestProjects, f.err("latestProjects")
}

func (f *fakeReader) LatestBlogPosts(_ context.Context, limit int) ([]*models.BlogPost, error) {
	if len(f.latestPosts) > limit {
		return f.latestPosts[:limit], f.err("latestPosts")
	}
	return f.latestPosts, f.err("latestPosts")
}

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func completeAbout() *models.About {
	return &models.About{
		FullName:     "Jonas Mwansa",
		JobTitle:     "Applications Developer",
		Bio:          "Builds things.",
		Email:        "jonas@example.com",
		Location:     "Lusaka",
		ProfileImage: "about/jonas.jpg",
	}
}

func overviewOf(r ContentReader) Overview {
	return NewDashboardService(r, WithDashboardClock(func() time.Time { return fixedNow })).Overview(context.Background())
}

func TestOverviewEmptyStore(t *testing.T) {
	o := overviewOf(&fakeReader{})

	assert.Zero(t, o.PortfolioScore)
	assert.Zero(t, o.CompletedSections)
	assert.Equal(t, 5, o.TotalSections)
	assert.Equal(t, NoUpdateDays, o.DaysSinceUpdate)
	assert.Equal(t, fixedNow, o.LastUpdateDate)
	assert.Empty(t, o.SkillCategories)
	assert.NotNil(t, o.RecentProjects)
	assert.NotNil(t, o.RecentPosts)
	assert.Empty(t, o.Degraded)
}

func TestOverviewFullPortfolioScoresHundred(t *testing.T) {
	o := overviewOf(&fakeReader{
		projects: 5, posts: 3, skills: 10, certs: 3, featured: 2, categories: 2,
		about: completeAbout(),
	})

	assert.Equal(t, 100, o.PortfolioScore)
	assert.Equal(t, 5, o.CompletedSections)
	assert.EqualValues(t, 21, o.TotalContentItems)
	assert.EqualValues(t, 2, o.FeaturedItemsCount)
	assert.True(t, o.AboutComplete)
}

func TestOverviewRecency(t *testing.T) {
	newest := &models.Project{Title: "newest", UpdatedAt: fixedNow.Add(-49 * time.Hour)}
	older := &models.Project{Title: "older", UpdatedAt: fixedNow.Add(-100 * time.Hour)}

	o := overviewOf(&fakeReader{projects: 2, latestProjects: []*models.Project{newest, older}})

	assert.Equal(t, 2, o.DaysSinceUpdate)
	assert.Equal(t, newest.UpdatedAt, o.LastUpdateDate)
	require.Len(t, o.RecentProjects, 2)
	assert.Equal(t, "newest", o.RecentProjects[0].Title)
}

func TestOverviewFutureUpdateIsNeverNegative(t *testing.T) {
	future := &models.Project{UpdatedAt: fixedNow.Add(3 * time.Hour)}
	o := overviewOf(&fakeReader{projects: 1, latestProjects: []*models.Project{future}})
	assert.Zero(t, o.DaysSinceUpdate)
}

func TestOverviewIncompleteAboutDoesNotCountSection(t *testing.T) {
	about := completeAbout()
	about.ProfileImage = "  "
	o := overviewOf(&fakeReader{about: about})
	assert.False(t, o.AboutComplete)
	assert.Zero(t, o.CompletedSections)
}

func TestOverviewDegradedMetricsUseFallbacks(t *testing.T) {
	boom := errors.New("relation does not exist")
	o := overviewOf(&fakeReader{
		projects: 4,
		skills:   3,
		failing: map[string]error{
			"featured":       boom,
			"categories":     boom,
			"about":          boom,
			"latestProjects": boom,
			"byCategory":     boom,
		},
	})

	assert.EqualValues(t, 4, o.FeaturedProjectsCount, "featured falls back to the project total")
	assert.EqualValues(t, 1, o.SkillCategoriesCount)
	assert.False(t, o.AboutComplete)
	assert.Equal(t, NoUpdateDays, o.DaysSinceUpdate)
	assert.Empty(t, o.SkillCategories)

	metrics := map[string]string{}
	for _, f := range o.Degraded {
		metrics[f.Metric] = f.Reason
	}
	for _, m := range []string{MetricFeaturedProjects, MetricSkillCategories, MetricAboutComplete, MetricLastUpdate, MetricRecentProjects, MetricSkillBreakdown} {
		assert.Equal(t, boom.Error(), metrics[m], m)
	}
	assert.NotContains(t, metrics, MetricProjectsCount)
}

func TestOverviewCountFailureFallsBackToZero(t *testing.T) {
	o := overviewOf(&fakeReader{
		posts:   3,
		failing: map[string]error{"posts": errors.New("timeout")},
	})
	assert.Zero(t, o.BlogCount)
	require.Len(t, o.Degraded, 1)
	assert.Equal(t, MetricBlogCount, o.Degraded[0].Metric)
}

func TestSkillBreakdown(t *testing.T) {
	counts := map[models.SkillCategory]int64{
		models.SkillCloud:       2,
		models.SkillProgramming: 4,
		models.SkillSoft:        0,
		models.SkillFramework:   1,
	}

	breakdown := SkillBreakdown(counts)
	require.Len(t, breakdown, 3)

	assert.Equal(t, CategoryCount{models.SkillProgramming, "Programming Languages", 4, "#4361ee"}, breakdown[0])
	assert.Equal(t, CategoryCount{models.SkillFramework, "Frameworks & Libraries", 1, "#4cc9f0"}, breakdown[1])
	assert.Equal(t, CategoryCount{models.SkillCloud, "Cloud & DevOps", 2, "#4361ee"}, breakdown[2])

	var total int64
	for _, c := range breakdown {
		assert.Positive(t, c.Count)
		total += c.Count
	}
	assert.EqualValues(t, 7, total)
}

func TestPortfolioScore(t *testing.T) {
	tests := []struct {
		name                           string
		projects, posts, skills, certs int64
		about                          bool
		want                           int
	}{
		{"empty", 0, 0, 0, 0, false, 0},
		{"about only", 0, 0, 0, 0, true, 20},
		{"one of each", 1, 1, 1, 1, false, 5 + 6 + 2 + 5},
		{"targets met", 5, 3, 10, 3, true, 100},
		{"beyond targets", 50, 30, 100, 30, true, 100},
		{"partial", 2, 1, 5, 2, false, 10 + 6 + 10 + 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PortfolioScore(tt.projects, tt.posts, tt.skills, tt.certs, tt.about))
		})
	}
}

func TestPortfolioScoreMonotonic(t *testing.T) {
	for n := int64(0); n < 12; n++ {
		base := PortfolioScore(n, n, n, n, false)
		assert.LessOrEqual(t, base, 100)
		assert.LessOrEqual(t, base, PortfolioScore(n+1, n, n, n, false))
		assert.LessOrEqual(t, base, PortfolioScore(n, n+1, n, n, false))
		assert.LessOrEqual(t, base, PortfolioScore(n, n, n+1, n, false))
		assert.LessOrEqual(t, base, PortfolioScore(n, n, n, n+1, false))
		assert.LessOrEqual(t, base, PortfolioScore(n, n, n, n, true))
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(fixedNow.Add(-23*time.Hour), fixedNow))
	assert.Equal(t, 1, DaysBetween(fixedNow.Add(-24*time.Hour), fixedNow))
	assert.Equal(t, 0, DaysBetween(fixedNow.Add(time.Hour), fixedNow))
}
