package services

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonasmwansa/portfolio-backend/models"
)

// ContentReader is the read-only view of the content store the dashboard
// aggregates over. database.ContentReader implements it.
type ContentReader interface {
	CountProjects(ctx context.Context) (int64, error)
	CountFeaturedProjects(ctx context.Context) (int64, error)
	CountBlogPosts(ctx context.Context) (int64, error)
	CountSkills(ctx context.Context) (int64, error)
	CountCertifications(ctx context.Context) (int64, error)
	CountSkillCategories(ctx context.Context) (int64, error)
	CountSkillsByCategory(ctx context.Context) (map[models.SkillCategory]int64, error)
	FindAbout(ctx context.Context) (*models.About, error)
	LatestProjects(ctx context.Context, limit int) ([]*models.Project, error)
	LatestBlogPosts(ctx context.Context, limit int) ([]*models.BlogPost, error)
}

const (
	MetricProjectsCount       = "projects_count"
	MetricBlogCount           = "blog_count"
	MetricSkillsCount         = "skills_count"
	MetricCertificationsCount = "certifications_count"
	MetricFeaturedProjects    = "featured_projects_count"
	MetricSkillCategories     = "skills_categories_count"
	MetricAboutComplete       = "about_complete"
	MetricLastUpdate          = "last_update_date"
	MetricSkillBreakdown      = "skill_categories"
	MetricRecentProjects      = "recent_projects"
	MetricRecentPosts         = "recent_posts"
)

const (
	// NoUpdateDays is reported as days-since-update when no project exists.
	NoUpdateDays = 999

	totalSections      = 5
	recentProjectLimit = 5
	recentPostLimit    = 3
)

// metricFallbacks holds the value substituted for a count that cannot be read.
// The featured count falls back to the project total instead.
var metricFallbacks = map[string]int64{
	MetricProjectsCount:       0,
	MetricBlogCount:           0,
	MetricSkillsCount:         0,
	MetricCertificationsCount: 0,
	MetricSkillCategories:     1,
}

var skillCategoryColors = []string{"#4361ee", "#4cc9f0", "#f72585", "#7209b7", "#3a0ca3", "#4361ee"}

// CategoryCount is one row of the skill breakdown.
type CategoryCount struct {
	Category models.SkillCategory `json:"category"`
	Name     string               `json:"name"`
	Count    int64                `json:"count"`
	Color    string               `json:"color"`
}

// MetricFailure records a metric that was replaced by its fallback.
type MetricFailure struct {
	Metric string `json:"metric"`
	Reason string `json:"reason"`
}

type Overview struct {
	ProjectsCount       int64 `json:"projects_count"`
	BlogCount           int64 `json:"blog_count"`
	SkillsCount         int64 `json:"skills_count"`
	CertificationsCount int64 `json:"certifications_count"`

	FeaturedProjectsCount int64           `json:"featured_projects_count"`
	SkillCategoriesCount  int64           `json:"skills_categories_count"`
	CompletedSections     int             `json:"completed_sections"`
	TotalSections         int             `json:"total_sections"`
	DaysSinceUpdate       int             `json:"days_since_update"`
	LastUpdateDate        time.Time       `json:"last_update_date"`
	AboutComplete         bool            `json:"about_complete"`
	SkillCategories       []CategoryCount `json:"skill_categories"`
	TotalContentItems     int64           `json:"total_content_items"`
	FeaturedItemsCount    int64           `json:"featured_items_count"`
	PortfolioScore        int             `json:"portfolio_score"`

	RecentProjects []*models.Project  `json:"recent_projects"`
	RecentPosts    []*models.BlogPost `json:"recent_posts"`

	Degraded []MetricFailure `json:"degraded,omitempty"`
}

type DashboardService struct {
	reader ContentReader
	now    func() time.Time
	logger zerolog.Logger
}

func NewDashboardService(reader ContentReader, opts ...func(*DashboardService)) *DashboardService {
	s := &DashboardService{
		reader: reader,
		now:    time.Now,
		logger: log.With().Str("service", "dashboard").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func WithDashboardClock(now func() time.Time) func(*DashboardService) {
	return func(s *DashboardService) {
		s.now = now
	}
}

// Overview computes the dashboard metrics. It never fails: a metric that
// cannot be read takes its fallback and is listed in Degraded.
func (s *DashboardService) Overview(ctx context.Context) Overview {
	agg := &tolerantAggregator{ctx: ctx, logger: s.logger}
	now := s.now()

	var o Overview
	o.ProjectsCount = agg.count(MetricProjectsCount, s.reader.CountProjects)
	o.BlogCount = agg.count(MetricBlogCount, s.reader.CountBlogPosts)
	o.SkillsCount = agg.count(MetricSkillsCount, s.reader.CountSkills)
	o.CertificationsCount = agg.count(MetricCertificationsCount, s.reader.CountCertifications)

	o.FeaturedProjectsCount = agg.countOr(MetricFeaturedProjects, o.ProjectsCount, s.reader.CountFeaturedProjects)
	o.SkillCategoriesCount = agg.count(MetricSkillCategories, s.reader.CountSkillCategories)

	about, err := s.reader.FindAbout(ctx)
	if err != nil {
		agg.fail(MetricAboutComplete, err)
	} else if about != nil {
		o.AboutComplete = about.IsComplete()
	}

	o.TotalSections = totalSections
	o.CompletedSections = completedSections(o.ProjectsCount, o.BlogCount, o.SkillsCount, o.CertificationsCount, o.AboutComplete)

	o.DaysSinceUpdate, o.LastUpdateDate = NoUpdateDays, now
	latest, err := s.reader.LatestProjects(ctx, recentProjectLimit)
	if err != nil {
		agg.fail(MetricLastUpdate, err)
		agg.fail(MetricRecentProjects, err)
		latest = nil
	}
	if len(latest) > 0 {
		o.LastUpdateDate = latest[0].UpdatedAt
		o.DaysSinceUpdate = DaysBetween(latest[0].UpdatedAt, now)
	}
	o.RecentProjects = nonNil(latest)

	byCategory, err := s.reader.CountSkillsByCategory(ctx)
	if err != nil {
		agg.fail(MetricSkillBreakdown, err)
		byCategory = nil
	}
	o.SkillCategories = SkillBreakdown(byCategory)

	posts, err := s.reader.LatestBlogPosts(ctx, recentPostLimit)
	if err != nil {
		agg.fail(MetricRecentPosts, err)
		posts = nil
	}
	o.RecentPosts = nonNil(posts)

	o.TotalContentItems = o.ProjectsCount + o.BlogCount + o.SkillsCount + o.CertificationsCount
	o.FeaturedItemsCount = o.FeaturedProjectsCount
	o.PortfolioScore = PortfolioScore(o.ProjectsCount, o.BlogCount, o.SkillsCount, o.CertificationsCount, o.AboutComplete)
	o.Degraded = agg.failures
	return o
}

// PortfolioScore weights each section by how close it is to its target size:
// projects 5 (25 points), posts 3 (20), skills 10 (20), certifications 3 (15)
// and a complete about profile (20).
func PortfolioScore(projects, posts, skills, certifications int64, aboutComplete bool) int {
	score := ratio(projects, 5)*25 +
		ratio(posts, 3)*20 +
		ratio(skills, 10)*20 +
		ratio(certifications, 3)*15
	if aboutComplete {
		score += 20
	}
	return int(math.Floor(math.Min(100, score)))
}

// SkillBreakdown lists non-empty categories in declaration order, coloured by
// their position in that order.
func SkillBreakdown(counts map[models.SkillCategory]int64) []CategoryCount {
	breakdown := []CategoryCount{}
	for i, choice := range models.SkillCategories {
		n := counts[choice.Code]
		if n <= 0 {
			continue
		}
		breakdown = append(breakdown, CategoryCount{
			Category: choice.Code,
			Name:     choice.Name,
			Count:    n,
			Color:    skillCategoryColors[i%len(skillCategoryColors)],
		})
	}
	return breakdown
}

// DaysBetween returns the whole days elapsed from then to now, never negative.
func DaysBetween(then, now time.Time) int {
	d := now.Sub(then)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

func completedSections(projects, posts, skills, certifications int64, aboutComplete bool) int {
	completed := 0
	for _, n := range []int64{projects, posts, skills, certifications} {
		if n >= 1 {
			completed++
		}
	}
	if aboutComplete {
		completed++
	}
	return completed
}

func ratio(n, target int64) float64 {
	return float64(max(0, min(n, target))) / float64(target)
}

func nonNil[T any](items []*T) []*T {
	if items == nil {
		return []*T{}
	}
	return items
}

type tolerantAggregator struct {
	ctx      context.Context
	logger   zerolog.Logger
	failures []MetricFailure
}

func (a *tolerantAggregator) count(metric string, read func(context.Context) (int64, error)) int64 {
	return a.countOr(metric, metricFallbacks[metric], read)
}

func (a *tolerantAggregator) countOr(metric string, fallback int64, read func(context.Context) (int64, error)) int64 {
	n, err := read(a.ctx)
	if err != nil {
		a.fail(metric, err)
		return fallback
	}
	return n
}

func (a *tolerantAggregator) fail(metric string, err error) {
	a.logger.Warn().Err(err).Str("metric", metric).Msg("Dashboard metric unavailable, using fallback")
	a.failures = append(a.failures, MetricFailure{Metric: metric, Reason: err.Error()})
}
