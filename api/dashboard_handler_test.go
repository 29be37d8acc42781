package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonasmwansa/portfolio-backend/models"
)

func TestProjectLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	rec := env.sendJSON(http.MethodPost, "/dashboard/projects", map[string]any{
		"title":        "Portfolio API",
		"description":  "The site you are reading",
		"technologies": "Go, PostgreSQL",
		"status":       "published",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Project](t, rec.Body)
	assert.True(t, created.IsActive, "omitted is_active takes the default")

	path := "/dashboard/projects/" + created.ID.String()
	rec = env.sendJSON(http.MethodPut, path, map[string]any{"title": "Portfolio Backend"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Project](t, rec.Body)
	assert.Equal(t, "Portfolio Backend", updated.Title)
	assert.Equal(t, "Go, PostgreSQL", updated.Technologies)
	assert.Equal(t, created.ID, updated.ID)

	public := decode[ProjectCollection](t, env.get("/projects").Body)
	require.Len(t, public.Projects, 1)

	require.Equal(t, http.StatusOK, env.sendJSON(http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.authedGet(path).Code)
	assert.Equal(t, http.StatusNotFound, env.sendJSON(http.MethodDelete, path, nil).Code)
}

func TestProjectValidationNamesField(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	rec := env.sendJSON(http.MethodPost, "/dashboard/projects", map[string]any{"title": "No description"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "description", decode[ErrorResponse](t, rec.Body).Field)
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	req := httptest.NewRequest(http.MethodPost, "/dashboard/skills", strings.NewReader("{not json"))
	req.AddCookie(env.cookie)
	assert.Equal(t, http.StatusBadRequest, env.do(req).Code)
}

func TestSkillProficiencyBounds(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	for _, p := range []int{0, 101} {
		rec := env.sendJSON(http.MethodPost, "/dashboard/skills", map[string]any{
			"name": "Go", "category": "programming", "proficiency": p,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "proficiency", decode[ErrorResponse](t, rec.Body).Field)
	}

	for _, p := range []int{1, 100} {
		rec := env.sendJSON(http.MethodPost, "/dashboard/skills", map[string]any{
			"name": "Go", "category": "programming", "proficiency": p,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
}

func TestBlogDuplicateSlugIsRejected(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	post := map[string]any{"title": "First Post", "content": "hello", "slug": "first-post"}
	require.Equal(t, http.StatusCreated, env.sendJSON(http.MethodPost, "/dashboard/blog", post).Code)

	rec := env.sendJSON(http.MethodPost, "/dashboard/blog", post)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "slug", decode[ErrorResponse](t, rec.Body).Field)
}

func TestBlogUpdateKeepsViewCount(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	rec := env.sendJSON(http.MethodPost, "/dashboard/blog", map[string]any{
		"title": "Counting", "content": "body", "status": "published", "view_count": 500,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.BlogPost](t, rec.Body)
	assert.Zero(t, created.ViewCount)

	env.get("/blogs/counting")

	rec = env.sendJSON(http.MethodPut, "/dashboard/blog/"+created.ID.String(), map[string]any{"title": "Counted", "view_count": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.BlogPost](t, rec.Body)
	assert.EqualValues(t, 1, updated.ViewCount)
	assert.Equal(t, "counting", updated.Slug)

	preview := decode[map[string]any](t, env.authedGet("/dashboard/blog/"+created.ID.String()).Body)
	assert.Contains(t, preview["content_html"], "<p>body</p>")
}

func TestCertificationExpiryOnCreate(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	rec := env.sendJSON(http.MethodPost, "/dashboard/certifications", map[string]any{
		"title":                "Old Cert",
		"issuing_organization": "Cloud Co",
		"issue_date":           "2019-01-01T00:00:00Z",
		"expiry_date":          "2020-01-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, decode[models.Certification](t, rec.Body).Expired)

	rec = env.sendJSON(http.MethodPost, "/dashboard/certifications", map[string]any{
		"title":                "Backwards",
		"issuing_organization": "Cloud Co",
		"issue_date":           "2022-01-01T00:00:00Z",
		"expiry_date":          "2021-01-01T00:00:00Z",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "expiry_date", decode[ErrorResponse](t, rec.Body).Field)
}

func TestAboutUpsertThroughDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	assert.Equal(t, http.StatusNotFound, env.authedGet("/dashboard/about").Code)

	rec := env.sendJSON(http.MethodPut, "/dashboard/about", map[string]any{"full_name": "Jonas Mwansa", "email": "jonas@example.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[models.About](t, rec.Body)
	assert.False(t, first.Complete)

	rec = env.sendJSON(http.MethodPut, "/dashboard/about", map[string]any{"job_title": "Engineer"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	second := decode[models.About](t, rec.Body)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Jonas Mwansa", second.FullName)
	assert.Equal(t, "Engineer", second.JobTitle)

	bad := env.sendJSON(http.MethodPut, "/dashboard/about", map[string]any{"email": "not-an-address"})
	require.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Equal(t, "email", decode[ErrorResponse](t, bad.Body).Field)
}

func TestSettingsSaveKeepsSingleRow(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	for _, name := range []string{"First Name", "Second Name"} {
		rec := env.sendJSON(http.MethodPut, "/dashboard/settings", map[string]any{"site_name": name})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	n, err := env.db.SiteSettingsRepo().Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	settings := decode[models.SiteSettings](t, env.authedGet("/dashboard/settings").Body)
	assert.Equal(t, "Second Name", settings.SiteName)
}

func TestAnalyticsReportTotals(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	env.get("/projects")
	env.get("/blogs")

	rec := env.authedGet("/dashboard/analytics")
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[AnalyticsReport](t, rec.Body)
	require.Len(t, report.Days, 1)
	assert.EqualValues(t, 2, report.Totals.PageViews)
}

func TestOverviewCountsContent(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	ctx := context.Background()

	require.NoError(t, env.db.ProjectRepo().Add(ctx, &models.Project{Title: "P", Description: "d", IsFeatured: true}))
	require.NoError(t, env.db.SkillRepo().Add(ctx, &models.Skill{Name: "Go", Category: models.SkillProgramming, Proficiency: 90}))

	overview := decode[map[string]any](t, env.authedGet("/dashboard").Body)
	assert.EqualValues(t, 1, overview["projects_count"])
	assert.EqualValues(t, 1, overview["featured_projects_count"])
	assert.EqualValues(t, 1, overview["skills_count"])
	assert.EqualValues(t, 0, overview["days_since_update"])
	assert.Nil(t, overview["degraded"])
}

func TestMediaUploadIsServed(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("kind", "projects"))
	part, err := form.CreateFormFile("file", "Screen Shot.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake png"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/dashboard/media", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.AddCookie(env.cookie)
	rec := env.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	stored := decode[map[string]string](t, rec.Body)
	assert.True(t, strings.HasPrefix(stored["path"], "projects/"))
	assert.True(t, strings.HasSuffix(stored["path"], "-screen-shot.png"))

	served := env.get(stored["url"])
	require.Equal(t, http.StatusOK, served.Code)
	assert.Equal(t, "fake png", served.Body.String())
}

func TestMediaUploadRejectsUnknownKind(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("kind", "secrets"))
	part, err := form.CreateFormFile("file", "a.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/dashboard/media", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.AddCookie(env.cookie)
	rec := env.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "kind", decode[ErrorResponse](t, rec.Body).Field)
}
