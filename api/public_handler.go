package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/jonasmwansa/portfolio-backend/database"
	"github.com/jonasmwansa/portfolio-backend/errs"
	"github.com/jonasmwansa/portfolio-backend/models"
	"github.com/jonasmwansa/portfolio-backend/services"
)

const (
	homeFeaturedProjects = 6
	homeLatestPosts      = 3
)

type publicHandler struct {
	responder         Responder
	logger            zerolog.Logger
	projectRepo       *database.ProjectRepo
	skillRepo         *database.SkillRepo
	certificationRepo *database.CertificationRepo
	blogPostRepo      *database.BlogPostRepo
	aboutRepo         *database.AboutRepo
	media             services.MediaStore
	markdown          *services.MarkdownRenderer
	recorder          services.CounterRecorder
}

func newPublicHandler(db database.Database, media services.MediaStore, markdown *services.MarkdownRenderer, recorder services.CounterRecorder) publicHandler {
	logger := log.With().Str("handlerName", "publicHandler").Logger()

	return publicHandler{
		responder:         NewResponder(logger),
		logger:            logger,
		projectRepo:       db.ProjectRepo(),
		skillRepo:         db.SkillRepo(),
		certificationRepo: db.CertificationRepo(),
		blogPostRepo:      db.BlogPostRepo(),
		aboutRepo:         db.AboutRepo(),
		media:             media,
		markdown:          markdown,
		recorder:          recorder,
	}
}

type HomePage struct {
	Settings         *models.SiteSettings    `json:"settings"`
	About            *models.About           `json:"about"`
	FeaturedProjects []*models.Project       `json:"featured_projects"`
	FeaturedSkills   []*models.Skill         `json:"featured_skills"`
	Certifications   []*models.Certification `json:"certifications"`
	LatestPosts      []*models.BlogPost      `json:"latest_posts"`
}

// SkillGroup is one category of the skills matrix.
type SkillGroup struct {
	Category models.SkillCategory `json:"category"`
	Name     string               `json:"name"`
	Skills   []*models.Skill      `json:"skills"`
}

type AboutPage struct {
	Settings       *models.SiteSettings    `json:"settings"`
	About          *models.About           `json:"about"`
	SkillGroups    []SkillGroup            `json:"skill_groups"`
	Certifications []*models.Certification `json:"certifications"`
}

type ContactPage struct {
	Settings    *models.SiteSettings `json:"settings"`
	OwnerName   string               `json:"owner_name"`
	Email       string               `json:"email"`
	Phone       string               `json:"phone"`
	Location    string               `json:"location"`
	GithubURL   string               `json:"github_url"`
	LinkedinURL string               `json:"linkedin_url"`
	TwitterURL  string               `json:"twitter_url"`
}

// groupSkills buckets skills by category in declaration order, leaving out
// empty categories.
func groupSkills(skills []*models.Skill) []SkillGroup {
	byCategory := make(map[models.SkillCategory][]*models.Skill)
	for _, s := range skills {
		byCategory[s.Category] = append(byCategory[s.Category], s)
	}

	groups := make([]SkillGroup, 0, len(byCategory))
	for _, choice := range models.SkillCategories {
		if members := byCategory[choice.Code]; len(members) > 0 {
			groups = append(groups, SkillGroup{Category: choice.Code, Name: choice.Name, Skills: members})
		}
	}
	return groups
}

// home gathers the landing page sections concurrently.
// @Router / [get]
func (h publicHandler) home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := HomePage{Settings: ctxGetSettings(r.Context())}

		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() (err error) {
			page.About, err = h.aboutRepo.Find(ctx)
			return err
		})
		g.Go(func() (err error) {
			page.FeaturedProjects, err = h.projectRepo.FindFeatured(ctx, homeFeaturedProjects)
			return err
		})
		g.Go(func() (err error) {
			page.FeaturedSkills, err = h.skillRepo.FindFeatured(ctx)
			return err
		})
		g.Go(func() (err error) {
			page.Certifications, err = h.certificationRepo.FindForHomepage(ctx)
			return err
		})
		g.Go(func() (err error) {
			page.LatestPosts, err = h.blogPostRepo.FindPublished(ctx, homeLatestPosts)
			return err
		})
		if err := g.Wait(); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "home page", err))
			return
		}

		h.responder.WriteJSON(w, page)
	}
}

// @Router /about [get]
func (h publicHandler) about() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := AboutPage{Settings: ctxGetSettings(r.Context())}

		var skills []*models.Skill
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() (err error) {
			page.About, err = h.aboutRepo.Find(ctx)
			return err
		})
		g.Go(func() (err error) {
			skills, err = h.skillRepo.FindAll(ctx)
			return err
		})
		g.Go(func() (err error) {
			page.Certifications, err = h.certificationRepo.FindAll(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "about page", err))
			return
		}

		page.SkillGroups = groupSkills(skills)
		h.responder.WriteJSON(w, page)
	}
}

// resume counts the download and redirects to the stored file.
// @Router /about/resume [get]
func (h publicHandler) resume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		about, err := h.aboutRepo.Find(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "about", err))
			return
		}
		if about == nil || about.Resume == "" {
			h.responder.WriteError(w, errs.NewNotFoundError("no resume has been uploaded"))
			return
		}

		if err := h.recorder.Record(r.Context(), models.CounterResumeDownloads); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to record resume download")
		}

		http.Redirect(w, r, h.media.URL(about.Resume), http.StatusFound)
	}
}

// @Router /projects [get]
func (h publicHandler) projects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindPublic(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{Projects: projects, Total: len(projects)})
	}
}

// @Router /projects/{projectID} [get]
func (h publicHandler) project() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindPublicByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// @Router /blogs [get]
func (h publicHandler) blogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPosts, err := h.blogPostRepo.FindPublished(r.Context(), 0)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog posts", "blog_posts", err))
			return
		}

		h.responder.WriteJSON(w, BlogPostCollection{BlogPosts: blogPosts, Total: len(blogPosts)})
	}
}

// blogPost resolves a published post by ID or slug, renders it and counts
// the view.
// @Router /blogs/{idOrSlug} [get]
func (h publicHandler) blogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "idOrSlug")

		var (
			blogPost *models.BlogPost
			err      error
		)
		if id, parseErr := uuid.Parse(key); parseErr == nil {
			blogPost, err = h.blogPostRepo.FindPublishedByID(r.Context(), id)
		} else {
			blogPost, err = h.blogPostRepo.FindPublishedBySlug(r.Context(), key)
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog post", "blog_post", err))
			return
		}

		if err := h.blogPostRepo.IncrementViewCount(r.Context(), blogPost.ID); err != nil {
			h.logger.Warn().Err(err).Str("blogPostID", blogPost.ID.String()).Msg("Failed to increment view count")
		} else {
			blogPost.ViewCount++
		}

		detail, err := renderPost(h.markdown, blogPost)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, detail)
	}
}

// @Router /contact [get]
func (h publicHandler) contact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		about, err := h.aboutRepo.Find(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "about", err))
			return
		}

		page := ContactPage{Settings: ctxGetSettings(r.Context())}
		if about != nil {
			page.OwnerName = about.FullName
			page.Email = about.Email
			page.Phone = about.Phone
			page.Location = about.Location
			page.GithubURL = about.GithubURL
			page.LinkedinURL = about.LinkedinURL
			page.TwitterURL = about.TwitterURL
		}
		h.responder.WriteJSON(w, page)
	}
}
