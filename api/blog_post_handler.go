package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonasmwansa/portfolio-backend/database"
	"github.com/jonasmwansa/portfolio-backend/models"
	"github.com/jonasmwansa/portfolio-backend/services"
)

type blogPostHandler struct {
	responder    Responder
	logger       zerolog.Logger
	blogPostRepo *database.BlogPostRepo
	markdown     *services.MarkdownRenderer
}

func newBlogPostHandler(blogPostRepo *database.BlogPostRepo, markdown *services.MarkdownRenderer) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		blogPostRepo: blogPostRepo,
		markdown:     markdown,
	}
}

// BlogPostCollection represents multiple blog posts
type BlogPostCollection struct {
	BlogPosts []*models.BlogPost `json:"blogPosts"`
	Total     int                `json:"total"`
}

// BlogPostDetail is a post together with its rendered content
type BlogPostDetail struct {
	*models.BlogPost
	ContentHTML string `json:"content_html"`
}

func renderPost(markdown *services.MarkdownRenderer, post *models.BlogPost) (BlogPostDetail, error) {
	html, err := markdown.Render(post.Content)
	if err != nil {
		return BlogPostDetail{}, err
	}
	return BlogPostDetail{BlogPost: post, ContentHTML: html}, nil
}

// getAllBlogPosts lists every post, drafts included, newest first
// @Router /dashboard/blog [get]
func (h blogPostHandler) getAllBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPosts, err := h.blogPostRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog posts", "blog_posts", err))
			return
		}

		h.responder.WriteJSON(w, BlogPostCollection{BlogPosts: blogPosts, Total: len(blogPosts)})
	}
}

// getBlogPost returns one post with a rendered preview
// @Router /dashboard/blog/{blogPostID} [get]
func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPostID, err := parseIDParam(r, "blogPostID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		blogPost, err := h.blogPostRepo.FindByID(r.Context(), blogPostID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog post", "blog_post", err))
			return
		}

		detail, err := renderPost(h.markdown, blogPost)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, detail)
	}
}

// createBlogPost creates a post. An empty slug is generated from the title; a
// slug already in use is rejected on the slug field.
// @Router /dashboard/blog [post]
func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPost := models.NewBlogPost()
		if err := decodeJSONBody(w, r, h.logger, "blog post", &blogPost); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		blogPost.ID = uuid.Nil
		blogPost.ViewCount = 0

		if err := h.blogPostRepo.Add(r.Context(), &blogPost); err != nil {
			h.responder.WriteStoreError(w, "create blog post", "blog_post", err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, blogPost)
	}
}

// @Router /dashboard/blog/{blogPostID} [put]
func (h blogPostHandler) updateBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPostID, err := parseIDParam(r, "blogPostID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		blogPost, err := h.blogPostRepo.FindByID(r.Context(), blogPostID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog post", "blog_post", err))
			return
		}

		viewCount := blogPost.ViewCount
		if err := decodeJSONBody(w, r, h.logger, "blog post", blogPost); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		blogPost.ID = blogPostID
		blogPost.ViewCount = viewCount

		if err := h.blogPostRepo.Update(r.Context(), blogPost); err != nil {
			h.responder.WriteStoreError(w, "update blog post", "blog_post", err)
			return
		}

		h.responder.WriteJSON(w, blogPost)
	}
}

// @Router /dashboard/blog/{blogPostID} [delete]
func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPostID, err := parseIDParam(r, "blogPostID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.blogPostRepo.Delete(r.Context(), blogPostID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete blog post", "blog_post", err))
			return
		}

		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "blog post deleted successfully"})
	}
}
