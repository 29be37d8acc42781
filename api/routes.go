package api

import (
	"github.com/go-chi/chi/v5"
)

// setupPublicRoutes registers the visitor-facing pages. They honour
// maintenance mode and feed the traffic counters.
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, site siteMiddleware, contactRatePerMinute int) {
	r.Group(func(r chi.Router) {
		r.Use(site.loadSettings)
		r.Use(site.maintenanceGate)
		r.Use(site.recordVisits)

		r.Get("/", handlers.publicHandler.home())
		r.Get("/about", handlers.publicHandler.about())
		r.Get("/about/resume", handlers.publicHandler.resume())

		r.Get("/projects", handlers.publicHandler.projects())
		r.Get("/projects/{projectID}", handlers.publicHandler.project())

		r.Get("/blogs", handlers.publicHandler.blogPosts())
		r.Get("/blogs/{idOrSlug}", handlers.publicHandler.blogPost())

		r.Get("/contact", handlers.publicHandler.contact())
		r.With(perIPRateLimit(contactRatePerMinute, handlers.contactHandler.tooManyRequests())).
			Post("/contact", handlers.contactHandler.submit())
	})
}

// setupDashboardRoutes registers the admin API. Everything but login and
// logout requires a session.
func setupDashboardRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, loginRatePerMinute int) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/login", handlers.authHandler.loginPage())
		r.With(perIPRateLimit(loginRatePerMinute, nil)).Post("/login", handlers.authHandler.login())
		r.Post("/logout", handlers.authHandler.logout())

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Get("/", handlers.dashboardHandler.overview())
			r.Get("/analytics", handlers.analyticsHandler.recent())
			r.Post("/media", handlers.mediaHandler.upload())

			r.Get("/about", handlers.aboutHandler.getAbout())
			r.Put("/about", handlers.aboutHandler.updateAbout())

			r.Get("/settings", handlers.settingsHandler.getSettings())
			r.Put("/settings", handlers.settingsHandler.updateSettings())

			// Project Handler endpoints
			r.Get("/projects", handlers.projectHandler.getAllProjects())
			r.Post("/projects", handlers.projectHandler.createProject())
			r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
			r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())

			// Skill Handler endpoints
			r.Get("/skills", handlers.skillHandler.getAllSkills())
			r.Post("/skills", handlers.skillHandler.createSkill())
			r.Get("/skills/{skillID}", handlers.skillHandler.getSkill())
			r.Put("/skills/{skillID}", handlers.skillHandler.updateSkill())
			r.Delete("/skills/{skillID}", handlers.skillHandler.deleteSkill())

			// Blog Post Handler endpoints
			r.Get("/blog", handlers.blogPostHandler.getAllBlogPosts())
			r.Post("/blog", handlers.blogPostHandler.createBlogPost())
			r.Get("/blog/{blogPostID}", handlers.blogPostHandler.getBlogPost())
			r.Put("/blog/{blogPostID}", handlers.blogPostHandler.updateBlogPost())
			r.Delete("/blog/{blogPostID}", handlers.blogPostHandler.deleteBlogPost())

			// Certification Handler endpoints
			r.Get("/certifications", handlers.certificationHandler.getAllCertifications())
			r.Post("/certifications", handlers.certificationHandler.createCertification())
			r.Get("/certifications/{certificationID}", handlers.certificationHandler.getCertification())
			r.Put("/certifications/{certificationID}", handlers.certificationHandler.updateCertification())
			r.Delete("/certifications/{certificationID}", handlers.certificationHandler.deleteCertification())
		})
	})
}
