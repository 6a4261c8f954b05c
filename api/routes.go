package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public auth endpoints and the authenticated app
// surface.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public auth endpoints
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Post("/auth/signup", handlers.authHandler.signUp())
		r.Post("/auth/login", handlers.authHandler.signIn())
		r.Get("/auth/github", handlers.authHandler.githubRedirect())
		r.Get("/auth/github/callback", handlers.authHandler.githubCallback())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		// Project endpoints
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())
		r.Post("/project", handlers.projectHandler.createProject())
		r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())

		// Status transitions
		r.Post("/project/{projectID}/complete", handlers.projectHandler.completeProject())
		r.Post("/project/{projectID}/abandon", handlers.projectHandler.abandonProject())
		r.Post("/project/{projectID}/revive", handlers.projectHandler.reviveProject())

		// Analytics endpoints
		r.Get("/stats", handlers.analyticsHandler.getStats())
		r.Get("/analytics", handlers.analyticsHandler.getAnalytics())

		// Account endpoints
		r.Put("/profile", handlers.accountHandler.updateProfile())
		r.Delete("/projects", handlers.accountHandler.deleteAllProjects())
		r.Delete("/account", handlers.accountHandler.deleteAccount())
		r.Get("/export", handlers.accountHandler.exportData())
	})
}
