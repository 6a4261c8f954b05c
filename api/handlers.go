package api

import (
	"github.com/rpupo63/project-tracker-backend/actions"
	"github.com/rpupo63/project-tracker-backend/auth"
	"github.com/rpupo63/project-tracker-backend/database"
	"github.com/rpupo63/project-tracker-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, authService *auth.Service, exportService *services.ExportService) *routeHandlers {
	projects := actions.NewProjectService(db)

	return &routeHandlers{
		projectHandler:   newProjectHandler(projects),
		analyticsHandler: newAnalyticsHandler(projects),
		authHandler:      newAuthHandler(authService),
		accountHandler:   newAccountHandler(db, exportService),
	}
}
