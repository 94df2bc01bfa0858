package server

import (
	"github.com/grantgraph/grantgraph/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Award routes
	apiRoutes.GET("/awards/:code", routes.GetAwardHandler)
	apiRoutes.GET("/awards/:code/publications", routes.GetAwardPublicationsHandler)
	apiRoutes.POST("/awards/:code/publications", routes.PostAwardPublicationHandler)

	// Program routes
	apiRoutes.GET("/programs/:code", routes.GetProgramHandler)

	// People routes
	apiRoutes.GET("/people", routes.GetPeopleHandler)

	// Ingestion routes
	apiRoutes.POST("/ingest", routes.PostIngestHandler)
}
