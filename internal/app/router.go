package app

import (
	"courseset_backend/docs"
	"courseset_backend/internal/middleware"
	"courseset_backend/internal/model"
	"courseset_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.RequestID(), middleware.AuthMiddleware(s.auth))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.POST("/logout", c.auth.Logout)

		// Students see their own resolved view; everything else on a set is
		// instructor territory.
		authGroup.GET("/sets", c.assignment.List)
		authGroup.GET("/sets/:setId", c.assignment.Detail)

		instructor := authGroup.Group("/")
		instructor.Use(middleware.RoleMiddleware(model.Instructor))
		{
			instructor.POST("/sets", c.assignment.Create)
			instructor.PUT("/sets/:setId", c.assignment.Save)
			instructor.DELETE("/sets/:setId", c.assignment.Delete)
			instructor.POST("/sets/:setId/users", c.assignment.AssignUsers)
			instructor.DELETE("/sets/:setId/users/:userId", c.assignment.UnassignUser)

			instructor.POST("/sets/:setId/problems", c.problem.Add)
			instructor.DELETE("/sets/:setId/problems", c.problem.Delete)
			instructor.POST("/sets/:setId/problems/reorder", c.problem.Reorder)
			instructor.POST("/sets/:setId/problems/renumber", c.problem.Renumber)
			instructor.POST("/sets/:setId/problems/:problemId/source", c.problem.UploadSource)
			instructor.GET("/sets/:setId/problems/:problemId/source", c.problem.DownloadSource)
		}
	}
}
