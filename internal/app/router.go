package app

import (
	"quizgen_backend/docs"
	"quizgen_backend/internal/config"
	"quizgen_backend/internal/middleware"
	"quizgen_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/sessions", c.session.CreateSession)
	}

	// everything below operates on the session named by the bearer token
	current := router.Group("/api/sessions/current")
	current.Use(middleware.SessionMiddleware(cfg))
	{
		current.GET("", c.session.GetSession)
		current.DELETE("", c.session.EndSession)
		current.PUT("/language", c.session.SetLanguage)

		current.POST("/document", c.document.UploadDocument)

		current.POST("/questions", c.question.GenerateQuestions)
		current.GET("/questions", c.question.ListQuestions)

		current.PUT("/answers/:index", c.answer.SubmitTypedAnswer)
		current.POST("/answers/:index/audio", c.answer.SubmitAudioAnswer)

		current.POST("/evaluate", c.grading.Evaluate)
		current.GET("/results", c.grading.Results)
	}
}
