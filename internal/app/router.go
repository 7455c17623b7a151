package app

import (
	"skillforge_backend/docs"
	"skillforge_backend/internal/config"
	"skillforge_backend/internal/middleware"
	"skillforge_backend/pkg/monitoring"
	"skillforge_backend/pkg/security"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Check)

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.GET("/portfolio/public/:slug", c.portfolio.GetPublic)
	}

	// AI 生成接口的按用户配额
	aiMax := cfg.RateLimit.AIMaxRequests
	if aiMax <= 0 {
		aiMax = 50
	}
	aiWindow := time.Duration(cfg.RateLimit.AIWindowHours) * time.Hour
	if aiWindow <= 0 {
		aiWindow = time.Hour
	}
	aiQuota := security.AIQuotaLimiter(a.Redis, aiMax, aiWindow)

	// 授权路由
	auth := router.Group("/api")
	auth.Use(middleware.AuthMiddleware(), middleware.ActivityMiddleware(repos.user))
	{
		auth.GET("/auth/profile", c.auth.Profile)
		auth.PUT("/auth/profile", c.auth.UpdateProfile)

		quiz := auth.Group("/quiz")
		{
			quiz.POST("/generate", aiQuota, c.quiz.Generate)
			quiz.POST("/submit", c.quiz.Submit)
			quiz.GET("/history", c.quiz.History)
			quiz.GET("/stats", c.quiz.Stats)
			quiz.GET("/:quizId", c.quiz.Get)
			quiz.DELETE("/:quizId", c.quiz.Delete)
		}

		learning := auth.Group("/learning")
		{
			learning.POST("/generate-path", aiQuota, c.learning.GeneratePath)
			learning.GET("/path", c.learning.GetActivePath)
			learning.GET("/paths", c.learning.ListPaths)
			learning.GET("/path/details/:pathId", c.learning.GetPathDetails)
			learning.POST("/progress", c.learning.UpdateProgress)
			learning.DELETE("/path/:pathId", c.learning.DeletePath)
		}

		resume := auth.Group("/resume")
		{
			resume.POST("/upload", aiQuota, c.resume.Upload)
			resume.POST("/analyze", aiQuota, c.resume.AnalyzeText)
			resume.GET("/latest", c.resume.GetLatest)
			resume.GET("", c.resume.List)
			resume.GET("/:resumeId", c.resume.Get)
			resume.DELETE("/:resumeId", c.resume.Delete)
		}

		tutor := auth.Group("/tutor")
		{
			tutor.POST("/ask", aiQuota, c.tutor.Ask)
			tutor.POST("/explain", aiQuota, c.tutor.Explain)
			tutor.GET("/suggestions", aiQuota, c.tutor.Suggestions)
			tutor.GET("/history", c.tutor.History)
			tutor.DELETE("/history", c.tutor.ClearHistory)
		}

		portfolio := auth.Group("/portfolio")
		{
			portfolio.POST("/generate", c.portfolio.Generate)
			portfolio.GET("", c.portfolio.Get)
			portfolio.POST("/publish", c.portfolio.Publish)
			portfolio.DELETE("/publish", c.portfolio.Unpublish)
			portfolio.POST("/media", c.portfolio.UploadMedia)
			portfolio.GET("/analytics", c.portfolio.Analytics)
			portfolio.DELETE("", c.portfolio.Delete)
		}
	}
}
