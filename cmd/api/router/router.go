package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"yt-insight/cmd/api/auth"
	"yt-insight/cmd/api/handlers"
	"yt-insight/cmd/api/middleware"
	"yt-insight/cmd/api/services"
	_ "yt-insight/docs"
)

const slowRequestThreshold = 3 * time.Second

// Deps 는 라우터가 묶는 서비스들이다. Health 와 Metrics 는 nil 이면 등록하지 않거나 항상 ok 로 응답한다.
type Deps struct {
	Auth     *services.AuthService
	Profiles *services.ProfileService
	Analyses *services.AnalysisService
	Reports  *services.ReportService
	Metrics  http.Handler
	Health   func(ctx context.Context) error
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace(), middleware.RequestLoggingMiddleware(slowRequestThreshold))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			defer cancel()
			if err := d.Health(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.POST("/auth/signup", handlers.SignupHandler(d.Auth))
		api.POST("/auth/login", handlers.LoginHandler(d.Auth))

		authed := api.Group("", middleware.AuthRequired(d.Auth))
		authed.GET("/users/profile", handlers.GetUserProfileHandler(d.Profiles))
		authed.PATCH("/users/profile", handlers.UpdateUserProfileHandler(d.Profiles))
		authed.GET("/users/profile/stream", handlers.StreamUserProfileHandler(d.Profiles))

		authed.GET("/analyze", handlers.AnalyzeHandler(d.Analyses))
		authed.POST("/analyses", handlers.StartAnalysisHandler(d.Analyses))
		authed.GET("/analyses/:id", handlers.GetAnalysisHandler(d.Analyses))
		authed.DELETE("/analyses/:id", handlers.CancelAnalysisHandler(d.Analyses))

		authed.GET("/reports", handlers.ListReportsHandler(d.Reports))
		authed.GET("/reports/:id", handlers.GetReportHandler(d.Reports))

		admin := authed.Group("/admin", middleware.RequireRole(auth.RoleAdmin))
		admin.POST("/users/:uid/credits", handlers.GrantCreditsHandler(d.Profiles))
	}

	return r
}
