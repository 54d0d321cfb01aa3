package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/evanmmo/vod-dashboard/config"
	"github.com/evanmmo/vod-dashboard/controllers"
	"github.com/evanmmo/vod-dashboard/metrics"
	"github.com/evanmmo/vod-dashboard/middleware"
	"github.com/evanmmo/vod-dashboard/models"
	"github.com/evanmmo/vod-dashboard/services"
	"github.com/evanmmo/vod-dashboard/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB, cfg *config.AppConfig) *gin.Engine {
	sessions := services.NewSessionService(db)
	authLimiter := middleware.NewIPRateLimiter(cfg.LoginRatePerMin)

	r.Use(middleware.RequestLogger(), middleware.DBMiddleware(db))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Trang dashboard: không phải admin -> 404
	r.GET("/dashboard",
		middleware.AuthMiddleware(sessions, false),
		middleware.RequireAdminPage(),
		controllers.Dashboard,
	)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(sessions, false))

	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RateLimit(authLimiter), controllers.Register)
		auth.POST("/login", middleware.RateLimit(authLimiter), controllers.Login)
		auth.POST("/google", middleware.RateLimit(authLimiter), controllers.GoogleLogin)
		auth.POST("/logout", middleware.RequireAuth(), controllers.Logout)
		auth.GET("/me", middleware.RequireAuth(), controllers.Me)
	}

	// Quyền admin được VODService kiểm tra cho từng thao tác (403 nếu không phải admin)
	admin := api.Group("/admin")
	{
		//Quản lý VOD
		admin.GET("/vods", controllers.GetVODs)
		admin.GET("/vods/count", controllers.GetVODCount)
		admin.GET("/vods/:id", controllers.GetVODDetail)
		admin.POST("/vods", controllers.CreateVOD)
		admin.POST("/vods/validate", controllers.ValidateVOD)
		admin.DELETE("/vods/:id", controllers.DeleteVOD)
	}

	// websocket không gửi được header nên cho phép ?token=
	r.GET("/ws/vods",
		middleware.AuthMiddleware(sessions, true),
		middleware.RequireRoles(models.RoleAdmin),
		ws.HandleVODWebSocket,
	)

	return r
}
