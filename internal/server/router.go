package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/semillitas/semillitas-backend/internal/handlers"
	"github.com/semillitas/semillitas-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	AuthMiddleware      *middleware.AuthMiddleware
	ChildHandler        *handlers.ChildHandler
	ActivityHandler     *handlers.ActivityHandler
	ExploreHandler      *handlers.ExploreHandler
	InviteHandler       *handlers.InviteHandler
	DailyContentHandler *handlers.DailyContentHandler
	AllowOrigins        []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	api.POST("/register", cfg.AuthHandler.Register)
	api.POST("/login", cfg.AuthHandler.Login)
	api.GET("/invites/:token", cfg.InviteHandler.Preview)

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	protected.GET("/me", cfg.AuthHandler.GetMe)

	protected.POST("/children", cfg.ChildHandler.Create)
	protected.GET("/children", cfg.ChildHandler.List)
	protected.GET("/children/:id", cfg.ChildHandler.Get)
	protected.POST("/children/:id/observations", cfg.ChildHandler.CreateObservation)
	protected.GET("/children/:id/observations", cfg.ChildHandler.ListObservations)

	protected.GET("/activities", cfg.ActivityHandler.GetFeed)
	protected.POST("/activities/:id/save", cfg.ActivityHandler.Save)
	protected.DELETE("/activities/:id/save", cfg.ActivityHandler.Unsave)
	protected.POST("/activities/:id/complete", cfg.ActivityHandler.Complete)

	protected.GET("/explore", cfg.ExploreHandler.GetFeed)
	protected.GET("/explore/articles", cfg.ExploreHandler.GetFeed)
	protected.POST("/explore/articles/:id/bookmark", cfg.ExploreHandler.ToggleBookmark)
	protected.POST("/explore/articles/:id/read", cfg.ExploreHandler.OpenArticle)
	protected.PATCH("/explore/articles/:id/read", cfg.ExploreHandler.MarkRead)

	protected.POST("/invites/create", cfg.InviteHandler.Create)
	protected.POST("/invites/:token/claim", cfg.InviteHandler.Claim)

	protected.POST("/daily-content", cfg.DailyContentHandler.Get)

	return router
}
