package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/semillitas/semillitas-backend/internal/clients/redis"
	"github.com/semillitas/semillitas-backend/internal/db"
	"github.com/semillitas/semillitas-backend/internal/handlers"
	"github.com/semillitas/semillitas-backend/internal/middleware"
	"github.com/semillitas/semillitas-backend/internal/observability"
	"github.com/semillitas/semillitas-backend/internal/platform/envutil"
	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/platform/openai"
	"github.com/semillitas/semillitas-backend/internal/repos"
	"github.com/semillitas/semillitas-backend/internal/server"
	"github.com/semillitas/semillitas-backend/internal/services"
)

func main() {
	log, err := logger.New(envutil.Str("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	observability.Init()

	jwtSecretKey := envutil.Str("JWT_SECRET_KEY", "")
	if jwtSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY is required")
	}
	accessTTL := time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second
	refreshTTL := time.Duration(envutil.Int("REFRESH_TOKEN_TTL", 30*86400)) * time.Second

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	childRepo := repos.NewChildRepo(thePG, log)
	caregiverRepo := repos.NewChildCaregiverRepo(thePG, log)
	inviteRepo := repos.NewCaregiverInviteRepo(thePG, log)
	observationRepo := repos.NewObservationRepo(thePG, log)
	activityRepo := repos.NewActivityRepo(thePG, log)
	activitySaveRepo := repos.NewActivitySaveRepo(thePG, log)
	activityCompletionRepo := repos.NewActivityCompletionRepo(thePG, log)
	articleRepo := repos.NewExploreArticleRepo(thePG, log)
	brainCardRepo := repos.NewExploreBrainCardRepo(thePG, log)
	bookmarkRepo := repos.NewArticleBookmarkRepo(thePG, log)
	readRepo := repos.NewArticleReadRepo(thePG, log)
	dailyContentRepo := repos.NewDailyContentRepo(thePG, log)

	log.Info("Setting up clients...")
	llmCfg, err := openai.ConfigFromEnv()
	if err != nil {
		log.Fatal("OpenAI config error", "error", err)
	}
	llmClient, err := openai.NewClient(log, llmCfg)
	if err != nil {
		log.Fatal("OpenAI client error", "error", err)
	}
	cache, err := redis.NewCache(log)
	if err != nil {
		log.Warn("Redis unavailable, daily content served without cache", "error", err)
		cache = redis.Nop()
	}

	log.Info("Setting up services...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, accessTTL, refreshTTL)
	childService := services.NewChildService(thePG, log, childRepo, caregiverRepo, observationRepo)
	activityService := services.NewActivityService(thePG, log, activityRepo, activitySaveRepo, activityCompletionRepo, observationRepo, userRepo, childService)
	exploreService := services.NewExploreService(thePG, log, articleRepo, brainCardRepo, bookmarkRepo, readRepo, userRepo, childService)
	inviteService := services.NewInviteService(thePG, log, inviteRepo, caregiverRepo, childRepo, childService)
	dailyContentService := services.NewDailyContentService(thePG, log, dailyContentRepo, observationRepo, userRepo, childService, llmClient, cache)

	router := server.NewRouter(server.RouterConfig{
		AuthHandler:         handlers.NewAuthHandler(authService),
		AuthMiddleware:      middleware.NewAuthMiddleware(log, authService),
		ChildHandler:        handlers.NewChildHandler(childService),
		ActivityHandler:     handlers.NewActivityHandler(activityService),
		ExploreHandler:      handlers.NewExploreHandler(exploreService),
		InviteHandler:       handlers.NewInviteHandler(inviteService),
		DailyContentHandler: handlers.NewDailyContentHandler(dailyContentService),
		AllowOrigins:        splitOrigins(envutil.Str("CORS_ALLOW_ORIGINS", "")),
	})

	addr := ":" + envutil.Str("PORT", "8080")
	log.Info("Starting server", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
