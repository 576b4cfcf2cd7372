package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yukikurage/stride-league-api/internal/challenge"
	"github.com/yukikurage/stride-league-api/internal/config"
	"github.com/yukikurage/stride-league-api/internal/constants"
	"github.com/yukikurage/stride-league-api/internal/database"
	"github.com/yukikurage/stride-league-api/internal/handlers"
	"github.com/yukikurage/stride-league-api/internal/middleware"
	"github.com/yukikurage/stride-league-api/internal/repository"
	"github.com/yukikurage/stride-league-api/internal/scheduler"
	"github.com/yukikurage/stride-league-api/internal/services"
	"github.com/yukikurage/stride-league-api/internal/streak"
)

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	// Load configuration
	cfg := config.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "stride-league-api").Logger()
	if cfg.IsDevelopment() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	store := repository.NewStore(database.GetDB())
	policy := streak.Policy{
		BonusPoints:   cfg.StreakBonusPoints,
		BonusInterval: cfg.StreakBonusInterval,
	}

	// Initialize challenge narrator
	var narrator services.ChallengeNarrator
	if cfg.OpenAIAPIKey != "" {
		narrator = services.NewOpenAINarrator(cfg.OpenAIAPIKey)
	}

	// Initialize services
	authService := services.NewAuthService(store.Users())
	matchmakingService := services.NewMatchmakingService(store, services.UTCNow, nil)
	generator := challenge.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	challengeService := services.NewChallengeService(store.Challenges(), generator, narrator, services.UTCNow)
	assignmentService := services.NewAssignmentService(store, services.UTCNow)
	streakService := services.NewStreakService(store, policy, services.UTCNow)
	contributionService := services.NewContributionService(store, streakService, services.UTCNow)
	scoringService := services.NewScoringService(store)

	// Initialize Gin router
	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(cfg.IsDevelopment()))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	sessionStore, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Redis store")
	}
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.GinMode == "release",
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Matchmaking:  handlers.NewMatchmakingHandler(matchmakingService),
		Challenge:    handlers.NewChallengeHandler(challengeService, assignmentService),
		Contribution: handlers.NewContributionHandler(contributionService),
		Scoring:      handlers.NewScoringHandler(scoringService, streakService),
	})

	// Scheduled jobs
	var sched *scheduler.Scheduler
	if cfg.EnableScheduler {
		sched, err = scheduler.New(scheduler.Config{
			DailyChallengeCron: cfg.DailyChallengeCron,
			StreakSweepCron:    cfg.StreakSweepCron,
		}, scheduler.Jobs{
			DailyChallenges: func(ctx context.Context) error {
				_, err := challengeService.CreateDailyChallenges(ctx)
				return err
			},
			StreakSweep: func(ctx context.Context) error {
				_, err := streakService.Sweep(ctx)
				return err
			},
		}, logger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create scheduler")
		}
		sched.Start()
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.ServerAddr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	if sched != nil {
		if err := sched.Shutdown(); err != nil {
			log.Error().Err(err).Msg("failed to stop scheduler")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
