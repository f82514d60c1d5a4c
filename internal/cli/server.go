package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/auth"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/infra/memory"
	"trivia-quiz-service/internal/infra/postgres"
	redisinfra "trivia-quiz-service/internal/infra/redis"
	"trivia-quiz-service/internal/infra/trivia"
	transport "trivia-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "3000"
	}

	var users app.UserRepository
	var attempts app.AttemptRepository
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store := postgres.NewStore(pool)
		users = store
		attempts = store
	} else {
		memUsers := memory.NewUserRepository()
		users = memUsers
		attempts = memory.NewAttemptRepository(memUsers)
		log.Printf("no postgres configured, using in-memory stores")
	}

	triviaTimeout := config.TTLDuration(cfg.Trivia.Timeout, trivia.DefaultTimeout)
	cacheTTL := config.TTLDuration(cfg.Trivia.CacheTTL, 10*time.Minute)

	var source app.QuestionSource = trivia.NewClient(cfg.Trivia.URL, cfg.Trivia.Category, triviaTimeout)
	if cfg.Redis.Addr != "" {
		redisClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		source = redisinfra.NewQuestionCache(redisClient, source, cacheTTL, cfg.Trivia.PoolSize)
	} else {
		source = memory.NewQuestionCache(source, cacheTTL, cfg.Trivia.PoolSize)
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		log.Printf("warning: auth secret not configured, tokens will not survive restarts")
		secret = randomSecret()
	}
	authService := auth.NewService(secret, config.TTLDuration(cfg.Auth.TokenTTL, time.Hour))

	feed := app.NewLeaderboardFeed()
	quizService := app.NewQuizService(source)
	scoreService := app.NewScoreService(attempts, users, feed)

	handler := transport.NewHandler(quizService, scoreService, users, authService)
	feedHandler := transport.NewFeedHandler(scoreService, feed)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(handler, authService, feedHandler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("generate auth secret: %v", err)
	}
	return hex.EncodeToString(buf)
}
