package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"swagster-quiz-service/internal/app"
	"swagster-quiz-service/internal/config"
	"swagster-quiz-service/internal/domain"
	"swagster-quiz-service/internal/infra/memory"
	pgloader "swagster-quiz-service/internal/infra/postgres"
	rediscache "swagster-quiz-service/internal/infra/redis"
	"swagster-quiz-service/internal/transport/ws"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz room server",
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
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.QuestionSetLoader = memory.NewStaticLoader(sampleQuestionSets())
	if pool != nil {
		loader = pgloader.NewQuestionSetLoader(pool)
	}

	setTTL := config.Duration(cfg.Quiz.TTL, 10*time.Minute)
	var sets app.QuestionSetRepository
	if redisClient != nil {
		sets = rediscache.NewQuestionSetRepository(redisClient, loader, config.Duration(cfg.Redis.TTL, setTTL))
	} else {
		sets = memory.NewQuestionSetRepository(loader, setTTL)
	}

	timings := app.Timings{
		StartDelay:  config.Duration(cfg.Quiz.StartDelay, 3*time.Second),
		RevealDelay: config.Duration(cfg.Quiz.RevealDelay, 5*time.Second),
		DefaultSet:  cfg.Quiz.Set,
	}

	hub := ws.NewHub()
	service := app.NewService(app.NewRegistry(), sets, hub, timings)
	handler := ws.NewHandler(service, hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", handler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz room service on :%s", finalPort)
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

// sampleQuestionSets seeds the in-memory loader when no Postgres is configured.
func sampleQuestionSets() map[string]domain.QuestionSet {
	return map[string]domain.QuestionSet{
		"general": {
			ID: "general",
			Questions: []domain.Question{
				{
					ID:            "q1",
					Prompt:        "What is the capital of France?",
					Options:       []string{"Paris", "London", "Berlin", "Madrid"},
					CorrectOption: 0,
					TimeLimitSec:  30,
				},
				{
					ID:            "q2",
					Prompt:        "Which planet is known as the Red Planet?",
					Options:       []string{"Earth", "Mars", "Jupiter", "Saturn"},
					CorrectOption: 1,
					TimeLimitSec:  30,
				},
				{
					ID:            "q3",
					Prompt:        "Who wrote 'Romeo and Juliet'?",
					Options:       []string{"Leo Tolstoy", "William Wordsworth", "William Shakespeare", "Mark Twain"},
					CorrectOption: 2,
					TimeLimitSec:  30,
				},
				{
					ID:            "q4",
					Prompt:        "What is the largest mammal in the world?",
					Options:       []string{"African Elephant", "Blue Whale", "Giraffe", "Hippopotamus"},
					CorrectOption: 1,
					TimeLimitSec:  30,
				},
				{
					ID:            "q5",
					Prompt:        "Which programming language is known as the 'language of the web'?",
					Options:       []string{"Python", "Java", "JavaScript", "C++"},
					CorrectOption: 2,
					TimeLimitSec:  30,
				},
			},
		},
	}
}
