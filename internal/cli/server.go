package cli

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classroom-live-service/internal/app"
	"classroom-live-service/internal/config"
	"classroom-live-service/internal/domain"
	fsstore "classroom-live-service/internal/infra/fs"
	"classroom-live-service/internal/infra/memory"
	pginfra "classroom-live-service/internal/infra/postgres"
	redisinfra "classroom-live-service/internal/infra/redis"
	transport "classroom-live-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the classroom server",
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
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	content, err := resolveContent(ctx, cfg, redisClient, pool)
	if err != nil {
		return err
	}
	log.Printf("loaded content set %q: %d quiz questions, %d discussion questions",
		content.ID, len(content.QuizQuestions), len(content.DiscussionQuestions))

	classroom := app.NewClassroom(content)
	if redisClient != nil {
		classroom.SetPresence(redisinfra.NewPresence(redisClient, redisTTL))
	}

	photoDir := cfg.Survey.PhotoDir
	if photoDir == "" {
		photoDir = "data/photos"
	}
	photoPrefix := cfg.Survey.PhotoURLPrefix
	if photoPrefix == "" {
		photoPrefix = "/photos"
	}
	photos, err := fsstore.NewPhotoStore(photoDir, photoPrefix)
	if err != nil {
		return err
	}

	var surveyRepo app.SurveyRepository = memory.NewSurveyRepository()
	if pool != nil {
		surveyRepo = pginfra.NewSurveyRepository(pool)
	}
	surveyService := app.NewSurveyService(surveyRepo, photos)

	wsHandler := transport.NewWSHandler(classroom)
	surveyHandler := transport.NewSurveyHandler(surveyService)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /state", func(w http.ResponseWriter, r *http.Request) {
		transport.WriteSnapshot(w, classroom.Snapshot())
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("GET /photos/", http.StripPrefix("/photos/", http.FileServer(http.Dir(photos.Dir()))))
	surveyHandler.Register(mux)

	if cfg.Postgres.URL != "" {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		bundb := bun.NewDB(sqldb, pgdialect.New())
		defer bundb.Close()
		transport.NewAdminHandler(pginfra.NewAdminRepository(bundb)).Register(mux)
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting classroom service on :%s", finalPort)
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

// resolveContent builds the loader/cache chain and fetches the configured
// content set once. Content is fixed for the process lifetime; a missing set
// falls back to the built-in lesson so the classroom stays usable.
func resolveContent(ctx context.Context, cfg config.Config, redisClient *redis.Client, pool *pgxpool.Pool) (domain.ContentSet, error) {
	setID := cfg.Content.SetID
	if setID == "" {
		setID = memory.DefaultContentSet().ID
	}
	contentTTL := config.TTLDuration(cfg.Content.TTL, 10*time.Minute)

	var loader memory.ContentLoader = memory.NewStaticContentLoader(map[string]domain.ContentSet{
		memory.DefaultContentSet().ID: memory.DefaultContentSet(),
	})
	if pool != nil {
		loader = pginfra.NewContentLoader(pool)
	}

	var repo app.ContentRepository
	if redisClient != nil {
		repo = redisinfra.NewContentCache(redisClient, loader, contentTTL)
	} else {
		repo = memory.NewContentCache(loader, contentTTL)
	}

	content, err := repo.GetContent(ctx, setID)
	if errors.Is(err, domain.ErrContentNotFound) {
		log.Printf("content set %q not found, using built-in lesson", setID)
		return memory.DefaultContentSet(), nil
	}
	return content, err
}
