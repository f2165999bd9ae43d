package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alankrit98/DevLog/internal/cache"
	"github.com/alankrit98/DevLog/internal/config"
	"github.com/alankrit98/DevLog/internal/database"
	"github.com/alankrit98/DevLog/internal/metrics"
	"github.com/alankrit98/DevLog/internal/repository"
	"github.com/alankrit98/DevLog/internal/repository/memory"
	"github.com/alankrit98/DevLog/internal/repository/neo4jgraph"
	postgresrepo "github.com/alankrit98/DevLog/internal/repository/postgres"
	"github.com/alankrit98/DevLog/internal/service"
	"github.com/alankrit98/DevLog/internal/storage"
	"github.com/alankrit98/DevLog/internal/transport/http/router"
	"github.com/alankrit98/DevLog/internal/transport/ws"
	"github.com/alankrit98/DevLog/pkg/logger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

type repositories struct {
	users         repository.UserRepository
	follows       repository.FollowRepository
	projects      repository.ProjectRepository
	comments      repository.CommentRepository
	messages      repository.MessageRepository
	notifications repository.NotificationRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cleanups []func()
	defer func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}()

	// Repositories
	var repos repositories
	switch cfg.StorageBackend {
	case config.BackendMemory:
		store := memory.NewStore()
		repos = repositories{
			users:         store.Users(),
			follows:       store.Follows(),
			projects:      store.Projects(),
			comments:      store.Comments(),
			messages:      store.Messages(),
			notifications: store.Notifications(),
		}
		log.Warn("using in-memory storage, data is lost on restart")

	default:
		pool, err := database.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, pool.Close)
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		log.Info("connected to database", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

		repos = repositories{
			users:         postgresrepo.NewUserRepo(pool),
			follows:       postgresrepo.NewFollowRepo(pool),
			projects:      postgresrepo.NewProjectRepo(pool),
			comments:      postgresrepo.NewCommentRepo(pool),
			messages:      postgresrepo.NewMessageRepo(pool),
			notifications: postgresrepo.NewNotificationRepo(pool),
		}
	}

	if cfg.GraphBackend == config.BackendNeo4j {
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
		if err != nil {
			return fmt.Errorf("creating neo4j driver: %w", err)
		}
		cleanups = append(cleanups, func() { driver.Close(context.Background()) })
		if err := driver.VerifyConnectivity(ctx); err != nil {
			return fmt.Errorf("connecting to neo4j: %w", err)
		}

		graph := neo4jgraph.NewFollowRepo(driver)
		if err := graph.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("preparing neo4j schema: %w", err)
		}
		repos.follows = graph
		log.Info("social graph stored in neo4j", zap.String("uri", cfg.Neo4jURI))
	}

	// Profile cache
	var profiles cache.ProfileCache = cache.Nop{}
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, func() { rdb.Close() })
		profiles = cache.NewRedisProfileCache(rdb, cfg.ProfileCacheTTL)
		log.Info("profile cache enabled", zap.Duration("ttl", cfg.ProfileCacheTTL))
	}

	avatars, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return err
	}

	m := metrics.NewCollector("devlog")

	// Real-time
	hub := ws.NewHub(log.Named("ws"), m)
	cleanups = append(cleanups, hub.Close)
	notifier := ws.NewHubNotifier(hub)

	// Services
	authService := service.NewAuthService(repos.users, cfg.JWTSecret, cfg.JWTTTL)
	notificationService := service.NewNotificationService(repos.notifications, repos.users, profiles, log.Named("notifications"), m)
	notificationService.SetNotifier(notifier)
	socialService := service.NewSocialService(repos.users, repos.follows, repos.projects, repos.comments, notificationService, log.Named("social"), m)
	socialService.SetNotifier(notifier)
	chatService := service.NewChatService(repos.messages, repos.users, socialService)
	chatService.SetNotifier(notifier)
	projectService := service.NewProjectService(repos.projects)
	userService := service.NewUserService(repos.users, repos.follows, repos.projects, avatars, profiles, log.Named("users"))

	handler := router.New(router.Deps{
		Auth:          authService,
		Projects:      projectService,
		Social:        socialService,
		Users:         userService,
		Chat:          chatService,
		Notifications: notificationService,
		Hub:           hub,
		Metrics:       m,
		Logger:        log.Named("http"),
		CORSOrigins:   cfg.CORSOrigins,
		UploadDir:     avatars.Dir(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	// Hijacked WebSocket connections are not tracked by Shutdown.
	hub.Close()
	if err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
