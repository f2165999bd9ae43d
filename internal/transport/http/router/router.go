// Package router assembles the REST API, WebSocket endpoint and operational
// routes on a chi mux.
package router

import (
	"net/http"
	"time"

	"github.com/alankrit98/DevLog/internal/metrics"
	"github.com/alankrit98/DevLog/internal/service"
	"github.com/alankrit98/DevLog/internal/transport/http/handlers"
	"github.com/alankrit98/DevLog/internal/transport/http/middleware"
	"github.com/alankrit98/DevLog/internal/transport/ws"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Deps struct {
	Auth          *service.AuthService
	Projects      *service.ProjectService
	Social        *service.SocialService
	Users         *service.UserService
	Chat          *service.ChatService
	Notifications *service.NotificationService
	Hub           *ws.Hub
	Metrics       *metrics.Collector
	Logger        *zap.Logger

	CORSOrigins []string
	// UploadDir is served under /uploads when set.
	UploadDir string
}

func New(d Deps) http.Handler {
	authHandler := handlers.NewAuthHandler(d.Auth, d.Logger)
	projectHandler := handlers.NewProjectHandler(d.Projects, d.Social, d.Logger)
	userHandler := handlers.NewUserHandler(d.Users, d.Social, d.Logger)
	chatHandler := handlers.NewChatHandler(d.Chat, d.Logger)
	commentHandler := handlers.NewCommentHandler(d.Social, d.Logger)
	notificationHandler := handlers.NewNotificationHandler(d.Notifications, d.Logger)

	auth := middleware.Auth(d.Auth)
	optionalAuth := middleware.OptionalAuth(d.Auth)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(d.Metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Public
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	r.Get("/ws", ws.ServeWS(d.Hub, d.Auth, d.CORSOrigins))
	if d.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadDir))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second))

		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.List)
			r.Get("/{id}", projectHandler.Get)
			r.With(auth).Post("/", projectHandler.Create)
			r.With(auth).Put("/like/{id}", projectHandler.ToggleLike)
			r.With(auth).Put("/{id}", projectHandler.Update)
			r.With(auth).Delete("/{id}", projectHandler.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(optionalAuth).Get("/{id}", userHandler.GetProfile)
			r.With(auth).Put("/profile", userHandler.UpdateProfile)
			r.With(auth).Put("/follow/{id}", userHandler.Follow)
			r.With(auth).Put("/unfollow/{id}", userHandler.Unfollow)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Use(auth)
			r.Get("/mutuals", chatHandler.Mutuals)
			r.Get("/{userId}", chatHandler.History)
			r.Post("/", chatHandler.Send)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/{projectId}", commentHandler.List)
			r.With(auth).Post("/", commentHandler.Create)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", notificationHandler.List)
			r.Get("/unread-count", notificationHandler.UnreadCount)
			r.Put("/read", notificationHandler.MarkAllRead)
		})
	})

	return r
}
