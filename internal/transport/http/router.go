package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"inkpress/internal/handler"
	"inkpress/internal/httputil"
	authmw "inkpress/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	FollowHandler       *handler.FollowHandler
	PostHandler         *handler.PostHandler
	CommentHandler      *handler.CommentHandler
	ModerationHandler   *handler.ModerationHandler
	ReportHandler       *handler.ReportHandler
	SubscriptionHandler *handler.SubscriptionHandler
	NotificationHandler *handler.NotificationHandler
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	// Public reads with optional authentication: what a viewer sees depends
	// on who they are, but nobody is turned away.
	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalAuth(cfg.JWTSecret))

		r.Get("/users/{id}", cfg.UserHandler.GetProfile)
		r.Get("/posts/{id}", cfg.PostHandler.Get)
		r.Get("/posts/{id}/comments", cfg.CommentHandler.GetThread)
		r.Get("/comments/recent", cfg.CommentHandler.GetRecent)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(cfg.JWTSecret))

		// Current user endpoints
		r.Get("/me", cfg.AuthHandler.Me)

		// Auth actions that require authentication
		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		// Follow/unfollow
		r.Post("/users/{id}/follow", cfg.FollowHandler.Follow)
		r.Delete("/users/{id}/follow", cfg.FollowHandler.Unfollow)

		// Post engagement
		r.Post("/posts/{id}/like", cfg.PostHandler.Like)
		r.Delete("/posts/{id}/like", cfg.PostHandler.Unlike)

		// Commenting
		r.Post("/posts/{id}/comments", cfg.CommentHandler.Create)
		r.Patch("/comments/{commentId}", cfg.CommentHandler.Update)
		r.Delete("/comments/{commentId}", cfg.CommentHandler.Delete)
		r.Post("/comments/{commentId}/like", cfg.CommentHandler.Like)
		r.Delete("/comments/{commentId}/like", cfg.CommentHandler.Unlike)

		// Moderation (post author only, enforced in the service)
		r.Get("/posts/{id}/moderation", cfg.ModerationHandler.Queue)
		r.Post("/comments/{commentId}/moderate", cfg.ModerationHandler.Moderate)

		// Reports
		r.Post("/comments/{commentId}/report", cfg.ReportHandler.Create)
		r.Get("/admin/reports", cfg.ReportHandler.List)

		// Thread subscriptions
		r.Post("/comments/{commentId}/subscribe", cfg.SubscriptionHandler.Subscribe)
		r.Delete("/comments/{commentId}/subscribe", cfg.SubscriptionHandler.Unsubscribe)
		r.Get("/comments/{commentId}/subscription", cfg.SubscriptionHandler.Status)

		// Notifications
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", cfg.NotificationHandler.List)
			r.Patch("/read", cfg.NotificationHandler.MarkRead)
			r.Post("/read-all", cfg.NotificationHandler.MarkAllRead)
			r.Delete("/read", cfg.NotificationHandler.ClearRead)
			r.Delete("/{notificationId}", cfg.NotificationHandler.Delete)
		})
	})

	return r
}
