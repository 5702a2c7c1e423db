package devserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"skillshare/internal/httputil"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	Handler   *Handler
	JWTSecret string
	Logger    *zap.Logger
}

// NewRouter mounts the REST contract under /api.
func NewRouter(cfg RouterConfig) chi.Router {
	h := cfg.Handler
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		// Readable anonymously; the viewer shapes the result when known
		r.Group(func(r chi.Router) {
			r.Use(OptionalAuth(cfg.JWTSecret))

			r.Get("/users", h.ListUsers)
			r.Get("/users/{id}", h.GetUser)

			r.Get("/posts", h.ListPosts)
			r.Get("/posts/{id}", h.GetPost)
			r.Get("/posts/user/{userId}", h.ListUserPosts)

			r.Get("/likes/{postId}/summary", h.LikeSummary)
			r.Get("/comments/post/{postId}", h.ListComments)

			r.Get("/plans", h.ListPlans)
			r.Get("/plans/{id}", h.GetPlan)
			r.Get("/plans/user/{userId}", h.ListUserPlans)

			r.Get("/progress", h.ListProgress)
			r.Get("/progress/{id}", h.GetProgress)
			r.Get("/progress/user/{userId}", h.ListUserProgress)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(cfg.JWTSecret))

			r.Put("/users/{id}", h.UpdateUser)
			r.Delete("/users/{id}", h.DeleteUser)

			r.Post("/posts", h.CreatePost)
			r.Delete("/posts/{id}", h.DeletePost)

			r.Post("/likes/toggle", h.ToggleLike)
			r.Delete("/likes/{postId}", h.Unlike)

			r.Post("/comments", h.CreateComment)
			r.Put("/comments/{id}", h.UpdateComment)
			r.Delete("/comments/{id}", h.DeleteComment)

			r.Post("/plans", h.CreatePlan)
			r.Put("/plans/{id}", h.UpdatePlan)
			r.Delete("/plans/{id}", h.DeletePlan)
			r.Post("/plans/{id}/like", h.LikePlan)

			r.Post("/progress", h.CreateProgress)
			r.Put("/progress/{id}", h.UpdateProgress)
			r.Delete("/progress/{id}", h.DeleteProgress)

			r.Route("/chat", func(r chi.Router) {
				r.Get("/conversations/between", h.ConversationBetween)
				r.Post("/conversations", h.CreateConversation)
				r.Get("/conversations/{id}/messages", h.ListMessages)
				r.Post("/messages", h.SendMessage)
				r.Put("/messages/{id}", h.UpdateMessage)
				r.Delete("/messages/{id}", h.DeleteMessage)
			})
		})
	})

	return r
}
