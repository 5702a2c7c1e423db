// Package devserver is an in-memory stand-in for the backend REST API. It
// speaks the same contract as the real service so the client, its tests and
// local development can run without one.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"skillshare/internal/model"
)

type Server struct {
	Store  *Store
	http   *http.Server
	logger *zap.Logger
}

// New builds a server listening on addr (":8080" style).
func New(addr, jwtSecret string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("devserver")
	store := NewStore()
	router := NewRouter(RouterConfig{
		Handler:   NewHandler(store, jwtSecret, logger),
		JWTSecret: jwtSecret,
		Logger:    logger,
	})
	return &Server{
		Store:  store,
		logger: logger,
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.http.Addr))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("dev server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return s.http.Shutdown(shutdownCtx)
}

// DemoPassword is the password of every seeded account.
const DemoPassword = "password123"

// Seed fills the store with a few accounts and some content to browse.
func Seed(store *Store) error {
	alice, err := store.Register(model.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: DemoPassword, FirstName: "Alice", LastName: "Nguyen"})
	if err != nil {
		return fmt.Errorf("seed alice: %w", err)
	}
	bob, err := store.Register(model.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: DemoPassword, FirstName: "Bob", LastName: "Tran"})
	if err != nil {
		return fmt.Errorf("seed bob: %w", err)
	}
	if _, err := store.Register(model.RegisterRequest{Username: "carol", Email: "carol@example.com", Password: DemoPassword, FirstName: "Carol", LastName: "Le"}); err != nil {
		return fmt.Errorf("seed carol: %w", err)
	}

	post, _ := store.CreatePost(alice.ID, model.CreatePostRequest{
		Title:       "My first Go service",
		Description: "Finally shipped a small HTTP service with chi.",
		Privacy:     model.PrivacyPublic,
		Tags:        []string{"go", "backend"},
	})
	_, _ = store.CreatePost(bob.ID, model.CreatePostRequest{
		Title:       "Sketching every day",
		Description: "Day 30 of daily sketches.",
		Privacy:     model.PrivacyPublic,
		Tags:        []string{"art"},
	})
	_, _ = store.ToggleLike(bob.ID, post.ID, model.ReactionHeart)
	_, _ = store.CreateComment(bob.ID, model.CreateCommentRequest{PostID: post.ID, Content: "Nice work!"})

	_, _ = store.CreatePlan(alice.ID, model.PlanRequest{
		Title:          "Learn Go concurrency",
		Description:    "Goroutines, channels and the context package.",
		Category:       model.CategoryProgramming,
		SkillLevel:     model.SkillIntermediate,
		Tags:           []string{"go", "concurrency"},
		EstimatedHours: 20,
		IsPublic:       true,
		LearningUnits: []model.LearningUnit{
			{Title: "Goroutines", Completed: true},
			{Title: "Channels"},
			{Title: "Context"},
		},
	})
	_, _ = store.CreatePlan(bob.ID, model.PlanRequest{
		Title:          "Applied statistics",
		Description:    "Refresh probability and hypothesis testing.",
		Category:       model.CategoryDataScience,
		SkillLevel:     model.SkillBeginner,
		Tags:           []string{"math"},
		EstimatedHours: 35,
		IsPublic:       true,
		LearningUnits:  []model.LearningUnit{{Title: "Probability"}},
	})

	rating := 4
	_, _ = store.CreateProgress(alice.ID, model.ProgressRequest{
		Title:        "Finished the goroutines unit",
		Content:      "Wrote a worker pool and understood WaitGroup.",
		IsPublic:     true,
		HoursSpent:   3,
		Type:         model.ProgressMilestone,
		Rating:       &rating,
		Sentiment:    model.SentimentSatisfied,
		Challenges:   []string{"Deadlocks"},
		Achievements: []string{"Worker pool"},
	})

	conv, _ := store.CreateConversation(alice.ID, alice.ID, bob.ID)
	_, _ = store.SendMessage(bob.ID, model.SendMessageRequest{ConversationID: conv.ID, SenderID: bob.ID, ReceiverID: alice.ID, Content: "Hey, saw your Go post!"})
	return nil
}
