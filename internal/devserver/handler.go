package devserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"skillshare/internal/httputil"
	"skillshare/internal/model"
)

// Handler serves the REST contract out of a Store.
type Handler struct {
	store     *Store
	jwtSecret string
	logger    *zap.Logger
	now       func() time.Time
}

func NewHandler(store *Store, jwtSecret string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, jwtSecret: jwtSecret, logger: logger, now: time.Now}
}

// actor returns the authenticated user or writes a 401.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, r, "Authentication required")
		return "", false
	}
	return userID, true
}

// writeErr maps domain errors to statuses; anything unknown is a 500 with
// the operation's fallback message.
func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrPostNotFound),
		errors.Is(err, model.ErrCommentNotFound),
		errors.Is(err, model.ErrPlanNotFound),
		errors.Is(err, model.ErrProgressNotFound),
		errors.Is(err, model.ErrConversationNotFound),
		errors.Is(err, model.ErrMessageNotFound):
		httputil.WriteNotFound(w, r, capitalize(err.Error()))
	case errors.Is(err, model.ErrNotAccountOwner),
		errors.Is(err, model.ErrNotPostOwner),
		errors.Is(err, model.ErrNotCommentOwner),
		errors.Is(err, model.ErrCannotDeleteComment),
		errors.Is(err, model.ErrNotPlanOwner),
		errors.Is(err, model.ErrNotProgressOwner),
		errors.Is(err, model.ErrNotMessageSender),
		errors.Is(err, model.ErrNotParticipant):
		httputil.WriteForbidden(w, r, capitalize(err.Error()))
	case errors.Is(err, model.ErrUsernameExists):
		httputil.WriteConflict(w, r, "Username already exists")
	case errors.Is(err, model.ErrInvalidCredentials):
		httputil.WriteUnauthorized(w, r, "Invalid username or password")
	case errors.Is(err, model.ErrContentRequired):
		httputil.WriteBadRequest(w, r, "Content is required")
	case errors.Is(err, model.ErrContentTooLong):
		httputil.WriteBadRequest(w, r, "Content too long")
	case errors.Is(err, model.ErrUnknownReaction):
		httputil.WriteBadRequest(w, r, "Unknown reaction type")
	default:
		h.logger.Error("handler failed", zap.String("path", r.URL.Path), zap.Error(err))
		httputil.WriteInternalError(w, r, fallback)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

// =============================================================================
// Auth
// =============================================================================

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, r, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		httputil.WriteBadRequest(w, r, "Username and password are required")
		return
	}
	user, err := h.store.Register(req)
	if err != nil {
		h.writeErr(w, r, err, "Failed to register")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, r, "Invalid request body")
		return
	}
	user, err := h.store.Authenticate(req.Username, req.Password)
	if err != nil {
		h.writeErr(w, r, err, "Failed to log in")
		return
	}
	token, err := issueToken(h.jwtSecret, user.ID, h.now())
	if err != nil {
		h.writeErr(w, r, err, "Failed to log in")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, model.LoginResponse{Token: token, UserID: user.ID})
}

// =============================================================================
// Users
// =============================================================================

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.store.Users())
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.User(chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, r, err, "Failed to load user")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req model.UpdateUserRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, r, "Invalid request body")
		return
	}
	user, err := h.store.UpdateUser(userID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeErr(w, r, err, "Failed to update profile")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteUser(userID, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, r, err, "Failed to delete account")
		return
	}
	httputil.WriteNoContent(w)
}

// =============================================================================
// Posts
// =============================================================================

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	viewer, _ := UserIDFromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, h.store.Posts(viewer))
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.store.Post(chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, r, err, "Failed to load post")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, post)
}

func (h *Handler) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.store.PostsByUser(chi.URLParam(r, "userId")))
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req model.CreatePostRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, r, "Invalid request body")
		return
	}
	if len(req.Media) > model.MaxPostMediaCount {
		httputil.WriteBadRequest(w, r, "Too many media items")
		return
	}
	post, err := h.store.CreatePost(userID, req)
	if err != nil {
		h.writeErr(w, r, err, "Failed to create post")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, post)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.store.DeletePost(userID, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, r, err, "Failed to delete post")
		return
	}
	httputil.WriteNoContent(w)
}

// =============================================================================
// Likes
// =============================================================================

// ToggleLike handles POST /likes/toggle. Removing a reaction answers 204.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req model.ToggleLikeRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		if errors.Is(err, model.ErrUnknownReaction) {
			h.writeErr(w, r, err, "Failed to toggle like")
			return
		}
		httputil.WriteBadRequest(w, r, "Invalid request body")
		return
	}
	like, err := h.store.ToggleLike(userID, req.PostID, req.ReactionType)
	if err != nil {
		h.writeErr(w, r, err, "Failed to toggle like")
		return
	}
	if like == nil {
		httputil.WriteNoContent(w)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, like)
}

func (h *Handler) LikeSummary(w http.ResponseWriter, r *http.Request) {
	viewer, _ := UserIDFromContext(r.Context())
	sum, err := h.store.LikeSummary(viewer, chi.URLParam(r, "postId"))
	if err != nil {
		h.writeErr(w, r, err, "Failed to load reactions")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sum)
}

func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.store.Unlike(userID, chi.URLParam(r, "postId")); err != nil {
		h.writeErr(w, r, err, "Failed to unlike post")
		return
	}
	httputil.WriteNoContent(w)
}

// =============================================================================
// Comments
// =============================================================================

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.store.Comments(chi.URLParam(r, "postId"))
	if err != nil {
		h.writeErr(w, r, err, "Failed to fetch comments")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, comments)
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req model.CreateCommentRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, r, "Invalid request body")
		return
	}
	comment, err := h.store.CreateComment(userID, req)
	if err != nil {
		h.writeErr(w, r, err, "Failed to add comment")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, comment)
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req model.UpdateCommentRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, r, "Invalid request body")
		return
	}
	comment, err := h.store.UpdateComment(userID, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		h.writeErr(w, r, err, "Failed to update comment")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, comment)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteComment(userID, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, r, err, "Failed to delete comment")
		return
	}
	httputil.WriteNoContent(w)
}

// =============================================================================
// Learning plans
// =============================================================================

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.store.PublicPlans())
}

func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.store.Plan(chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, r, err, "Failed to fetch learning plan")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, plan)
}

func (h *Handler) ListUserPlans(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.store.PlansByUser(chi.URLParam(r, "userId")))
}

func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req model.PlanRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, r, "Invalid request body")
		return
	}
	plan, err := h.store.CreatePlan(userID, req)
	if err != nil {
		h.writeErr(w, r, err, "Failed to create learning plan")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, plan)
}

func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req model.PlanRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, r, "Invalid request body")
		return
	}
	plan, err := h.store.UpdatePlan(userID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeErr(w, r, err, "Failed to update learning plan")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, plan)
}

func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.store.DeletePlan(userID, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, r, err, "Failed to delete learning plan")
		return
	}
	httputil.WriteNoContent(w)
}

func (h *Handler) LikePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	plan, err := h.store.LikePlan(userID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, r, err, "Failed to like learning plan")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, plan)
}

// =============================================================================
// Progress updates
// =============================================================================

func (h *Handler) ListProgress(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.store.ProgressList())
}

func (h *Handler) ListUserProgress(w http.ResponseWriter, r *http.Request) {
	viewer, _ := UserIDFromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, h.store.ProgressByUser(viewer, chi.URLParam(r, "userId")))
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Progress(chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, r, err, "Failed to fetch progress update")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) CreateProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req model.ProgressRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, r, "Invalid request body")
		return
	}
	if req.HoursSpent <= 0 {
		httputil.WriteBadRequest(w, r, "Hours spent must be a positive number")
		return
	}
	p, err := h.store.CreateProgress(userID, req)
	if err != nil {
		h.writeErr(w, r, err, "Failed to create progress update")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req model.ProgressRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, r, "Invalid request body")
		return
	}
	p, err := h.store.UpdateProgress(userID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeErr(w, r, err, "Failed to update progress update")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteProgress(userID, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, r, err, "Failed to delete progress update")
		return
	}
	httputil.WriteNoContent(w)
}

// =============================================================================
// Chat
// =============================================================================

func (h *Handler) ConversationBetween(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	a, b := r.URL.Query().Get("user1"), r.URL.Query().Get("user2")
	if a == "" || b == "" {
		httputil.WriteBadRequest(w, r, "user1 and user2 are required")
		return
	}
	if userID != a && userID != b {
		h.writeErr(w, r, model.ErrNotParticipant, "Failed to load conversation")
		return
	}
	conv, err := h.store.ConversationBetween(a, b)
	if err != nil {
		h.writeErr(w, r, err, "Failed to load conversation")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, conv)
}

func (h *Handler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req model.CreateConversationRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, r, "Invalid request body")
		return
	}
	conv, err := h.store.CreateConversation(userID, req.User1ID, req.User2ID)
	if err != nil {
		h.writeErr(w, r, err, "Failed to start conversation")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, conv)
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	msgs, err := h.store.Messages(userID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, r, err, "Failed to load messages")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, msgs)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req model.SendMessageRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, r, "Invalid request body")
		return
	}
	msg, err := h.store.SendMessage(userID, req)
	if err != nil {
		h.writeErr(w, r, err, "Failed to send message")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, msg)
}

func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req model.UpdateMessageRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, r, "Invalid request body")
		return
	}
	msg, err := h.store.UpdateMessage(userID, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		h.writeErr(w, r, err, "Failed to update message")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, msg)
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteMessage(userID, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, r, err, "Failed to delete message")
		return
	}
	httputil.WriteNoContent(w)
}
