// Package comments manages the comment list shown under one post.
package comments

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"skillshare/internal/model"
	"skillshare/internal/scope"
	"skillshare/internal/session"
)

// CommentAPI is the subset of api.Comments the thread uses.
type CommentAPI interface {
	ListByPost(ctx context.Context, postID string) ([]model.Comment, error)
	Create(ctx context.Context, req model.CreateCommentRequest) (*model.Comment, error)
	Update(ctx context.Context, id string, req model.UpdateCommentRequest) (*model.Comment, error)
	Delete(ctx context.Context, id string) error
}

// ConfirmFunc asks the user to confirm a destructive action.
type ConfirmFunc func(prompt string) bool

// CanEdit reports whether the current user may edit a comment. Only the
// author may.
func CanEdit(currentUserID, authorID string) bool {
	return currentUserID != "" && currentUserID == authorID
}

// CanDelete reports whether the current user may delete a comment: its
// author or the owner of the post it sits under.
func CanDelete(currentUserID, authorID, postOwnerID string) bool {
	if currentUserID == "" {
		return false
	}
	return currentUserID == authorID || currentUserID == postOwnerID
}

// Thread holds one post's comments, newest first.
type Thread struct {
	api         CommentAPI
	identity    session.Identity
	postID      string
	postOwnerID string
	scope       *scope.Scope
	logger      *zap.Logger

	mu         sync.Mutex
	comments   []model.Comment
	submitting bool
}

func NewThread(api CommentAPI, identity session.Identity, postID, postOwnerID string, sc *scope.Scope, logger *zap.Logger) *Thread {
	if sc == nil {
		sc = scope.New(context.Background())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Thread{
		api:         api,
		identity:    identity,
		postID:      postID,
		postOwnerID: postOwnerID,
		scope:       sc,
		logger:      logger.Named("comments").With(zap.String("post_id", postID)),
	}
}

func (t *Thread) currentUser() string {
	if t.identity == nil || !t.identity.Authenticated() {
		return ""
	}
	return t.identity.UserID()
}

// Load replaces the list with the server's.
func (t *Thread) Load(ctx context.Context) error {
	ctx, cancel := t.scope.Bind(ctx)
	defer cancel()

	list, err := t.api.ListByPost(ctx, t.postID)
	if t.scope.Closed() {
		return model.ErrViewClosed
	}
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.comments = append([]model.Comment(nil), list...)
	t.mu.Unlock()
	return nil
}

// Create posts a new comment and prepends it.
func (t *Thread) Create(ctx context.Context, content string) (*model.Comment, error) {
	if t.currentUser() == "" {
		return nil, model.ErrLoginRequired
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, model.ErrContentRequired
	}
	if len(content) > model.MaxCommentLength {
		return nil, model.ErrContentTooLong
	}

	t.mu.Lock()
	if t.submitting {
		t.mu.Unlock()
		return nil, model.ErrBusy
	}
	t.submitting = true
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.submitting = false
		t.mu.Unlock()
	}()

	ctx, cancel := t.scope.Bind(ctx)
	defer cancel()
	c, err := t.api.Create(ctx, model.CreateCommentRequest{PostID: t.postID, Content: content})
	if t.scope.Closed() {
		return nil, model.ErrViewClosed
	}
	if err != nil {
		t.logger.Warn("create comment failed", zap.Error(err))
		return nil, err
	}

	t.mu.Lock()
	t.comments = append([]model.Comment{*c}, t.comments...)
	t.mu.Unlock()
	return c, nil
}

// Busy reports whether a create is in flight.
func (t *Thread) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.submitting
}

// Update edits a comment in place. Blank or unchanged content is treated as
// a cancelled edit and returns false with no error.
func (t *Thread) Update(ctx context.Context, id, content string) (bool, error) {
	user := t.currentUser()
	if user == "" {
		return false, model.ErrLoginRequired
	}

	existing, ok := t.find(id)
	if !ok {
		return false, model.ErrCommentNotFound
	}
	if !CanEdit(user, existing.User.ID) {
		return false, model.ErrNotCommentOwner
	}
	content = strings.TrimSpace(content)
	if content == "" || content == existing.Content {
		return false, nil
	}

	ctx, cancel := t.scope.Bind(ctx)
	defer cancel()
	updated, err := t.api.Update(ctx, id, model.UpdateCommentRequest{Content: content})
	if t.scope.Closed() {
		return false, model.ErrViewClosed
	}
	if err != nil {
		return false, err
	}

	t.mu.Lock()
	for i := range t.comments {
		if t.comments[i].ID == id {
			t.comments[i] = *updated
			break
		}
	}
	t.mu.Unlock()
	return true, nil
}

// Delete removes a comment after confirm approves it.
func (t *Thread) Delete(ctx context.Context, id string, confirm ConfirmFunc) error {
	user := t.currentUser()
	if user == "" {
		return model.ErrLoginRequired
	}

	existing, ok := t.find(id)
	if !ok {
		return model.ErrCommentNotFound
	}
	if !CanDelete(user, existing.User.ID, t.postOwnerID) {
		return model.ErrCannotDeleteComment
	}
	if confirm == nil || !confirm("Are you sure you want to delete this comment?") {
		return model.ErrDeleteNotConfirmed
	}

	ctx, cancel := t.scope.Bind(ctx)
	defer cancel()
	err := t.api.Delete(ctx, id)
	if t.scope.Closed() {
		return model.ErrViewClosed
	}
	if err != nil {
		return err
	}

	t.mu.Lock()
	kept := t.comments[:0:0]
	for _, c := range t.comments {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	t.comments = kept
	t.mu.Unlock()
	return nil
}

func (t *Thread) find(id string) (model.Comment, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.comments {
		if c.ID == id {
			return c, true
		}
	}
	return model.Comment{}, false
}

// Comments returns a copy of the list.
func (t *Thread) Comments() []model.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]model.Comment(nil), t.comments...)
}

func (t *Thread) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.comments)
}

// CanEdit and CanDelete for the current user, for rendering actions.
func (t *Thread) CanEdit(c model.Comment) bool {
	return CanEdit(t.currentUser(), c.User.ID)
}

func (t *Thread) CanDelete(c model.Comment) bool {
	return CanDelete(t.currentUser(), c.User.ID, t.postOwnerID)
}
