package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a post.
type Comment struct {
	ID        string      `json:"id"`
	PostID    string      `json:"postId"`
	Content   string      `json:"content"`
	User      UserSummary `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt *time.Time  `json:"updatedAt,omitempty"`
	Edited    bool        `json:"edited"`
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	PostID  string `json:"postId"`
	Content string `json:"content"`
}

// UpdateCommentRequest is the request body for updating a comment.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// Comment constraints
const (
	MaxCommentLength = 2200
)

// Comment errors
var (
	ErrCommentNotFound     = errors.New("comment not found")
	ErrNotCommentOwner     = errors.New("only the author can edit this comment")
	ErrCannotDeleteComment = errors.New("only the author or the post owner can delete this comment")
	ErrContentRequired     = errors.New("content is required")
	ErrContentTooLong      = errors.New("content too long")
)
