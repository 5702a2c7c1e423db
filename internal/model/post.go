package model

import (
	"errors"
	"time"
)

// Privacy controls who can see a post.
type Privacy string

const (
	PrivacyPublic    Privacy = "public"
	PrivacyFollowers Privacy = "followers"
	PrivacyPrivate   Privacy = "private"
)

// Post represents a user's post with its metadata.
type Post struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Media          []PostMedia `json:"media"`
	Privacy        Privacy     `json:"privacy"`
	Tags           []string    `json:"tags,omitempty"`
	Location       string      `json:"location,omitempty"`
	MentionedUsers []string    `json:"mentionedUsers,omitempty"`
	User           UserSummary `json:"user"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// PostMedia represents a single media item in a post (carousel support).
type PostMedia struct {
	URL  string    `json:"url"`
	Type MediaType `json:"type"`
	Name string    `json:"name,omitempty"`
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Media          []PostMedia `json:"media"`
	Privacy        Privacy     `json:"privacy"`
	Tags           []string    `json:"tags,omitempty"`
	Location       string      `json:"location,omitempty"`
	MentionedUsers []string    `json:"mentionedUsers,omitempty"`
}

// Post constants
const (
	MaxPostMediaCount     = 10
	MaxPostDescriptionLen = 2200
	PostMediaFolder       = "paf-posts"
)

// Post errors
var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("not the owner of this post")
)
