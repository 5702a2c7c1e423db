package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ReactionType is the closed set of reactions a user can leave on a post.
// The zero value is ReactionNone, meaning "no reaction".
type ReactionType string

const (
	ReactionNone  ReactionType = ""
	ReactionLike  ReactionType = "like"
	ReactionHeart ReactionType = "heart"
	ReactionCare  ReactionType = "care"
	ReactionHaha  ReactionType = "haha"
	ReactionWow   ReactionType = "wow"
	ReactionAngry ReactionType = "angry"
)

// Reactions lists every real reaction in display order.
var Reactions = []ReactionType{
	ReactionLike,
	ReactionHeart,
	ReactionCare,
	ReactionHaha,
	ReactionWow,
	ReactionAngry,
}

var ErrUnknownReaction = errors.New("unknown reaction type")

// ParseReactionType maps user or wire input onto the enum. "" and "none"
// both parse to ReactionNone.
func ParseReactionType(s string) (ReactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ReactionNone, nil
	case "like":
		return ReactionLike, nil
	case "heart":
		return ReactionHeart, nil
	case "care":
		return ReactionCare, nil
	case "haha":
		return ReactionHaha, nil
	case "wow":
		return ReactionWow, nil
	case "angry":
		return ReactionAngry, nil
	default:
		return ReactionNone, fmt.Errorf("%w: %q", ErrUnknownReaction, s)
	}
}

// Valid reports whether r is a real reaction (not ReactionNone).
func (r ReactionType) Valid() bool {
	switch r {
	case ReactionLike, ReactionHeart, ReactionCare, ReactionHaha, ReactionWow, ReactionAngry:
		return true
	default:
		return false
	}
}

func (r ReactionType) Label() string {
	switch r {
	case ReactionLike:
		return "Like"
	case ReactionHeart:
		return "Heart"
	case ReactionCare:
		return "Care"
	case ReactionHaha:
		return "Haha"
	case ReactionWow:
		return "Wow"
	case ReactionAngry:
		return "Angry"
	case ReactionNone:
		return "None"
	default:
		return string(r)
	}
}

func (r ReactionType) Emoji() string {
	switch r {
	case ReactionLike:
		return "👍"
	case ReactionHeart:
		return "❤️"
	case ReactionCare:
		return "🤗"
	case ReactionHaha:
		return "😂"
	case ReactionWow:
		return "😮"
	case ReactionAngry:
		return "😡"
	default:
		return ""
	}
}

// UnmarshalJSON accepts null, "" and the six known kinds.
func (r *ReactionType) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = ReactionNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseReactionType(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalJSON writes ReactionNone as null so the toggle endpoint sees "no reaction".
func (r ReactionType) MarshalJSON() ([]byte, error) {
	if r == ReactionNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

// Like is one user's reaction on one post.
type Like struct {
	ID           string       `json:"id,omitempty"`
	PostID       string       `json:"postId"`
	UserID       string       `json:"userId"`
	ReactionType ReactionType `json:"reactionType"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// ToggleLikeRequest is the body of POST /likes/toggle.
type ToggleLikeRequest struct {
	PostID       string       `json:"postId"`
	ReactionType ReactionType `json:"reactionType"`
}

// LikeSummary is the server-side aggregate for a post as seen by the current user.
type LikeSummary struct {
	Count          int                  `json:"count"`
	Liked          bool                 `json:"liked"`
	ReactionType   ReactionType         `json:"reactionType"`
	ReactionCounts map[ReactionType]int `json:"reactionCounts"`
}
