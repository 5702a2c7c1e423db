package model

import (
	"errors"
	"time"
)

// ProgressType classifies a progress update.
type ProgressType string

const (
	ProgressMilestone   ProgressType = "MILESTONE"
	ProgressDailyUpdate ProgressType = "DAILY_UPDATE"
	ProgressChallenge   ProgressType = "CHALLENGE"
	ProgressReflection  ProgressType = "REFLECTION"
	ProgressStuck       ProgressType = "STUCK"
	ProgressCompleted   ProgressType = "COMPLETED"
)

var ProgressTypes = []ProgressType{
	ProgressMilestone,
	ProgressDailyUpdate,
	ProgressChallenge,
	ProgressReflection,
	ProgressStuck,
	ProgressCompleted,
}

// Sentiment is the optional mood attached to an update.
type Sentiment string

const (
	SentimentExcited     Sentiment = "EXCITED"
	SentimentSatisfied   Sentiment = "SATISFIED"
	SentimentNeutral     Sentiment = "NEUTRAL"
	SentimentFrustrated  Sentiment = "FRUSTRATED"
	SentimentOverwhelmed Sentiment = "OVERWHELMED"
)

var Sentiments = []Sentiment{
	SentimentExcited,
	SentimentSatisfied,
	SentimentNeutral,
	SentimentFrustrated,
	SentimentOverwhelmed,
}

// ProgressUpdate is a learner's log entry, optionally tied to a plan unit.
type ProgressUpdate struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Content        string       `json:"content"`
	IsPublic       bool         `json:"isPublic"`
	HoursSpent     int          `json:"hoursSpent"`
	Type           ProgressType `json:"type"`
	Rating         *int         `json:"rating,omitempty"`
	Sentiment      Sentiment    `json:"sentiment,omitempty"`
	Challenges     []string     `json:"challenges"`
	Achievements   []string     `json:"achievements"`
	RelatedPlanID  string       `json:"relatedPlanId,omitempty"`
	LearningUnitID string       `json:"learningUnitId,omitempty"`
	User           UserSummary  `json:"user"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// RatingOrZero treats a missing rating as 0.
func (p ProgressUpdate) RatingOrZero() int {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// ProgressRequest is the body for creating or updating a progress update.
type ProgressRequest struct {
	UserID         string       `json:"userId,omitempty"`
	Title          string       `json:"title"`
	Content        string       `json:"content"`
	IsPublic       bool         `json:"isPublic"`
	HoursSpent     int          `json:"hoursSpent"`
	Type           ProgressType `json:"type"`
	Rating         *int         `json:"rating"`
	Sentiment      Sentiment    `json:"sentiment,omitempty"`
	Challenges     []string     `json:"challenges"`
	Achievements   []string     `json:"achievements"`
	RelatedPlanID  string       `json:"relatedPlanId,omitempty"`
	LearningUnitID string       `json:"learningUnitId,omitempty"`
}

var (
	ErrProgressNotFound = errors.New("progress update not found")
	ErrNotProgressOwner = errors.New("only the creator can modify this progress update")
)
