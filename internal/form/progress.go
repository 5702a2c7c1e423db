package form

import (
	"strconv"
	"strings"

	"skillshare/internal/model"
)

// ProgressForm is the create/edit progress update form. Numeric inputs are
// kept as typed so "3.5" or "-3" can be rejected with a message.
type ProgressForm struct {
	Title          string    `json:"title" validate:"title"`
	Content        string    `json:"content" validate:"body"`
	HoursSpent     string    `json:"hoursSpent" validate:"positive_int"`
	Type           string    `json:"type" validate:"required,oneof=MILESTONE DAILY_UPDATE CHALLENGE REFLECTION STUCK COMPLETED"`
	Rating         string    `json:"rating" validate:"omitempty,oneof=1 2 3 4 5"`
	Sentiment      string    `json:"sentiment" validate:"omitempty,oneof=EXCITED SATISFIED NEUTRAL FRUSTRATED OVERWHELMED"`
	IsPublic       bool      `json:"isPublic"`
	Challenges     ListField `json:"challenges" validate:"dive,omitempty,list_item"`
	Achievements   ListField `json:"achievements" validate:"dive,omitempty,list_item"`
	RelatedPlanID  string    `json:"relatedPlanId"`
	LearningUnitID string    `json:"learningUnitId" validate:"required_with=RelatedPlanID"`
}

var progressMessages = map[string]string{
	"title":          "Title must be between 5 and 100 characters",
	"content":        "Content must be between 10 and 1000 characters",
	"hoursSpent":     "Hours spent must be a positive number",
	"type":           "Please select a progress type",
	"rating":         "Rating must be between 1 and 5",
	"sentiment":      "Please select a valid sentiment",
	"challenges":     "Challenge must be between 3 and 200 characters",
	"achievements":   "Achievement must be between 3 and 200 characters",
	"learningUnitId": "Please select a learning unit",
}

// NewProgressForm returns a blank form with one empty challenge and
// achievement, public by default.
func NewProgressForm() ProgressForm {
	return ProgressForm{
		IsPublic:     true,
		Challenges:   NewListField(),
		Achievements: NewListField(),
	}
}

// ProgressFormFrom pre-fills the edit form from an existing update.
func ProgressFormFrom(u model.ProgressUpdate) ProgressForm {
	f := ProgressForm{
		Title:          u.Title,
		Content:        u.Content,
		HoursSpent:     strconv.Itoa(u.HoursSpent),
		Type:           string(u.Type),
		Sentiment:      string(u.Sentiment),
		IsPublic:       u.IsPublic,
		Challenges:     NewListField(u.Challenges...),
		Achievements:   NewListField(u.Achievements...),
		RelatedPlanID:  u.RelatedPlanID,
		LearningUnitID: u.LearningUnitID,
	}
	if u.Rating != nil {
		f.Rating = strconv.Itoa(*u.Rating)
	}
	return f
}

func (f ProgressForm) Validate() Errors {
	return check(f, progressMessages)
}

// Request validates the form and builds the request body. Blank list entries
// are dropped.
func (f ProgressForm) Request() (model.ProgressRequest, error) {
	if err := f.Validate().Err(); err != nil {
		return model.ProgressRequest{}, err
	}

	hours, _ := strconv.Atoi(f.HoursSpent)
	req := model.ProgressRequest{
		Title:          f.Title,
		Content:        f.Content,
		IsPublic:       f.IsPublic,
		HoursSpent:     hours,
		Type:           model.ProgressType(f.Type),
		Sentiment:      model.Sentiment(f.Sentiment),
		Challenges:     f.Challenges.Pruned(),
		Achievements:   f.Achievements.Pruned(),
		RelatedPlanID:  strings.TrimSpace(f.RelatedPlanID),
		LearningUnitID: strings.TrimSpace(f.LearningUnitID),
	}
	if f.Rating != "" {
		r, _ := strconv.Atoi(f.Rating)
		req.Rating = &r
	}
	return req, nil
}
