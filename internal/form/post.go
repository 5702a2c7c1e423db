package form

import (
	"strings"

	"skillshare/internal/model"
)

type PostForm struct {
	Title       string            `json:"title" validate:"required,post_title"`
	Description string            `json:"description" validate:"required,max=2200"`
	Privacy     string            `json:"privacy" validate:"oneof=public followers private"`
	Location    string            `json:"location"`
	Media       []model.PostMedia `json:"media" validate:"min=1,max=10"`
	Tags        []string          `json:"tags"`
}

var postMessages = map[string]string{
	"title.required":       "Title is required",
	"title":                "Title must be between 3 and 100 characters",
	"description.required": "Description is required",
	"description":          "Description must be at most 2200 characters",
	"privacy":              "Please select who can see this post",
	"media.min":            "At least one media file is required",
	"media":                "You can attach at most 10 media files",
}

func NewPostForm() PostForm {
	return PostForm{Privacy: string(model.PrivacyPublic)}
}

// AddTag adds a trimmed tag. Blank and duplicate tags are ignored and
// reported as false.
func (f *PostForm) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	for _, t := range f.Tags {
		if t == tag {
			return false
		}
	}
	f.Tags = append(f.Tags, tag)
	return true
}

func (f *PostForm) RemoveTag(tag string) {
	kept := f.Tags[:0:0]
	for _, t := range f.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	f.Tags = kept
}

// AddMedia attaches an uploaded file.
func (f *PostForm) AddMedia(m model.PostMedia) {
	f.Media = append(f.Media, m)
}

func (f PostForm) trimmed() PostForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Location = strings.TrimSpace(f.Location)
	return f
}

func (f PostForm) Validate() Errors {
	return check(f.trimmed(), postMessages)
}

func (f PostForm) Request() (model.CreatePostRequest, error) {
	if err := f.Validate().Err(); err != nil {
		return model.CreatePostRequest{}, err
	}
	t := f.trimmed()
	req := model.CreatePostRequest{
		Title:       t.Title,
		Description: t.Description,
		Media:       append([]model.PostMedia(nil), t.Media...),
		Privacy:     model.Privacy(t.Privacy),
		Location:    t.Location,
	}
	if len(t.Tags) > 0 {
		req.Tags = append([]string(nil), t.Tags...)
	}
	return req, nil
}
