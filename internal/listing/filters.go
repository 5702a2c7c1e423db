package listing

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"skillshare/internal/model"
)

// PlanFilter is the plans page's search box, facets and sort selector.
// "All" or "" disables a facet.
type PlanFilter struct {
	Search     string
	Category   string
	SkillLevel string
	Sort       string
}

// Plans applies f to plans.
func Plans(plans []model.LearningPlan, f PlanFilter) []model.LearningPlan {
	var preds []Predicate[model.LearningPlan]

	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		preds = append(preds, func(p model.LearningPlan) bool {
			return containsFold(p.Title, q) || containsFold(p.Description, q) || anyContainsFold(p.Tags, q)
		})
	}
	if !facetOff(f.Category) {
		preds = append(preds, func(p model.LearningPlan) bool { return p.Category == f.Category })
	}
	if !facetOff(f.SkillLevel) {
		preds = append(preds, func(p model.LearningPlan) bool { return p.SkillLevel == f.SkillLevel })
	}

	return Apply(plans, preds, planLess(f.Sort))
}

func planLess(key string) Less[model.LearningPlan] {
	switch key {
	case SortNewest:
		return func(a, b model.LearningPlan) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortOldest:
		return func(a, b model.LearningPlan) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortPopular:
		return func(a, b model.LearningPlan) bool { return a.LikesCount > b.LikesCount }
	case SortAlphabetical:
		// Collators keep internal buffers, so each sort gets its own.
		c := collate.New(language.English)
		return func(a, b model.LearningPlan) bool { return c.CompareString(a.Title, b.Title) < 0 }
	default:
		return nil
	}
}

// ProgressFilter is the progress page's search box, type facet and sort.
type ProgressFilter struct {
	Search string
	Type   string
	Sort   string
}

// Progress applies f to updates.
func Progress(updates []model.ProgressUpdate, f ProgressFilter) []model.ProgressUpdate {
	var preds []Predicate[model.ProgressUpdate]

	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		preds = append(preds, func(u model.ProgressUpdate) bool {
			return containsFold(u.Title, q) ||
				containsFold(u.Content, q) ||
				containsFold(u.User.Username, q) ||
				anyContainsFold(u.Achievements, q) ||
				anyContainsFold(u.Challenges, q)
		})
	}
	if !facetOff(f.Type) {
		preds = append(preds, func(u model.ProgressUpdate) bool { return string(u.Type) == f.Type })
	}

	return Apply(updates, preds, progressLess(f.Sort))
}

func progressLess(key string) Less[model.ProgressUpdate] {
	switch key {
	case SortNewest:
		return func(a, b model.ProgressUpdate) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortOldest:
		return func(a, b model.ProgressUpdate) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortHoursSpent:
		return func(a, b model.ProgressUpdate) bool { return a.HoursSpent > b.HoursSpent }
	case SortRating:
		return func(a, b model.ProgressUpdate) bool { return a.RatingOrZero() > b.RatingOrZero() }
	case SortAlphabetical:
		c := collate.New(language.English)
		return func(a, b model.ProgressUpdate) bool { return c.CompareString(a.Title, b.Title) < 0 }
	default:
		return nil
	}
}

// Stats summarizes one user's progress updates.
type Stats struct {
	TotalHours      int
	TotalUpdates    int
	ThisWeekUpdates int
	// AverageRating is rounded to one decimal; 0 when nothing is rated.
	AverageRating float64
}

// ProgressStats computes Stats relative to now. "This week" is the seven
// days up to now.
func ProgressStats(updates []model.ProgressUpdate, now time.Time) Stats {
	st := Stats{TotalUpdates: len(updates)}
	weekAgo := now.AddDate(0, 0, -7)

	ratingSum, rated := 0, 0
	for _, u := range updates {
		if u.HoursSpent > 0 {
			st.TotalHours += u.HoursSpent
		}
		if r := u.RatingOrZero(); r > 0 {
			ratingSum += r
			rated++
		}
		if !u.CreatedAt.Before(weekAgo) {
			st.ThisWeekUpdates++
		}
	}
	if rated > 0 {
		st.AverageRating = math.Round(float64(ratingSum)/float64(rated)*10) / 10
	}
	return st
}

// FilterContacts lists the users the current user can chat with, matching
// query against username or email. The current user is never included.
func FilterContacts(users []model.User, currentUserID, query string) []model.User {
	q := strings.ToLower(strings.TrimSpace(query))
	preds := []Predicate[model.User]{
		func(u model.User) bool { return u.ID != currentUserID },
	}
	if q != "" {
		preds = append(preds, func(u model.User) bool {
			return containsFold(u.Username, q) || containsFold(u.Email, q)
		})
	}
	return Apply(users, preds, nil)
}
