package listing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"skillshare/internal/listing"
	"skillshare/internal/model"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func intp(n int) *int { return &n }

func samplePlans() []model.LearningPlan {
	return []model.LearningPlan{
		{ID: "1", Title: "Go Concurrency", Description: "channels", Category: model.CategoryProgramming, SkillLevel: model.SkillAdvanced, Tags: []string{"go"}, LikesCount: 3, CreatedAt: base},
		{ID: "2", Title: "React Basics", Description: "hooks and state", Category: model.CategoryWebDevelopment, SkillLevel: model.SkillBeginner, Tags: []string{"frontend", "javascript"}, LikesCount: 10, CreatedAt: base.Add(time.Hour)},
		{ID: "3", Title: "Pandas", Description: "dataframes in go? no", Category: model.CategoryDataScience, SkillLevel: model.SkillBeginner, Tags: []string{"python"}, LikesCount: 1, CreatedAt: base.Add(-time.Hour)},
		{ID: "4", Title: "gRPC in Go", Description: "services", Category: model.CategoryProgramming, SkillLevel: model.SkillBeginner, Tags: []string{"GO", "rpc"}, LikesCount: 3, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func planIDs(plans []model.LearningPlan) []string {
	out := make([]string, len(plans))
	for i, p := range plans {
		out[i] = p.ID
	}
	return out
}

// =============================================================================
// Apply
// =============================================================================

func TestApply_DoesNotModifyInput(t *testing.T) {
	in := []int{3, 1, 2}
	out := listing.Apply(in, nil, func(a, b int) bool { return a < b })
	assert.Equal(t, []int{1, 2, 3}, out)
	assert.Equal(t, []int{3, 1, 2}, in)
}

func TestApply_PredicateOrderDoesNotMatter(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 12, 15}
	even := func(n int) bool { return n%2 == 0 }
	byThree := func(n int) bool { return n%3 == 0 }

	ab := listing.Apply(in, []listing.Predicate[int]{even, byThree}, nil)
	ba := listing.Apply(in, []listing.Predicate[int]{byThree, even}, nil)
	chained := listing.Apply(listing.Apply(in, []listing.Predicate[int]{even}, nil), []listing.Predicate[int]{byThree}, nil)

	assert.Equal(t, []int{6, 12}, ab)
	assert.Equal(t, ab, ba)
	assert.Equal(t, ab, chained)
}

func TestApply_StableSort(t *testing.T) {
	type item struct{ key, id int }
	in := []item{{1, 1}, {0, 2}, {1, 3}, {0, 4}}
	out := listing.Apply(in, nil, func(a, b item) bool { return a.key < b.key })
	assert.Equal(t, []item{{0, 2}, {0, 4}, {1, 1}, {1, 3}}, out)
}

// =============================================================================
// Plans
// =============================================================================

func TestPlans_SearchCoversTitleDescriptionTags(t *testing.T) {
	got := listing.Plans(samplePlans(), listing.PlanFilter{Search: "GO"})
	assert.Equal(t, []string{"1", "3", "4"}, planIDs(got))

	got = listing.Plans(samplePlans(), listing.PlanFilter{Search: "javascript"})
	assert.Equal(t, []string{"2"}, planIDs(got))
}

func TestPlans_Facets(t *testing.T) {
	got := listing.Plans(samplePlans(), listing.PlanFilter{Category: model.CategoryProgramming, SkillLevel: model.SkillBeginner})
	assert.Equal(t, []string{"4"}, planIDs(got))

	got = listing.Plans(samplePlans(), listing.PlanFilter{Category: model.FilterAll, SkillLevel: "all"})
	assert.Len(t, got, 4)
}

func TestPlans_CombinedEqualsSequential(t *testing.T) {
	f := listing.PlanFilter{Search: "go", Category: model.CategoryProgramming, SkillLevel: model.SkillBeginner}
	combined := listing.Plans(samplePlans(), f)

	step := listing.Plans(samplePlans(), listing.PlanFilter{Search: "go"})
	step = listing.Plans(step, listing.PlanFilter{Category: model.CategoryProgramming})
	step = listing.Plans(step, listing.PlanFilter{SkillLevel: model.SkillBeginner})

	assert.Equal(t, planIDs(step), planIDs(combined))
}

func TestPlans_Sorts(t *testing.T) {
	tests := []struct {
		sort string
		want []string
	}{
		{listing.SortNewest, []string{"4", "2", "1", "3"}},
		{listing.SortOldest, []string{"3", "1", "2", "4"}},
		{listing.SortPopular, []string{"2", "1", "4", "3"}},
		{listing.SortAlphabetical, []string{"1", "4", "3", "2"}},
		{"bogus", []string{"1", "2", "3", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			assert.Equal(t, tt.want, planIDs(listing.Plans(samplePlans(), listing.PlanFilter{Sort: tt.sort})))
		})
	}
}

func TestPlans_AlphabeticalIsLocaleAware(t *testing.T) {
	plans := []model.LearningPlan{{ID: "b", Title: "Banana Plan"}, {ID: "a", Title: "apple Plan"}}
	got := listing.Plans(plans, listing.PlanFilter{Sort: listing.SortAlphabetical})
	assert.Equal(t, []string{"a", "b"}, planIDs(got))
}

// =============================================================================
// Progress
// =============================================================================

func sampleProgress() []model.ProgressUpdate {
	return []model.ProgressUpdate{
		{ID: "a", Title: "Day one", Content: "set up", Type: model.ProgressDailyUpdate, HoursSpent: 2, Rating: intp(3), User: model.UserSummary{Username: "alice"}, CreatedAt: base},
		{ID: "b", Title: "Stuck on generics", Content: "type params", Type: model.ProgressStuck, HoursSpent: 5, Challenges: []string{"constraints"}, User: model.UserSummary{Username: "bob"}, CreatedAt: base.Add(time.Hour)},
		{ID: "c", Title: "Shipped", Content: "done!", Type: model.ProgressCompleted, HoursSpent: 1, Rating: intp(5), Achievements: []string{"First release"}, User: model.UserSummary{Username: "alice"}, CreatedAt: base.Add(-time.Hour)},
	}
}

func progressIDs(list []model.ProgressUpdate) []string {
	out := make([]string, len(list))
	for i, u := range list {
		out[i] = u.ID
	}
	return out
}

func TestProgress_SearchFields(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, progressIDs(listing.Progress(sampleProgress(), listing.ProgressFilter{Search: "ALICE"})))
	assert.Equal(t, []string{"b"}, progressIDs(listing.Progress(sampleProgress(), listing.ProgressFilter{Search: "constraint"})))
	assert.Equal(t, []string{"c"}, progressIDs(listing.Progress(sampleProgress(), listing.ProgressFilter{Search: "release"})))
}

func TestProgress_TypeFacet(t *testing.T) {
	got := listing.Progress(sampleProgress(), listing.ProgressFilter{Type: string(model.ProgressStuck)})
	assert.Equal(t, []string{"b"}, progressIDs(got))
	assert.Len(t, listing.Progress(sampleProgress(), listing.ProgressFilter{Type: "ALL"}), 3)
}

func TestProgress_Sorts(t *testing.T) {
	tests := []struct {
		sort string
		want []string
	}{
		{listing.SortNewest, []string{"b", "a", "c"}},
		{listing.SortOldest, []string{"c", "a", "b"}},
		{listing.SortHoursSpent, []string{"b", "a", "c"}},
		{listing.SortRating, []string{"c", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			assert.Equal(t, tt.want, progressIDs(listing.Progress(sampleProgress(), listing.ProgressFilter{Sort: tt.sort})))
		})
	}
}

func TestProgressStats(t *testing.T) {
	now := base.Add(24 * time.Hour)
	updates := append(sampleProgress(), model.ProgressUpdate{ID: "old", HoursSpent: 10, Rating: intp(4), CreatedAt: base.AddDate(0, 0, -30)})

	st := listing.ProgressStats(updates, now)
	assert.Equal(t, 18, st.TotalHours)
	assert.Equal(t, 4, st.TotalUpdates)
	assert.Equal(t, 3, st.ThisWeekUpdates)
	assert.Equal(t, 4.0, st.AverageRating)

	assert.Equal(t, listing.Stats{}, listing.ProgressStats(nil, now))
}

func TestProgressStats_RoundsAverage(t *testing.T) {
	updates := []model.ProgressUpdate{{Rating: intp(4)}, {Rating: intp(4)}, {Rating: intp(5)}}
	assert.Equal(t, 4.3, listing.ProgressStats(updates, base).AverageRating)
}

// =============================================================================
// Contacts
// =============================================================================

func TestFilterContacts(t *testing.T) {
	users := []model.User{
		{ID: "me", Username: "me", Email: "me@x.io"},
		{ID: "1", Username: "Alice", Email: "alice@x.io"},
		{ID: "2", Username: "bob", Email: "robert@corp.com"},
	}

	all := listing.FilterContacts(users, "me", "")
	assert.Len(t, all, 2)

	got := listing.FilterContacts(users, "me", "CORP")
	assert.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	assert.Empty(t, listing.FilterContacts(users, "me", "me@"))
}
