package cli

import (
	"context"
	"fmt"
	"strings"

	"skillshare/internal/form"
	"skillshare/internal/listing"
	"skillshare/internal/model"
)

func (a *App) listProgress(ctx context.Context, user string) ([]model.ProgressUpdate, error) {
	if user == "" {
		return a.api.Progress.List(ctx)
	}
	id, err := a.resolveUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return a.api.Progress.ListByUser(ctx, id)
}

func runProgress(ctx context.Context, a *App, args []string) error {
	fs := a.flags("progress")
	var f listing.ProgressFilter
	fs.StringVar(&f.Search, "search", "", "match title, content, author, achievements or challenges")
	fs.StringVar(&f.Type, "type", model.FilterAll, "progress type facet")
	fs.StringVar(&f.Sort, "sort", listing.SortNewest, "newest, oldest, hoursSpent, rating or alphabetical")
	user := fs.String("user", "", "only updates by this user id, or me")
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	if err := a.connect(ctx); err != nil {
		return err
	}

	updates, err := a.listProgress(ctx, *user)
	if err != nil {
		return err
	}
	shown := listing.Progress(updates, f)
	if len(shown) == 0 {
		fmt.Fprintln(a.out, "No progress updates match.")
		return nil
	}
	for _, u := range shown {
		rating := ""
		if r := u.RatingOrZero(); r > 0 {
			rating = fmt.Sprintf("  %s", strings.Repeat("*", r))
		}
		fmt.Fprintf(a.out, "%s  %s  [%s]  %dh%s  by @%s, %s\n",
			u.ID, u.Title, u.Type, u.HoursSpent, rating, u.User.Username, u.CreatedAt.Local().Format(dateLayout))
		for _, x := range u.Achievements {
			fmt.Fprintf(a.out, "    + %s\n", x)
		}
		for _, x := range u.Challenges {
			fmt.Fprintf(a.out, "    - %s\n", x)
		}
	}
	return nil
}

func runProgressAdd(ctx context.Context, a *App, args []string) error {
	fs := a.flags("progress-add")
	f := form.NewProgressForm()
	fs.StringVar(&f.Title, "title", "", "title")
	fs.StringVar(&f.Content, "content", "", "what you did")
	fs.StringVar(&f.HoursSpent, "hours", "", "whole hours spent")
	fs.StringVar(&f.Type, "type", "", "MILESTONE, DAILY_UPDATE, CHALLENGE, REFLECTION, STUCK or COMPLETED")
	fs.StringVar(&f.Rating, "rating", "", "1 to 5")
	fs.StringVar(&f.Sentiment, "sentiment", "", "EXCITED, SATISFIED, NEUTRAL, FRUSTRATED or OVERWHELMED")
	fs.StringVar(&f.RelatedPlanID, "plan", "", "related learning plan id")
	fs.StringVar(&f.LearningUnitID, "unit", "", "learning unit id within --plan")
	private := fs.Bool("private", false, "only you can see it")
	var challenges, achievements listFlag
	fs.Var(&challenges, "challenge", "challenge faced (repeatable)")
	fs.Var(&achievements, "achievement", "achievement (repeatable)")
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	me, err := a.requireLogin(ctx)
	if err != nil {
		return err
	}

	f.Type = strings.ToUpper(strings.TrimSpace(f.Type))
	f.Sentiment = strings.ToUpper(strings.TrimSpace(f.Sentiment))
	f.IsPublic = !*private
	if len(challenges) > 0 {
		f.Challenges = form.NewListField(challenges...)
	}
	if len(achievements) > 0 {
		f.Achievements = form.NewListField(achievements...)
	}

	req, err := f.Request()
	if err != nil {
		return err
	}
	req.UserID = me

	if req.RelatedPlanID != "" {
		plan, err := a.api.Plans.Get(ctx, req.RelatedPlanID)
		if err != nil {
			return err
		}
		if _, ok := plan.Unit(req.LearningUnitID); !ok {
			return form.Errors{"learningUnitId": "Please select a learning unit"}.Err()
		}
	}

	u, err := a.api.Progress.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged %s (%s).\n", u.Title, u.ID)
	return nil
}

// ownProgress loads an update and fails unless me created it.
func (a *App) ownProgress(ctx context.Context, id, me string) (*model.ProgressUpdate, error) {
	u, err := a.api.Progress.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.User.ID != me {
		return nil, model.ErrNotProgressOwner
	}
	return u, nil
}

func runProgressEdit(ctx context.Context, a *App, args []string) error {
	fs := a.flags("progress-edit")
	var edit form.ProgressForm
	fs.StringVar(&edit.Title, "title", "", "title")
	fs.StringVar(&edit.Content, "content", "", "what you did")
	fs.StringVar(&edit.HoursSpent, "hours", "", "whole hours spent")
	fs.StringVar(&edit.Type, "type", "", "progress type")
	fs.StringVar(&edit.Rating, "rating", "", "1 to 5, empty to clear")
	fs.StringVar(&edit.Sentiment, "sentiment", "", "sentiment, empty to clear")
	fs.BoolVar(&edit.IsPublic, "public", true, "whether others can see it")
	var challenges, achievements listFlag
	fs.Var(&challenges, "challenge", "replace challenges (repeatable)")
	fs.Var(&achievements, "achievement", "replace achievements (repeatable)")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	me, err := a.requireLogin(ctx)
	if err != nil {
		return err
	}
	u, err := a.ownProgress(ctx, fs.Arg(0), me)
	if err != nil {
		return err
	}

	set := setFlags(fs)
	if len(set) == 0 {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}
	f := form.ProgressFormFrom(*u)
	if set["title"] {
		f.Title = edit.Title
	}
	if set["content"] {
		f.Content = edit.Content
	}
	if set["hours"] {
		f.HoursSpent = edit.HoursSpent
	}
	if set["type"] {
		f.Type = strings.ToUpper(strings.TrimSpace(edit.Type))
	}
	if set["rating"] {
		f.Rating = edit.Rating
	}
	if set["sentiment"] {
		f.Sentiment = strings.ToUpper(strings.TrimSpace(edit.Sentiment))
	}
	if set["public"] {
		f.IsPublic = edit.IsPublic
	}
	if set["challenge"] {
		f.Challenges = form.NewListField(challenges...)
	}
	if set["achievement"] {
		f.Achievements = form.NewListField(achievements...)
	}

	req, err := f.Request()
	if err != nil {
		return err
	}
	req.UserID = me
	updated, err := a.api.Progress.Update(ctx, u.ID, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s (%s).\n", updated.Title, updated.ID)
	return nil
}

func runProgressDelete(ctx context.Context, a *App, args []string) error {
	fs := a.flags("progress-delete")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	me, err := a.requireLogin(ctx)
	if err != nil {
		return err
	}
	if _, err := a.ownProgress(ctx, fs.Arg(0), me); err != nil {
		return err
	}
	if err := a.confirmed(*yes, "Are you sure you want to delete this progress update?"); err != nil {
		return err
	}
	if err := a.api.Progress.Delete(ctx, fs.Arg(0)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Progress update deleted.")
	return nil
}

func runProgressStats(ctx context.Context, a *App, args []string) error {
	fs := a.flags("progress-stats")
	user := fs.String("user", "me", "user id, or me")
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	if err := a.connect(ctx); err != nil {
		return err
	}
	updates, err := a.listProgress(ctx, *user)
	if err != nil {
		return err
	}

	st := listing.ProgressStats(updates, a.now())
	fmt.Fprintf(a.out, "total hours:    %d\n", st.TotalHours)
	fmt.Fprintf(a.out, "updates:        %d\n", st.TotalUpdates)
	fmt.Fprintf(a.out, "this week:      %d\n", st.ThisWeekUpdates)
	fmt.Fprintf(a.out, "average rating: %.1f\n", st.AverageRating)
	return nil
}
