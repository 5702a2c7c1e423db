package cli

import (
	"context"
	"fmt"
	"strings"

	"skillshare/internal/form"
	"skillshare/internal/listing"
	"skillshare/internal/model"
)

func runPlans(ctx context.Context, a *App, args []string) error {
	fs := a.flags("plans")
	var f listing.PlanFilter
	fs.StringVar(&f.Search, "search", "", "match title, description or tags")
	fs.StringVar(&f.Category, "category", model.FilterAll, "category facet")
	fs.StringVar(&f.SkillLevel, "level", model.FilterAll, "skill level facet")
	fs.StringVar(&f.Sort, "sort", listing.SortNewest, "newest, oldest, popular or alphabetical")
	user := fs.String("user", "", "only plans by this user id, or me")
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	if err := a.connect(ctx); err != nil {
		return err
	}

	var plans []model.LearningPlan
	if *user != "" {
		id, err := a.resolveUser(ctx, *user)
		if err != nil {
			return err
		}
		if plans, err = a.api.Plans.ListByUser(ctx, id); err != nil {
			return err
		}
	} else {
		page, err := a.api.Plans.ListPublic(ctx)
		if err != nil {
			return err
		}
		plans = page.Content
	}

	shown := listing.Plans(plans, f)
	if len(shown) == 0 {
		fmt.Fprintln(a.out, "No learning plans match.")
		return nil
	}
	for _, p := range shown {
		fmt.Fprintf(a.out, "%s  %s  [%s, %s]  %dh  %d like(s)  by @%s\n",
			p.ID, p.Title, p.Category, p.SkillLevel, p.EstimatedHours, p.LikesCount, p.User.Username)
	}
	return nil
}

func runPlan(ctx context.Context, a *App, args []string) error {
	fs := a.flags("plan")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	if err := a.connect(ctx); err != nil {
		return err
	}
	p, err := a.api.Plans.Get(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n%s\n\n", p.Title, p.Description)
	fmt.Fprintf(a.out, "category: %s\nlevel:    %s\nhours:    %d\nlikes:    %d\ncomplete: %.0f%%\n",
		p.Category, p.SkillLevel, p.EstimatedHours, p.LikesCount, p.CompletionPercentage)
	if len(p.Tags) > 0 {
		fmt.Fprintf(a.out, "tags:     %s\n", strings.Join(p.Tags, ", "))
	}
	fmt.Fprintln(a.out, "\nunits:")
	for i, u := range p.LearningUnits {
		mark := " "
		if u.Completed {
			mark = "x"
		}
		fmt.Fprintf(a.out, "  [%s] %d. %s (%s)", mark, i+1, u.Title, u.UnitID)
		if u.EstimatedHours > 0 {
			fmt.Fprintf(a.out, " %dh", u.EstimatedHours)
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

func runPlanCreate(ctx context.Context, a *App, args []string) error {
	fs := a.flags("plan-create")
	f := form.NewPlanForm()
	fs.StringVar(&f.Title, "title", "", "plan title")
	fs.StringVar(&f.Description, "description", "", "what the plan covers")
	fs.StringVar(&f.Category, "category", "", "one of: "+strings.Join(model.PlanCategories, ", "))
	fs.StringVar(&f.SkillLevel, "level", "", "one of: "+strings.Join(model.SkillLevels, ", "))
	fs.StringVar(&f.EstimatedHours, "hours", "", "estimated hours")
	private := fs.Bool("private", false, "only you can see it")
	var tags, units listFlag
	fs.Var(&tags, "tag", "tag (repeatable)")
	fs.Var(&units, "unit", "learning unit as TITLE or TITLE:HOURS (repeatable)")
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	if _, err := a.requireLogin(ctx); err != nil {
		return err
	}

	f.IsPublic = !*private
	if len(tags) > 0 {
		f.Tags = form.NewListField(tags...)
	}
	if len(units) > 0 {
		f.LearningUnits = nil
		for _, u := range units {
			f.LearningUnits = append(f.LearningUnits, parseUnit(u))
		}
	}

	req, err := f.Request()
	if err != nil {
		return err
	}
	p, err := a.api.Plans.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created learning plan %s (%s).\n", p.Title, p.ID)
	return nil
}

// parseUnit splits "Title:Hours". A title may itself contain colons; only a
// numeric suffix is taken as hours.
func parseUnit(s string) form.UnitForm {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return form.UnitForm{Title: s}
	}
	hours := strings.TrimSpace(s[i+1:])
	if hours == "" || strings.Trim(hours, "0123456789") != "" {
		return form.UnitForm{Title: s}
	}
	return form.UnitForm{Title: strings.TrimSpace(s[:i]), EstimatedHours: hours}
}

func runPlanLike(ctx context.Context, a *App, args []string) error {
	fs := a.flags("plan-like")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	if _, err := a.requireLogin(ctx); err != nil {
		return err
	}
	p, err := a.api.Plans.Like(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s now has %d like(s).\n", p.Title, p.LikesCount)
	return nil
}

// ownPlan loads a plan and fails unless me owns it.
func (a *App) ownPlan(ctx context.Context, id, me string) (*model.LearningPlan, error) {
	p, err := a.api.Plans.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.User.ID != me {
		return nil, model.ErrNotPlanOwner
	}
	return p, nil
}

func runPlanEdit(ctx context.Context, a *App, args []string) error {
	fs := a.flags("plan-edit")
	var edit form.PlanForm
	fs.StringVar(&edit.Title, "title", "", "plan title")
	fs.StringVar(&edit.Description, "description", "", "what the plan covers")
	fs.StringVar(&edit.Category, "category", "", "one of: "+strings.Join(model.PlanCategories, ", "))
	fs.StringVar(&edit.SkillLevel, "level", "", "one of: "+strings.Join(model.SkillLevels, ", "))
	fs.StringVar(&edit.EstimatedHours, "hours", "", "estimated hours")
	fs.BoolVar(&edit.IsPublic, "public", true, "whether others can see it")
	var tags, units listFlag
	fs.Var(&tags, "tag", "replace tags (repeatable)")
	fs.Var(&units, "unit", "replace units with TITLE or TITLE:HOURS (repeatable)")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	me, err := a.requireLogin(ctx)
	if err != nil {
		return err
	}
	p, err := a.ownPlan(ctx, fs.Arg(0), me)
	if err != nil {
		return err
	}

	set := setFlags(fs)
	if len(set) == 0 {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}
	f := form.PlanFormFrom(*p)
	if set["title"] {
		f.Title = edit.Title
	}
	if set["description"] {
		f.Description = edit.Description
	}
	if set["category"] {
		f.Category = edit.Category
	}
	if set["level"] {
		f.SkillLevel = edit.SkillLevel
	}
	if set["hours"] {
		f.EstimatedHours = edit.EstimatedHours
	}
	if set["public"] {
		f.IsPublic = edit.IsPublic
	}
	if set["tag"] {
		f.Tags = form.NewListField(tags...)
	}
	if set["unit"] {
		f.LearningUnits = nil
		for _, u := range units {
			f.LearningUnits = append(f.LearningUnits, parseUnit(u))
		}
	}

	req, err := f.Request()
	if err != nil {
		return err
	}
	updated, err := a.api.Plans.Update(ctx, p.ID, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated learning plan %s (%s).\n", updated.Title, updated.ID)
	return nil
}

func runPlanDelete(ctx context.Context, a *App, args []string) error {
	fs := a.flags("plan-delete")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	me, err := a.requireLogin(ctx)
	if err != nil {
		return err
	}
	if _, err := a.ownPlan(ctx, fs.Arg(0), me); err != nil {
		return err
	}
	if err := a.confirmed(*yes, "Are you sure you want to delete this learning plan?"); err != nil {
		return err
	}
	if err := a.api.Plans.Delete(ctx, fs.Arg(0)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Learning plan deleted.")
	return nil
}
