package cli

import (
	"context"
	"fmt"
	"strings"

	"skillshare/internal/comments"
	"skillshare/internal/form"
	"skillshare/internal/model"
	"skillshare/internal/reaction"
	"skillshare/internal/scope"
	"skillshare/internal/transport/rest"
	"skillshare/internal/upload"
	"skillshare/internal/worker"
)

const dateLayout = "Jan 2, 2006"

func (a *App) aggregator(sc *scope.Scope, postID string) *reaction.Aggregator {
	return reaction.New(a.api.Likes, a.session, postID, sc, reaction.Options{
		ReconcileDelay: a.cfg.ReconcileDelay,
		Logger:         a.logger,
	})
}

// reactionLine renders a reaction bar: "👍 2  ❤️ 1  (you: Heart)".
func reactionLine(st reaction.State) string {
	var parts []string
	for _, t := range model.Reactions {
		if n := st.Counts[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", t.Emoji(), n))
		}
	}
	line := "no reactions"
	if len(parts) > 0 {
		line = strings.Join(parts, "  ")
	}
	if st.Liked {
		line += fmt.Sprintf("  (you: %s)", st.Current.Label())
	}
	return line
}

func runFeed(ctx context.Context, a *App, args []string) error {
	fs := a.flags("feed")
	user := fs.String("user", "", "only posts by this user id, or me")
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	if err := a.connect(ctx); err != nil {
		return err
	}

	var posts []model.Post
	var err error
	if *user != "" {
		id, rerr := a.resolveUser(ctx, *user)
		if rerr != nil {
			return rerr
		}
		posts, err = a.api.Posts.ListByUser(ctx, id)
	} else {
		posts, err = a.api.Posts.List(ctx)
	}
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts yet.")
		return nil
	}

	sc := scope.New(ctx)
	defer sc.Close()

	// Each card loads its own reaction bar, as the web feed does.
	aggs := make([]*reaction.Aggregator, len(posts))
	jobs := make([]worker.Job, len(posts))
	for i, p := range posts {
		aggs[i] = a.aggregator(sc, p.ID)
		jobs[i] = aggs[i].Load
	}
	errs := worker.NewPool(worker.PoolConfig{Logger: a.logger}).Run(ctx, jobs)

	for i, p := range posts {
		fmt.Fprintf(a.out, "%s  %s  by @%s, %s\n", p.ID, p.Title, p.User.Username, p.CreatedAt.Local().Format(dateLayout))
		if p.Description != "" {
			fmt.Fprintf(a.out, "    %s\n", p.Description)
		}
		if len(p.Tags) > 0 {
			fmt.Fprintf(a.out, "    #%s\n", strings.Join(p.Tags, " #"))
		}
		if errs[i] != nil {
			fmt.Fprintf(a.out, "    reactions unavailable: %s\n", rest.MessageOf(errs[i]))
			continue
		}
		fmt.Fprintf(a.out, "    %s\n", reactionLine(aggs[i].Snapshot()))
	}
	return nil
}

func runReact(ctx context.Context, a *App, args []string) error {
	fs := a.flags("react")
	if err := parse(fs, args, 2); err != nil {
		return err
	}
	postID := fs.Arg(0)
	t, err := model.ParseReactionType(fs.Arg(1))
	if err != nil {
		return err
	}
	if _, err := a.requireLogin(ctx); err != nil {
		return err
	}

	sc := scope.New(ctx)
	defer sc.Close()
	agg := a.aggregator(sc, postID)
	if err := agg.Load(ctx); err != nil {
		return err
	}

	// "none" clears whatever is held by selecting it again.
	if t == model.ReactionNone {
		t = agg.Snapshot().Current
	}
	if t != model.ReactionNone {
		if err := agg.Select(ctx, t); err != nil {
			return err
		}
		// Fetch the server's tally now rather than waiting for the
		// scheduled reconcile; the scope closes before it would fire.
		if err := agg.Load(ctx); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.out, reactionLine(agg.Snapshot()))
	return nil
}

func runComments(ctx context.Context, a *App, args []string) error {
	fs := a.flags("comments")
	add := fs.String("add", "", "post a new comment")
	edit := fs.String("edit", "", "id of your comment to edit")
	content := fs.String("content", "", "new content for --edit")
	del := fs.String("delete", "", "id of a comment to delete")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	if err := a.connect(ctx); err != nil {
		return err
	}

	post, err := a.api.Posts.Get(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	sc := scope.New(ctx)
	defer sc.Close()
	thread := comments.NewThread(a.api.Comments, a.session, post.ID, post.User.ID, sc, a.logger)
	if err := thread.Load(ctx); err != nil {
		return err
	}

	switch {
	case *add != "":
		if _, err := thread.Create(ctx, *add); err != nil {
			return err
		}
	case *edit != "":
		changed, err := thread.Update(ctx, *edit, *content)
		if err != nil {
			return err
		}
		if !changed {
			fmt.Fprintln(a.out, "Nothing to change.")
		}
	case *del != "":
		confirm := func(prompt string) bool { return *yes || a.confirm(prompt) }
		if err := thread.Delete(ctx, *del, confirm); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.out, "%s: %d comment(s)\n", post.Title, thread.Count())
	for _, c := range thread.Comments() {
		var marks []string
		if thread.CanEdit(c) {
			marks = append(marks, "edit")
		}
		if thread.CanDelete(c) {
			marks = append(marks, "delete")
		}
		suffix := ""
		if c.Edited {
			suffix = " (edited)"
		}
		fmt.Fprintf(a.out, "%s  @%s, %s%s\n    %s\n", c.ID, c.User.Username, c.CreatedAt.Local().Format(dateLayout), suffix, c.Content)
		if len(marks) > 0 {
			fmt.Fprintf(a.out, "    [you can %s]\n", strings.Join(marks, ", "))
		}
	}
	return nil
}

func runPost(ctx context.Context, a *App, args []string) error {
	fs := a.flags("post")
	f := form.NewPostForm()
	fs.StringVar(&f.Title, "title", "", "post title")
	fs.StringVar(&f.Description, "description", "", "post description")
	fs.StringVar(&f.Privacy, "privacy", f.Privacy, "public, followers or private")
	fs.StringVar(&f.Location, "location", "", "where it happened")
	var tags, media listFlag
	fs.Var(&tags, "tag", "tag (repeatable)")
	fs.Var(&media, "media", "image or video file (repeatable, at least one)")
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	for _, t := range tags {
		f.AddTag(t)
	}
	if _, err := a.requireLogin(ctx); err != nil {
		return err
	}

	// Check everything but the attachments before spending time on uploads.
	errs := f.Validate()
	if len(media) > 0 {
		delete(errs, "media")
	}
	if err := errs.Err(); err != nil {
		return err
	}

	if len(media) > 0 {
		up, err := a.uploader(ctx)
		if err != nil {
			return err
		}
		for _, path := range media {
			m, err := a.uploadMedia(ctx, up, path)
			if err != nil {
				return err
			}
			f.AddMedia(m)
		}
	}

	req, err := f.Request()
	if err != nil {
		return err
	}
	post, err := a.api.Posts.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Posted %s (%s).\n", post.Title, post.ID)
	return nil
}

func (a *App) uploadMedia(ctx context.Context, up upload.Uploader, path string) (model.PostMedia, error) {
	file, closer, err := upload.OpenFile(path)
	if err != nil {
		return model.PostMedia{}, err
	}
	defer closer.Close()

	if _, ok := model.MediaTypeFor(file.ContentType); !ok {
		return model.PostMedia{}, fmt.Errorf("%s: %w", file.Name, model.ErrInvalidMediaType)
	}
	url, err := up.Upload(ctx, model.PostMediaFolder, file, a.progress(file.Name))
	if err != nil {
		return model.PostMedia{}, err
	}
	return upload.PostMedia(file, url)
}

func runDeletePost(ctx context.Context, a *App, args []string) error {
	fs := a.flags("delete-post")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	if _, err := a.requireLogin(ctx); err != nil {
		return err
	}
	if err := a.confirmed(*yes, "Are you sure you want to delete this post?"); err != nil {
		return err
	}
	if err := a.api.Posts.Delete(ctx, fs.Arg(0)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Post deleted.")
	return nil
}
