package cli

import (
	"context"
	"flag"
	"strings"

	"skillshare/internal/model"
)

type command struct {
	name    string
	args    string
	summary string
	run     func(ctx context.Context, a *App, args []string) error
}

var commands = []command{
	{"register", "--username NAME --email EMAIL [--password PW] [--first F] [--last L]", "create an account", runRegister},
	{"login", "[--password PW] USERNAME", "log in and remember the session", runLogin},
	{"logout", "", "forget the saved session", runLogout},
	{"whoami", "", "show the logged-in account", runWhoami},

	{"feed", "[--user ID]", "list posts with their reactions", runFeed},
	{"post", "--title T --description D [--privacy P] [--tag T]... --media PATH...", "upload media and create a post", runPost},
	{"delete-post", "[--yes] POST_ID", "delete one of your posts", runDeletePost},
	{"react", "POST_ID REACTION", "set, switch or clear your reaction (like, heart, care, haha, wow, angry, none)", runReact},
	{"comments", "[--add TEXT | --edit ID --content TEXT | --delete ID [--yes]] POST_ID", "list or change a post's comments", runComments},

	{"plans", "[--search Q] [--category C] [--level L] [--sort S] [--user ID|me]", "browse learning plans", runPlans},
	{"plan", "PLAN_ID", "show one learning plan", runPlan},
	{"plan-create", "--title T --description D --category C --level L --hours N --unit TITLE[:HOURS]... [--tag T]... [--private]", "create a learning plan", runPlanCreate},
	{"plan-edit", "[--title T] [--description D] [--category C] [--level L] [--hours N] [--public BOOL] [--tag T]... [--unit TITLE[:HOURS]]... PLAN_ID", "edit one of your learning plans", runPlanEdit},
	{"plan-like", "PLAN_ID", "like a learning plan", runPlanLike},
	{"plan-delete", "[--yes] PLAN_ID", "delete one of your learning plans", runPlanDelete},

	{"progress", "[--search Q] [--type T] [--sort S] [--user ID|me]", "browse progress updates", runProgress},
	{"progress-add", "--title T --content C --hours N --type T [--rating N] [--sentiment S] [--challenge X]... [--achievement X]... [--plan ID --unit ID] [--private]", "log a progress update", runProgressAdd},
	{"progress-edit", "[--title T] [--content C] [--hours N] [--type T] [--rating N] [--sentiment S] [--public BOOL] [--challenge X]... [--achievement X]... UPDATE_ID", "edit one of your progress updates", runProgressEdit},
	{"progress-delete", "[--yes] UPDATE_ID", "delete one of your progress updates", runProgressDelete},
	{"progress-stats", "[--user ID|me]", "summarize a learner's progress", runProgressStats},

	{"chat", "[--to USERNAME [--send TEXT]]", "open the chat screen, or message one contact", runChat},

	{"upload", "[--folder F | --avatar] PATH", "upload a file, or replace your profile picture", runUpload},
	{"profile", "[--user ID] [--first F] [--last L] [--bio B] [--phone N] [--gender G] [--address A] [--birthday YYYY-MM-DD] [--public BOOL]", "show or edit a profile", runProfile},
	{"delete-account", "[--yes]", "permanently delete your account", runDeleteAccount},

	{"devserver", "[--port P] [--seed]", "run the in-memory backend for local development", runDevServer},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// parse parses args and checks the positional count.
func parse(fs *flag.FlagSet, args []string, positional int) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != positional {
		return errUsage
	}
	return nil
}

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// setFlags reports which flags were given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// requireLogin connects and fails fast for anonymous users.
func (a *App) requireLogin(ctx context.Context) (string, error) {
	if err := a.connect(ctx); err != nil {
		return "", err
	}
	if !a.session.Authenticated() {
		return "", model.ErrLoginRequired
	}
	return a.session.UserID(), nil
}

// resolveUser maps "me" to the logged-in user's id.
func (a *App) resolveUser(ctx context.Context, id string) (string, error) {
	if id != "me" {
		return id, nil
	}
	return a.requireLogin(ctx)
}

// confirmed returns nil when yes is set or the user agrees at the prompt.
func (a *App) confirmed(yes bool, question string) error {
	if yes || a.confirm(question) {
		return nil
	}
	return model.ErrDeleteNotConfirmed
}
