// Package cli is the skillshare command line: one subcommand per screen of
// the web client, all talking to the backend through internal/api.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"skillshare/internal/api"
	"skillshare/internal/config"
	"skillshare/internal/database"
	"skillshare/internal/form"
	"skillshare/internal/model"
	"skillshare/internal/redis"
	"skillshare/internal/session"
	"skillshare/internal/transport/rest"
	"skillshare/internal/upload"
)

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

var errUsage = errors.New("usage")

// App holds the wiring shared by every subcommand. The session and API
// client are built on first use, so commands that never reach the backend
// (devserver, help) do not touch the session store.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	store   session.Store
	session *session.Session
	api     *api.Client
	up      upload.Uploader
	closers []io.Closer
}

func New(cfg *config.Config, logger *zap.Logger, in io.Reader, out, errOut io.Writer) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		cfg:    cfg,
		logger: logger,
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
		now:    time.Now,
	}
}

// Close releases the session store's connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// connect builds the session and API client once.
func (a *App) connect(ctx context.Context) error {
	if a.api != nil {
		return nil
	}

	if a.store == nil {
		store, closer, err := openStore(ctx, a.cfg, a.logger)
		if err != nil {
			return err
		}
		a.store = store
		if closer != nil {
			a.closers = append(a.closers, closer)
		}
	}

	sess := session.New(a.store)
	if err := sess.Restore(ctx); err != nil {
		a.logger.Warn("could not restore session", zap.Error(err))
	}

	rc, err := rest.New(rest.Options{
		BaseURL:           a.cfg.APIBaseURL,
		HTTPClient:        &http.Client{Timeout: a.cfg.HTTPTimeout},
		Session:           sess,
		Logger:            a.logger,
		Debug:             a.cfg.IsDevelopment(),
		RequestsPerSecond: a.cfg.RequestsPerSecond,
		OnUnauthorized: func() {
			fmt.Fprintln(a.errOut, "Your session has expired. Run `skillshare login` to sign in again.")
		},
	})
	if err != nil {
		return err
	}

	a.session = sess
	a.api = api.New(rc)
	return nil
}

// openStore picks the credential store named by SESSION_STORE.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, io.Closer, error) {
	switch cfg.SessionStore {
	case config.SessionStoreMemory:
		return session.NewMemoryStore(), nil, nil

	case config.SessionStoreFile, "":
		return session.NewFileStore(cfg.SessionFile), nil, nil

	case config.SessionStoreRedis:
		client, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		logger.Debug("using redis session store", zap.String("profile", cfg.SessionProfile))
		return session.NewRedisStore(client.Client, cfg.SessionProfile, 0), client, nil

	case config.SessionStorePostgres:
		db, err := database.Connect(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		store := session.NewSQLStore(db, cfg.SessionProfile)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, db, nil

	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

// Run dispatches args[0] to its subcommand and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.printUsage()
		if len(args) == 0 {
			return ExitUsage
		}
		return ExitOK
	}

	cmd, ok := lookup(args[0])
	if !ok {
		fmt.Fprintf(a.errOut, "unknown command %q\n\n", args[0])
		a.printUsage()
		return ExitUsage
	}

	if err := cmd.run(ctx, a, args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(a.errOut, "usage: skillshare %s %s\n", cmd.name, cmd.args)
			return ExitUsage
		}
		a.report(err)
		return ExitError
	}
	return ExitOK
}

func (a *App) printUsage() {
	fmt.Fprintln(a.errOut, "usage: skillshare <command> [flags] [args]")
	fmt.Fprintln(a.errOut)
	fmt.Fprintln(a.errOut, "commands:")
	for _, c := range commands {
		fmt.Fprintf(a.errOut, "  %-16s %s\n", c.name, c.summary)
	}
}

// report prints err the way the web client would show it.
func (a *App) report(err error) {
	if fields, ok := form.FieldErrors(err); ok {
		fmt.Fprintln(a.errOut, "Please fix the following:")
		for _, k := range fields.Keys() {
			fmt.Fprintf(a.errOut, "  %s: %s\n", k, fields[k])
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrLoginRequired):
		fmt.Fprintln(a.errOut, "You must log in first: run `skillshare login`.")
	case errors.Is(err, model.ErrDeleteNotConfirmed):
		fmt.Fprintln(a.errOut, "Cancelled.")
	case rest.KindOf(err) == rest.KindNetwork:
		fmt.Fprintf(a.errOut, "Cannot reach %s: %s\n", a.cfg.APIBaseURL, rest.MessageOf(err))
	default:
		fmt.Fprintln(a.errOut, rest.MessageOf(err))
	}
	a.logger.Debug("command failed", zap.Error(err))
}

// prompt reads one line from stdin after printing label.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirm asks a yes/no question; anything but y/yes is no.
func (a *App) confirm(question string) bool {
	answer, err := a.prompt(question + " [y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
