package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skillshare/internal/model"
)

func runRegister(ctx context.Context, a *App, args []string) error {
	fs := a.flags("register")
	var req model.RegisterRequest
	fs.StringVar(&req.Username, "username", "", "username")
	fs.StringVar(&req.Email, "email", "", "email address")
	fs.StringVar(&req.Password, "password", "", "password (prompted when omitted)")
	fs.StringVar(&req.FirstName, "first", "", "first name")
	fs.StringVar(&req.LastName, "last", "", "last name")
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" {
		return errUsage
	}
	if req.Password == "" {
		pw, err := a.prompt("Password: ")
		if err != nil {
			return err
		}
		req.Password = pw
	}

	if err := a.connect(ctx); err != nil {
		return err
	}
	u, err := a.api.Auth.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account %s created. Run `skillshare login %s` to sign in.\n", u.Username, u.Username)
	return nil
}

func runLogin(ctx context.Context, a *App, args []string) error {
	fs := a.flags("login")
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	if *password == "" {
		pw, err := a.prompt("Password: ")
		if err != nil {
			return err
		}
		*password = pw
	}

	if err := a.connect(ctx); err != nil {
		return err
	}
	res, err := a.api.Auth.Login(ctx, fs.Arg(0), *password)
	if err != nil {
		return err
	}

	name := fs.Arg(0)
	if u, err := a.api.Users.Get(ctx, res.UserID); err == nil {
		name = u.FullName()
	}
	fmt.Fprintf(a.out, "Welcome back, %s!\n", name)
	return nil
}

func runLogout(ctx context.Context, a *App, args []string) error {
	if err := parse(a.flags("logout"), args, 0); err != nil {
		return err
	}
	if err := a.connect(ctx); err != nil {
		return err
	}
	if err := a.api.Auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func runWhoami(ctx context.Context, a *App, args []string) error {
	if err := parse(a.flags("whoami"), args, 0); err != nil {
		return err
	}
	me, err := a.requireLogin(ctx)
	if err != nil {
		return err
	}
	u, err := a.api.Users.Get(ctx, me)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (@%s)\n", u.FullName(), u.Username)
	fmt.Fprintf(a.out, "id:    %s\n", u.ID)
	fmt.Fprintf(a.out, "email: %s\n", u.Email)
	if exp, ok := a.session.ExpiresAt(); ok {
		fmt.Fprintf(a.out, "session expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}
