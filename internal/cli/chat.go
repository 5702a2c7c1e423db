package cli

import (
	"context"
	"fmt"
	"strings"

	"skillshare/internal/chat"
	"skillshare/internal/scope"
	"skillshare/internal/tui"
)

func runChat(ctx context.Context, a *App, args []string) error {
	fs := a.flags("chat")
	to := fs.String("to", "", "username to message without opening the chat screen")
	send := fs.String("send", "", "message to send to --to")
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	if *send != "" && *to == "" {
		return errUsage
	}
	me, err := a.requireLogin(ctx)
	if err != nil {
		return err
	}

	sc := scope.New(ctx)
	defer sc.Close()
	mgr := chat.NewManager(a.api.Chat, a.session, sc, a.logger)

	if *to == "" {
		return tui.Run(ctx, mgr, a.api.Users, me)
	}

	users, err := a.api.Users.List(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i, u := range users {
		if strings.EqualFold(u.Username, *to) && u.ID != me {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("no user named %q", *to)
	}

	if err := mgr.Select(ctx, users[idx]); err != nil {
		return err
	}
	if *send != "" {
		if _, err := mgr.Send(ctx, *send); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.out, "Chat with %s\n", users[idx].FullName())
	groups := mgr.Groups(nil)
	if len(groups) == 0 {
		fmt.Fprintln(a.out, "No messages yet. Say hello!")
	}
	for _, g := range groups {
		fmt.Fprintf(a.out, "\n--- %s ---\n", g.Label)
		for _, m := range g.Messages {
			name := m.Sender.Username
			if m.Sender.ID == me {
				name = "You"
			}
			edited := ""
			if m.Edited {
				edited = " (edited)"
			}
			fmt.Fprintf(a.out, "%s %s: %s%s\n", m.SentAt.Local().Format("15:04"), name, m.Content, edited)
		}
	}
	return nil
}
