package cli

import (
	"context"
	"fmt"

	"skillshare/internal/form"
	"skillshare/internal/model"
)

func runProfile(ctx context.Context, a *App, args []string) error {
	fs := a.flags("profile")
	user := fs.String("user", "me", "user id to show, or me")
	var edit form.ProfileForm
	fs.StringVar(&edit.FirstName, "first", "", "first name")
	fs.StringVar(&edit.LastName, "last", "", "last name")
	fs.StringVar(&edit.Bio, "bio", "", "short bio")
	fs.StringVar(&edit.ContactNumber, "phone", "", "10 digit contact number")
	fs.StringVar(&edit.Gender, "gender", "", "gender")
	fs.StringVar(&edit.Address, "address", "", "address")
	fs.StringVar(&edit.Birthday, "birthday", "", "YYYY-MM-DD")
	fs.BoolVar(&edit.PublicStatus, "public", false, "whether the profile is public")
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	if err := a.connect(ctx); err != nil {
		return err
	}

	set := setFlags(fs)
	delete(set, "user")
	if len(set) == 0 {
		id, err := a.resolveUser(ctx, *user)
		if err != nil {
			return err
		}
		u, err := a.api.Users.Get(ctx, id)
		if err != nil {
			return err
		}
		printProfile(a, u)
		return nil
	}

	me, err := a.requireLogin(ctx)
	if err != nil {
		return err
	}
	if *user != "me" && *user != me {
		return model.ErrNotAccountOwner
	}
	u, err := a.api.Users.Get(ctx, me)
	if err != nil {
		return err
	}

	f := form.ProfileFormFrom(*u)
	if set["first"] {
		f.FirstName = edit.FirstName
	}
	if set["last"] {
		f.LastName = edit.LastName
	}
	if set["bio"] {
		f.Bio = edit.Bio
	}
	if set["phone"] {
		f.ContactNumber = edit.ContactNumber
	}
	if set["gender"] {
		f.Gender = edit.Gender
	}
	if set["address"] {
		f.Address = edit.Address
	}
	if set["birthday"] {
		f.Birthday = edit.Birthday
	}
	if set["public"] {
		f.PublicStatus = edit.PublicStatus
	}

	req, err := f.Request(a.now())
	if err != nil {
		return err
	}
	updated, err := a.api.Users.Update(ctx, me, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated.")
	printProfile(a, updated)
	return nil
}

func printProfile(a *App, u *model.User) {
	fmt.Fprintf(a.out, "%s (@%s)\n", u.FullName(), u.Username)
	row := func(label, v string) {
		if v != "" {
			fmt.Fprintf(a.out, "%-9s %s\n", label+":", v)
		}
	}
	row("email", u.Email)
	row("bio", u.Bio)
	row("phone", u.ContactNumber)
	row("gender", u.Gender)
	row("address", u.Address)
	row("birthday", u.Birthday)
	row("picture", u.ProfileImageURL)
	visibility := "private"
	if u.PublicStatus {
		visibility = "public"
	}
	row("profile", visibility)
}

func runDeleteAccount(ctx context.Context, a *App, args []string) error {
	fs := a.flags("delete-account")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := parse(fs, args, 0); err != nil {
		return err
	}
	me, err := a.requireLogin(ctx)
	if err != nil {
		return err
	}
	if err := a.confirmed(*yes, "Delete your account? This cannot be undone."); err != nil {
		return err
	}
	if err := a.api.Users.Delete(ctx, me); err != nil {
		return err
	}
	if err := a.api.Auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Your account has been deleted.")
	return nil
}
