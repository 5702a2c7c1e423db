package cli

import (
	"context"
	"fmt"

	"skillshare/internal/config"
	"skillshare/internal/form"
	"skillshare/internal/model"
	"skillshare/internal/upload"
)

// uploader returns the storage backend named by UPLOAD_BACKEND.
func (a *App) uploader(ctx context.Context) (upload.Uploader, error) {
	if a.up != nil {
		return a.up, nil
	}
	var (
		up  upload.Uploader
		err error
	)
	switch a.cfg.UploadBackend {
	case config.UploadBackendFirebase, "":
		up, err = upload.NewFirebaseUploader(ctx, a.cfg, a.logger)
	case config.UploadBackendR2:
		up, err = upload.NewR2Uploader(ctx, a.cfg, a.logger)
	default:
		err = fmt.Errorf("unknown upload backend %q", a.cfg.UploadBackend)
	}
	if err != nil {
		return nil, err
	}
	a.up = up
	return up, nil
}

// progress prints an updating percentage line for name.
func (a *App) progress(name string) upload.ProgressFunc {
	return func(pct int) {
		fmt.Fprintf(a.errOut, "\rUploading %s... %d%%", name, pct)
		if pct >= 100 {
			fmt.Fprintln(a.errOut)
		}
	}
}

func runUpload(ctx context.Context, a *App, args []string) error {
	fs := a.flags("upload")
	folder := fs.String("folder", model.PostMediaFolder, "destination folder")
	avatar := fs.Bool("avatar", false, "resize to a profile picture and set it on your account")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	me, err := a.requireLogin(ctx)
	if err != nil {
		return err
	}

	file, closer, err := upload.OpenFile(fs.Arg(0))
	if err != nil {
		return err
	}
	defer closer.Close()

	dest := *folder
	if *avatar {
		file, err = upload.PrepareProfileImage(file)
		if err != nil {
			return err
		}
		dest = model.AvatarFolder
	}

	up, err := a.uploader(ctx)
	if err != nil {
		return err
	}
	url, err := up.Upload(ctx, dest, file, a.progress(file.Name))
	if err != nil {
		return err
	}

	if !*avatar {
		fmt.Fprintln(a.out, url)
		return nil
	}

	u, err := a.api.Users.Get(ctx, me)
	if err != nil {
		return err
	}
	f := form.ProfileFormFrom(*u)
	f.ProfileImageURL = url
	req, err := f.Request(a.now())
	if err != nil {
		return err
	}
	if _, err := a.api.Users.Update(ctx, me, req); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Profile picture updated: %s\n", url)
	return nil
}
