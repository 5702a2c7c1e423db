package cli

import (
	"context"
	"fmt"

	"skillshare/internal/devserver"
)

func runDevServer(ctx context.Context, a *App, args []string) error {
	fs := a.flags("devserver")
	port := fs.String("port", a.cfg.DevServerPort, "port to listen on")
	seed := fs.Bool("seed", false, "create demo accounts and content")
	if err := parse(fs, args, 0); err != nil {
		return err
	}

	srv := devserver.New(":"+*port, a.cfg.JWTSecret, a.logger)
	if *seed {
		if err := devserver.Seed(srv.Store); err != nil {
			return err
		}
		a.logger.Info("seeded demo data")
		fmt.Fprintf(a.out, "Demo accounts alice, bob and carol use password %q.\n", devserver.DemoPassword)
	}
	fmt.Fprintf(a.out, "Serving the API at http://localhost:%s/api (ctrl+c to stop)\n", *port)
	return srv.Run(ctx)
}
