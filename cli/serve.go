package cli

import (
	"github.com/balboard/balboard/api"
	"github.com/urfave/cli/v2"
)

func (a *App) serve(ctx *cli.Context) error {
	addr := a.cfg.API.Addr
	if ctx.IsSet("addr") {
		addr = ctx.String("addr")
	}

	handler := api.NewHandler(a.logger, a.layout(), api.Options{
		CurrentFork:  a.cfg.CurrentFork,
		MaxAge:       a.cfg.API.Cache.MaxAge,
		SharedMaxAge: a.cfg.API.Cache.StaleWhileRevalidate,
	})
	return api.Serve(ctx.Context, a.logger, addr, handler)
}
