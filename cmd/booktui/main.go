package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/matheus3301/bookadmin/internal/api"
	"github.com/matheus3301/bookadmin/internal/app"
	"github.com/matheus3301/bookadmin/internal/config"
	"github.com/matheus3301/bookadmin/internal/importer"
	"github.com/matheus3301/bookadmin/internal/profile"
	"github.com/matheus3301/bookadmin/internal/session"
	"github.com/matheus3301/bookadmin/internal/store"
	"github.com/matheus3301/bookadmin/internal/tui"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	debug := flag.Bool("debug", false, "write debug lines to the profile log")
	flag.Parse()

	name := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadOrDefault(profile.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var (
		mgr    *session.Manager
		tables *app.Tables
		im     *importer.Importer
		db     *store.DB
		client *api.Client
		logger *zap.Logger
	)
	params := app.Params{Profile: name, Config: cfg, Debug: *debug, Exclusive: true}
	err = app.Run(context.Background(), params, func(context.Context) error {
		return tui.NewApp(tui.Deps{
			Profile:  name,
			Backend:  cfg.BackendURL,
			Session:  mgr,
			Tables:   tables,
			Importer: im,
			Store:    db,
			Client:   client,
			Logger:   logger.Named("tui"),
		}).Run()
	}, fx.Populate(&mgr, &tables, &im, &db, &client, &logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
