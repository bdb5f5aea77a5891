package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/listapp/internal/api"
	"github.com/alexanderramin/listapp/internal/cli"
	"github.com/alexanderramin/listapp/internal/config"
	"github.com/alexanderramin/listapp/internal/db"
	"github.com/alexanderramin/listapp/internal/imagepolicy"
	"github.com/alexanderramin/listapp/internal/repository"
	"github.com/alexanderramin/listapp/internal/service"
	"github.com/alexanderramin/listapp/internal/session"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.ErrorMessage(err))
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	// Diagnostics go to stderr unless a log file is configured. The TUI
	// owns the terminal, so call logging there needs LISTAPP_LOG_FILE.
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	// The cache is optional: without it reads simply have no offline
	// fallback.
	var cache repository.CacheRepo
	database, err := db.OpenDB(cfg.CacheDB)
	if err != nil {
		fmt.Fprintf(logOut, "warning: cache disabled: %v\n", err)
	} else {
		defer database.Close()
		cache = repository.NewSQLiteCacheRepo(database, db.NewSQLiteUnitOfWork(database))
	}

	var callObserver api.Observer = api.NoopObserver{}
	var useCaseObserver service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogCalls {
		callObserver = api.NewLogObserver(logOut)
		useCaseObserver = service.NewLogUseCaseObserver(logOut)
	}

	sessions := session.NewStore(cfg.Home)

	app := &cli.App{
		Session: sessions,
		APIURL:  cfg.APIURL,
		Images: imagepolicy.Policy{
			AllowHTTP: cfg.ImageAllowHTTP,
			Hosts:     cfg.ImageHosts,
			Confirmer: imagepolicy.NewHTTPConfirmer(),
		},
	}

	// Connect wires a fresh client for apiURL carrying the stored session
	// cookie. It runs at startup and again after login, logout or --api-url.
	app.Connect = func(apiURL string) error {
		client, err := api.NewClient(api.Config{
			BaseURL:    apiURL,
			TimeoutMs:  cfg.TimeoutMs,
			MaxRetries: cfg.MaxRetries,
		}, nil, callObserver)
		if err != nil {
			return err
		}
		sess, err := sessions.Load()
		if err != nil {
			return err
		}
		if sess != nil {
			client.SetCookie(sess.Cookie())
		}

		app.APIURL = apiURL
		app.Lists = service.NewListService(client, cache, useCaseObserver)
		app.Items = service.NewItemService(client, cache, useCaseObserver)
		app.Profile = service.NewProfileService(client, cache, useCaseObserver)
		app.Users = client
		return nil
	}
	if err := app.Connect(cfg.APIURL); err != nil {
		return err
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
