package cli

import (
	"fmt"

	"github.com/alexanderramin/listapp/internal/imagepolicy"
	"github.com/alexanderramin/listapp/internal/service"
	"github.com/alexanderramin/listapp/internal/session"
	"github.com/spf13/cobra"
)

// App holds the services and collaborators used by commands and the TUI.
type App struct {
	Lists   service.ListService
	Items   service.ItemService
	Profile service.ProfileService
	Users   session.UserGetter
	Session *session.Store
	Images  imagepolicy.Policy

	// APIURL is the server the services currently talk to.
	APIURL string

	// Connect rebuilds Lists, Items, Profile and Users against apiURL using the
	// stored session. Nil means the App was wired by hand (tests).
	Connect func(apiURL string) error

	// IsInteractive reports whether stdin is a terminal. When true, the
	// bare root command starts the TUI.
	IsInteractive func() bool
}

// reconnect re-wires the services after the session changed.
func (a *App) reconnect() error {
	if a.Connect == nil {
		return nil
	}
	return a.Connect(a.APIURL)
}

// NewRootCmd creates the top-level "listapp" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var apiURL string

	root := &cobra.Command{
		Use:           "listapp",
		Short:         "Ordered lists in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("api-url") || apiURL == app.APIURL {
				return nil
			}
			if app.Connect == nil {
				return fmt.Errorf("--api-url is not supported here")
			}
			app.APIURL = apiURL
			return app.Connect(apiURL)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&apiURL, "api-url", app.APIURL, "Base URL of the lists API")

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newProfileCmd(app),
		newListsCmd(app),
		newItemsCmd(app),
		newTUICmd(app),
	)

	return root
}
