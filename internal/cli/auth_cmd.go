package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/listapp/internal/cli/formatter"
	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var cookie string

	cmd := &cobra.Command{
		Use:   "login [NAME=VALUE]",
		Short: "Store the session cookie of a logged-in browser",
		Long: `Store the session cookie issued by the server after signing in
through the browser. Copy the cookie (usually JSESSIONID) from the browser's
developer tools and pass it as NAME=VALUE, or pass the bare value.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cookie == "" && len(args) == 1 {
				cookie = args[0]
			}
			if cookie == "" {
				return fmt.Errorf("a cookie is required: listapp login --cookie NAME=VALUE")
			}

			sess, err := app.Session.Save(cookie)
			if err != nil {
				return err
			}
			if err := app.reconnect(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			u, err := app.Users.GetUser(context.Background())
			switch {
			case err == nil:
				fmt.Fprintf(out, "Logged in as %s %s\n", formatter.Bold(u.Name), formatter.Dim("<"+u.Email+">"))
			case domain.KindOf(err) == domain.KindAuth:
				_ = app.Session.Delete()
				return fmt.Errorf("the server rejected cookie %s: %w", sess.CookieName, err)
			default:
				fmt.Fprintf(out, "Saved cookie %s, but could not verify it: %s\n", sess.CookieName, ErrorMessage(err))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cookie, "cookie", "", "Session cookie as NAME=VALUE")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Delete(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return app.reconnect()
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user of the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.Users.GetUser(context.Background())
			if err != nil {
				return authAware(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", formatter.Bold(u.Name), formatter.Dim("<"+u.Email+">"))
			fmt.Fprintf(out, "%s %s\n", formatter.Dim("server"), app.APIURL)
			return nil
		},
	}
}
