package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/listapp/internal/cli/formatter"
	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showProfile(cmd, app)
		},
	}

	cmd.AddCommand(
		newProfileShowCmd(app),
		newProfileEditCmd(app),
		newProfileDeleteCmd(app),
	)

	return cmd
}

func newProfileShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your name, email and account dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showProfile(cmd, app)
		},
	}
}

func showProfile(cmd *cobra.Command, app *App) error {
	u, err := app.Profile.Get(context.Background())
	if err != nil {
		return authAware(err)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProfile(u))
	return nil
}

func newProfileEditCmd(app *App) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change your display name or email",
		Long: `Change your display name or email. Only the flags you pass are sent.
The server keeps a name and an email on every account, so neither can be
cleared.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !anyChanged(cmd.Flags(), "name", "email") {
				return errNoChanges
			}

			ctx := context.Background()
			initial, err := app.Profile.Get(ctx)
			if err != nil {
				return authAware(err)
			}
			u, changed, err := app.Profile.Update(ctx, initial, name, email)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !changed {
				fmt.Fprintln(out, "No changes.")
				return nil
			}
			fmt.Fprintf(out, "Updated profile of %s %s\n", formatter.Bold(u.Name), formatter.Dim("<"+u.Email+">"))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&email, "email", "", "New email address")

	return cmd
}

func newProfileDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "Delete your account and log out",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errConfirmAccountDelete
			}
			if err := app.Profile.Delete(context.Background()); err != nil {
				return authAware(err)
			}
			if err := app.Session.Delete(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account deleted. Logged out.")
			return app.reconnect()
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")

	return cmd
}

// authAware replaces a rejected session with the login hint.
func authAware(err error) error {
	if domain.KindOf(err) == domain.KindAuth {
		return errNotLoggedIn
	}
	return err
}
