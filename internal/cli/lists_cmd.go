package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/listapp/internal/cli/formatter"
	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/spf13/cobra"
)

func newListsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lists",
		Aliases: []string{"list"},
		Short:   "Manage lists",
	}

	cmd.AddCommand(
		newListsLsCmd(app),
		newListsShowCmd(app),
		newListsCreateCmd(app),
		newListsUpdateCmd(app),
		newListsRmCmd(app),
	)

	return cmd
}

func newListsLsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List your lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := app.Lists.List(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if index.Stale {
				fmt.Fprintln(out, formatter.StaleBanner(index.FetchedAt))
			}
			fmt.Fprint(out, formatter.FormatListIndex(index.Lists))
			return nil
		},
	}
}

func newListsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show LIST",
		Short: "Show a list and its items in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			listID, err := resolveListID(ctx, app, args[0])
			if err != nil {
				return err
			}
			view, err := app.Lists.Get(ctx, listID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if view.Stale {
				fmt.Fprintln(out, formatter.StaleBanner(view.FetchedAt))
			}
			fmt.Fprint(out, formatter.FormatList(view.List, app.Images.Allowed))
			return nil
		},
	}
}

func newListsCreateCmd(app *App) *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.Lists.Create(context.Background(), title, description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created list %s %s\n", formatter.Bold(title), formatter.Dim(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "List title")
	cmd.Flags().StringVar(&description, "description", "", "Optional description")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newListsUpdateCmd(app *App) *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "update LIST",
		Short: "Change a list's title or description",
		Long: `Change a list's title or description. Only the flags you pass are
sent; pass --description "" to clear the description.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !anyChanged(flags, "title", "description") {
				return errNoChanges
			}

			ctx := context.Background()
			listID, err := resolveListID(ctx, app, args[0])
			if err != nil {
				return err
			}
			view, err := app.Lists.Get(ctx, listID)
			if err != nil {
				return err
			}
			initial := view.List.Summary()
			if !flags.Changed("title") {
				title = initial.Title
			}
			if !flags.Changed("description") {
				description = domain.Deref(initial.Description)
			}

			changed, err := app.Lists.Update(ctx, initial, title, description)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !changed {
				fmt.Fprintln(out, "No changes.")
				return nil
			}
			fmt.Fprintf(out, "Updated list %s\n", formatter.Dim(listID))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description (empty clears it)")

	return cmd
}

func newListsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm LIST",
		Aliases: []string{"delete"},
		Short:   "Delete a list and all of its items",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			listID, err := resolveListID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Lists.Delete(ctx, listID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted list %s\n", formatter.Dim(listID))
			return nil
		},
	}
}
