package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/listapp/internal/cli/formatter"
	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/alexanderramin/listapp/internal/reorder"
	"github.com/alexanderramin/listapp/internal/sequence"
	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Manage the items of a list",
	}

	cmd.AddCommand(
		newItemsAddCmd(app),
		newItemsShowCmd(app),
		newItemsEditCmd(app),
		newItemsRmCmd(app),
		newItemsMoveCmd(app),
	)

	return cmd
}

// loadList resolves a list reference and fetches it with items sorted.
func loadList(ctx context.Context, app *App, ref string) (*domain.List, error) {
	listID, err := resolveListID(ctx, app, ref)
	if err != nil {
		return nil, err
	}
	view, err := app.Lists.Get(ctx, listID)
	if err != nil {
		return nil, err
	}
	return view.List, nil
}

func newItemsAddCmd(app *App) *cobra.Command {
	var title, notes, image string

	cmd := &cobra.Command{
		Use:   "add LIST",
		Short: "Append an item to a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			listID, err := resolveListID(ctx, app, args[0])
			if err != nil {
				return err
			}
			item, err := app.Items.Create(ctx, listID, title, notes, image)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", formatter.Bold(item.Title), formatter.Dim(item.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Item title")
	cmd.Flags().StringVar(&notes, "notes", "", "Optional notes (markdown)")
	cmd.Flags().StringVar(&image, "image", "", "Optional image URL")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "show LIST ITEM",
		Short: "Show an item with its notes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			l, err := loadList(ctx, app, args[0])
			if err != nil {
				return err
			}
			itemID, err := resolveItemID(l, args[1])
			if err != nil {
				return err
			}
			for _, it := range l.Items {
				if it.ID == itemID {
					fmt.Fprint(cmd.OutOrStdout(), formatter.FormatItem(it, app.Images.Allowed(it), width))
					return nil
				}
			}
			return &domain.Error{Kind: domain.KindNotFound}
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "Wrap notes at this width")

	return cmd
}

func newItemsEditCmd(app *App) *cobra.Command {
	var title, notes, image string

	cmd := &cobra.Command{
		Use:   "edit LIST ITEM",
		Short: "Change an item's fields",
		Long: `Change an item's title, notes or image. Only the flags you pass are
sent; pass an empty value (--notes "") to clear an optional field.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !anyChanged(flags, "title", "notes", "image") {
				return errNoChanges
			}

			ctx := context.Background()
			l, err := loadList(ctx, app, args[0])
			if err != nil {
				return err
			}
			itemID, err := resolveItemID(l, args[1])
			if err != nil {
				return err
			}
			store := sequence.New(l.ID)
			store.Load(l.Items)
			initial, _ := store.Get(itemID)

			if !flags.Changed("title") {
				title = initial.Title
			}
			if !flags.Changed("notes") {
				notes = domain.Deref(initial.Notes)
			}
			if !flags.Changed("image") {
				image = domain.Deref(initial.ImagePath)
			}

			updated, changed, err := app.Items.Update(ctx, l.ID, initial, title, notes, image)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !changed {
				fmt.Fprintln(out, "No changes.")
				return nil
			}
			fmt.Fprintf(out, "Updated %s\n", formatter.Bold(updated.Title))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&notes, "notes", "", "New notes (empty clears them)")
	cmd.Flags().StringVar(&image, "image", "", "New image URL (empty clears it)")

	return cmd
}

func newItemsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm LIST ITEM",
		Aliases: []string{"delete"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			l, err := loadList(ctx, app, args[0])
			if err != nil {
				return err
			}
			itemID, err := resolveItemID(l, args[1])
			if err != nil {
				return err
			}
			if err := app.Items.Delete(ctx, l.ID, itemID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %s\n", formatter.Dim(itemID))
			return nil
		},
	}
}

func newItemsMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move LIST ITEM TARGET",
		Short: "Move ITEM into TARGET's position",
		Long: `Move ITEM into the position currently held by TARGET, shifting the
items in between. This is the same operation as dropping ITEM onto TARGET
in the TUI. The whole new order is sent to the server.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			l, err := loadList(ctx, app, args[0])
			if err != nil {
				return err
			}
			fromID, err := resolveItemID(l, args[1])
			if err != nil {
				return err
			}
			toID, err := resolveItemID(l, args[2])
			if err != nil {
				return err
			}

			store := sequence.New(l.ID)
			store.Load(l.Items)
			if err := reorder.New(store, app.Items, nil).Reorder(ctx, fromID, toID); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if fromID == toID {
				fmt.Fprintln(out, "Nothing to move.")
				return nil
			}
			l.Items = store.Items()
			fmt.Fprint(out, formatter.FormatList(l, app.Images.Allowed))
			return nil
		},
	}
}
