package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/lightbox/internal/entities"
	"github.com/mrlokans/lightbox/internal/entrypoint"
)

func newTagsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags [query]",
		Short: "List keyword tags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(app *entrypoint.App) error {
				var (
					tags []entities.Tag
					err  error
				)
				if len(args) == 1 {
					tags, err = app.Tags.SearchTags(cmd.Context(), args[0])
				} else {
					tags, err = app.Tags.ListTags(cmd.Context())
				}
				if err != nil {
					return fmt.Errorf("list tags: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(tags) == 0 {
					fmt.Fprintln(out, "No tags found")
					return nil
				}
				rows := make([][]string, 0, len(tags))
				for _, t := range tags {
					rows = append(rows, []string{fmt.Sprint(t.ID), t.Title})
				}
				fmt.Fprintln(out, renderTable([]string{"ID", "Tag"}, rows, []columnAlignment{alignRight}))
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "cleanup",
		Short: "Delete tags no photo refers to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(app *entrypoint.App) error {
				removed, err := app.Tags.DeleteOrphanTags(cmd.Context())
				if err != nil {
					return fmt.Errorf("cleanup tags: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d orphan tags\n", removed)
				return nil
			})
		},
	})

	return cmd
}
