package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/lightbox/internal/entities"
	"github.com/mrlokans/lightbox/internal/entrypoint"
)

func newPhotosCommand(ctx *commandContext) *cobra.Command {
	var limit, offset int
	var tag string

	cmd := &cobra.Command{
		Use:   "photos [query]",
		Short: "List cataloged photos, optionally filtered by title",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			}
			if limit < 1 {
				return fmt.Errorf("--limit must be at least 1, got %d", limit)
			}

			return ctx.withApp(func(app *entrypoint.App) error {
				var (
					photos []entities.Photo
					total  int64
					err    error
				)
				if tag != "" {
					photos, err = app.Photos.ListByTag(cmd.Context(), tag)
					total = int64(len(photos))
				} else {
					photos, err = app.Photos.List(cmd.Context(), query, limit, offset)
					if err == nil {
						total, err = app.Photos.Count(cmd.Context(), query)
					}
				}
				if err != nil {
					return fmt.Errorf("list photos: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(photos) == 0 {
					fmt.Fprintln(out, "No photos found")
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "Ext", "Date", "Tags", "Master"},
					photoRows(photos),
					[]columnAlignment{alignRight},
				))
				fmt.Fprintf(out, "%d of %d photos\n", len(photos), total)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of photos to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of photos to skip")
	cmd.Flags().StringVar(&tag, "tag", "", "Only list photos with this tag")
	return cmd
}

func photoRows(photos []entities.Photo) [][]string {
	rows := make([][]string, 0, len(photos))
	for _, p := range photos {
		tags := make([]string, 0, len(p.Tags))
		for _, t := range p.Tags {
			tags = append(tags, t.Title)
		}
		rows = append(rows, []string{
			fmt.Sprint(p.ID),
			p.Title,
			p.Extension,
			p.Date,
			strings.Join(tags, ", "),
			p.Master,
		})
	}
	return rows
}
