package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrlokans/lightbox/internal/entrypoint"
	"github.com/mrlokans/lightbox/internal/importer"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [dir]",
		Short: "Import new photos from a library directory",
		Long: `Scan walks the directory (or the configured library_root), pairs RAW files
with their JPEG siblings and imports every photo not yet in the catalog.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var root string
			if len(args) == 1 {
				root = args[0]
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return ctx.withApp(func(app *entrypoint.App) error {
				result, err := app.Scans.Scan(runCtx, root)
				if err != nil {
					return err
				}
				printResult(cmd, result)
				return nil
			})
		},
	}
}

func printResult(cmd *cobra.Command, r *importer.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scan %s of %s\n", r.ScanID, r.RootPath)
	fmt.Fprintln(out, renderTable(
		[]string{"Discovered", "Already cataloged", "New", "Imported", "Existing", "Failed", "Duration"},
		[][]string{{
			fmt.Sprint(r.Discovered),
			fmt.Sprint(r.Skipped),
			fmt.Sprint(r.Units),
			fmt.Sprint(r.Imported),
			fmt.Sprint(r.Existing),
			fmt.Sprint(r.Failed),
			r.Duration.Round(time.Millisecond).String(),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
}
