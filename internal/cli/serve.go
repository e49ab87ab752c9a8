package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/lightbox/internal/entrypoint"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with the background task queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return entrypoint.Run(cfg, ctx.version)
		},
	}
}
