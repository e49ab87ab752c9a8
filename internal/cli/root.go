// Package cli implements the lightbox command line.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the lightbox command tree.
func NewRootCommand(version, commit string) *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag, version)

	rootCmd := &cobra.Command{
		Use:           "lightbox",
		Short:         "Photo library importer and catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newScanCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newPhotosCommand(ctx))
	rootCmd.AddCommand(newTagsCommand(ctx))
	rootCmd.AddCommand(newVersionCommand(version, commit))

	return rootCmd
}
