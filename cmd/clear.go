package cmd

import (
	"github.com/spf13/cobra"

	"thumbcache/utils/logger"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached thumbnail",
	Long:  `Clear deletes all files and shard directories under cache.root. The root itself is kept.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := components()
		if err != nil {
			return err
		}
		if err := app.ThumbnailUsecase.ClearAll(logger.WithOperation(cmd.Context(), "clear")); err != nil {
			return err
		}
		printer.Success("cleared %s", app.CacheStorage.Root())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
