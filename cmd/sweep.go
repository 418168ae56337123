package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"thumbcache/utils/logger"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove expired thumbnails",
	Long: `Sweep walks cache.root and deletes entries older than cache.expire.
Entries are also checked on every lookup, so sweeping only reclaims space held
by thumbnails nobody requests anymore.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Cache.Expire <= 0 {
			printer.Warning("cache.expire is 0, entries never expire")
			printer.Result("0")
			return nil
		}

		app, err := components()
		if err != nil {
			return err
		}
		removed, err := app.ThumbnailUsecase.SweepExpired(logger.WithOperation(cmd.Context(), "sweep"))
		if err != nil {
			return err
		}
		printer.Success("removed %d expired entries older than %s", removed, cfg.Cache.Expire)
		printer.Result(strconv.Itoa(removed))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
