package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"thumbcache/adapter/html_adapter"
	"thumbcache/domain"
	"thumbcache/utils/logger"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve SRC WIDTH HEIGHT",
	Short: "Resolve a thumbnail, generating it if needed",
	Long: `Resolve prints the path of the cached thumbnail for SRC at WIDTH x HEIGHT,
producing it first when there is no valid entry.

SRC is a local path (relative to source.root) or an http(s) URL.

With --url the public URL is printed instead. With --html the thumbnail is
rendered as an <img>, <source> or <picture> fragment; missing sources are then
rendered inline instead of failing the command.`,
	Example: `  thumbcache resolve images/cat.jpg 100 100
  thumbcache resolve images/cat.jpg 300 200 --mode inset_box --format png
  thumbcache resolve https://example.com/a.jpg 64 64 --cache-mode header --url
  thumbcache resolve images/cat.jpg 100 100 --html picture`,
	Args: cobra.ExactArgs(3),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().String("mode", "", "resize mode: outbound, inset or inset_box")
	resolveCmd.Flags().String("format", "", "output format (defaults to the source extension)")
	resolveCmd.Flags().String("quality", "", "encoder quality 0-100")
	resolveCmd.Flags().String("cache-mode", "", "remote staleness check: none, checksum or header")
	resolveCmd.Flags().Bool("url", false, "print the public URL instead of the file path")
	resolveCmd.Flags().String("html", "", "render html: img, source or picture")
}

func runResolve(cmd *cobra.Command, args []string) error {
	source := args[0]
	width, err := strconv.Atoi(args[1])
	if err != nil || width <= 0 {
		return fmt.Errorf("invalid width %q: must be a positive integer", args[1])
	}
	height, err := strconv.Atoi(args[2])
	if err != nil || height <= 0 {
		return fmt.Errorf("invalid height %q: must be a positive integer", args[2])
	}

	mode, _ := cmd.Flags().GetString("mode")
	format, _ := cmd.Flags().GetString("format")
	quality, _ := cmd.Flags().GetString("quality")
	cacheMode, _ := cmd.Flags().GetString("cache-mode")
	asURL, _ := cmd.Flags().GetBool("url")
	htmlKind, _ := cmd.Flags().GetString("html")

	opts, err := domain.ParseThumbnailOptions(format, mode, cacheMode, quality)
	if err != nil {
		return err
	}

	app, err := components()
	if err != nil {
		return err
	}
	ctx := logger.WithOperation(cmd.Context(), "resolve")

	switch htmlKind {
	case "":
	case "img":
		printer.Result(app.HTMLAdapter.Img(ctx, source, width, height, opts, nil))
		return nil
	case "source":
		printer.Result(app.HTMLAdapter.Source(ctx, source, width, height, opts))
		return nil
	case "picture":
		// the <source> uses the configured picture format, the <img> the requested one
		printer.Result(app.HTMLAdapter.Picture(ctx, source, width, height, html_adapter.PictureOptions{
			Source: withFormat(opts, ""),
			Img:    opts,
		}))
		return nil
	default:
		return fmt.Errorf("invalid --html %q: must be img, source or picture", htmlKind)
	}

	if asURL {
		url, err := app.ThumbnailUsecase.ResolveURL(ctx, source, width, height, opts)
		if err != nil {
			return err
		}
		printer.Result(url)
		return nil
	}

	path, err := app.ThumbnailUsecase.Resolve(ctx, source, width, height, opts)
	if err != nil {
		return err
	}
	printer.Result(path)
	return nil
}

func withFormat(opts domain.ThumbnailOptions, format string) domain.ThumbnailOptions {
	opts.Format = format
	return opts
}
