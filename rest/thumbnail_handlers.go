package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"thumbcache/di"
	"thumbcache/domain"
	"thumbcache/utils/logger"
)

// thumbnailService is the part of the thumbnail usecase the handlers use.
type thumbnailService interface {
	Resolve(ctx context.Context, source string, width, height int, opts domain.ThumbnailOptions) (string, error)
	PublicURL(path string) (string, error)
	ClearAll(ctx context.Context) error
}

// ThumbnailResponse is the body of a successful resolve.
type ThumbnailResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

func registerThumbnailRoutes(v1 *echo.Group, container *di.ApplicationComponents) {
	thumbnails := v1.Group("/thumbnails")
	thumbnails.GET("", handleResolveThumbnail(container.ThumbnailUsecase))
	thumbnails.DELETE("", handleClearThumbnails(container.ThumbnailUsecase))
}

// handleResolveThumbnail serves
// GET /v1/thumbnails?src=&w=&h=[&mode=&format=&quality=&cache_mode=&redirect=1]
func handleResolveThumbnail(svc thumbnailService) echo.HandlerFunc {
	return func(c echo.Context) error {
		source := strings.TrimSpace(c.QueryParam("src"))
		if source == "" {
			return handleValidationError(c, "src is required", "src", source)
		}

		width, err := strconv.Atoi(c.QueryParam("w"))
		if err != nil || width <= 0 {
			return handleValidationError(c, "w must be a positive integer", "w", c.QueryParam("w"))
		}
		height, err := strconv.Atoi(c.QueryParam("h"))
		if err != nil || height <= 0 {
			return handleValidationError(c, "h must be a positive integer", "h", c.QueryParam("h"))
		}

		opts, err := domain.ParseThumbnailOptions(
			c.QueryParam("format"),
			c.QueryParam("mode"),
			c.QueryParam("cache_mode"),
			c.QueryParam("quality"),
		)
		if err != nil {
			return handleValidationError(c, err.Error(), "options", c.QueryString())
		}

		ctx := logger.WithOperation(c.Request().Context(), "resolve_thumbnail")
		path, err := svc.Resolve(ctx, source, width, height, opts)
		if err != nil {
			return handleError(c, err, "resolve_thumbnail")
		}
		url, err := svc.PublicURL(path)
		if err != nil {
			return handleError(c, err, "resolve_thumbnail")
		}

		if redirect, _ := strconv.ParseBool(c.QueryParam("redirect")); redirect {
			return c.Redirect(http.StatusFound, url)
		}
		return c.JSON(http.StatusOK, ThumbnailResponse{Path: path, URL: url})
	}
}

// handleClearThumbnails serves DELETE /v1/thumbnails.
func handleClearThumbnails(svc thumbnailService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := logger.WithOperation(c.Request().Context(), "clear_thumbnails")
		if err := svc.ClearAll(ctx); err != nil {
			return handleError(c, err, "clear_thumbnails")
		}
		return c.NoContent(http.StatusNoContent)
	}
}
