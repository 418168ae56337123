package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"thumbcache/config"
	"thumbcache/di"
	middleware_custom "thumbcache/middleware"
	"thumbcache/utils/logger"
)

func RegisterRoutes(e *echo.Echo, container *di.ApplicationComponents, cfg *config.Config) {
	// request id first so every later log line carries it
	e.Use(middleware_custom.RequestIDMiddleware())
	e.Use(middleware.Recover())
	e.Use(middleware_custom.LoggingMiddleware(logger.Logger))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")
	v1.GET("/health", handleHealth)
	registerThumbnailRoutes(v1, container)

	// an absolute public root means another server hosts the files
	if !cfg.PublicRootIsURL() {
		e.Static(cfg.Public.Root, container.CacheStorage.Root())
	}
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
