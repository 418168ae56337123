package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thumbcache/utils/logger"
)

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	var seen string
	handler := RequestIDMiddleware()(func(c echo.Context) error {
		seen, _ = c.Request().Context().Value(logger.RequestIDKey).(string)
		return c.NoContent(http.StatusOK)
	})

	t.Run("generates an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		require.NoError(t, handler(e.NewContext(req, rec)))

		id := rec.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, seen)
	})

	t.Run("keeps an incoming id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")

		require.NoError(t, handler(e.NewContext(req, rec)))

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", seen)
	})
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, "debug", "json")

	e := echo.New()
	e.Use(RequestIDMiddleware(), LoggingMiddleware(log))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/missing", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound, "nope") })
	e.GET("/v1/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, path := range []string{"/ok", "/missing", "/v1/health"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	out := buf.String()
	assert.Contains(t, out, `"path":"/ok"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"request_id"`)
	assert.NotContains(t, out, "/v1/health")
}
